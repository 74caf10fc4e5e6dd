package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "corkyctl.db"), testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		err := store.Record(ctx, Entry{
			Endpoint:    "tcp://127.0.0.1:6565",
			Destination: "telegram",
			Status:      "ok",
			Action:      "send_message",
			Payload:     `["ok","send_message",{"text":"t"}]`,
			SentAt:      base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first
	if !entries[0].SentAt.After(entries[2].SentAt) {
		t.Errorf("entries not ordered newest first: %v, %v", entries[0].SentAt, entries[2].SentAt)
	}
	if entries[0].Destination != "telegram" || entries[0].Action != "send_message" {
		t.Errorf("entry fields lost: %+v", entries[0])
	}
}

func TestRecent_Limit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{
			Endpoint: "tcp://127.0.0.1:6565", Destination: "telegram",
			Status: "ok", Action: "send_message", Payload: "[]",
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := testStore(t)
	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty store", len(entries))
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "corkyctl.db")
	store, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}
