package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestValidateEndpoint(t *testing.T) {
	valid := []string{
		"tcp://127.0.0.1:6565",
		"tcp://localhost:1",
		"ipc:///tmp/corky.sock",
		"inproc://loop",
	}
	for _, ep := range valid {
		if err := ValidateEndpoint(ep); err != nil {
			t.Errorf("ValidateEndpoint(%q) = %v, want nil", ep, err)
		}
	}

	invalid := []string{
		"",
		"127.0.0.1:6565",
		"tcp://",
		"tcp://127.0.0.1",
		"http://127.0.0.1:6565",
		"tcp:/127.0.0.1:6565",
	}
	for _, ep := range invalid {
		err := ValidateEndpoint(ep)
		if err == nil {
			t.Errorf("ValidateEndpoint(%q) = nil, want error", ep)
			continue
		}
		if !errors.Is(err, ErrInvalidEndpoint) {
			t.Errorf("ValidateEndpoint(%q) = %v, want ErrInvalidEndpoint", ep, err)
		}
	}
}

func TestDial_RejectsInvalidEndpoint(t *testing.T) {
	_, err := Dial(context.Background(), Options{Endpoint: "nope", Logger: testLogger()})
	if !errors.Is(err, ErrInvalidEndpoint) {
		t.Fatalf("got %v, want ErrInvalidEndpoint", err)
	}
}

// TestSend_WireContract pins the frame layout end to end: a ROUTER peer must
// see [sender identity, destination, payload].
func TestSend_WireContract(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := zmq4.NewRouter(ctx)
	defer router.Close()
	if err := router.Listen("tcp://127.0.0.1:0"); err != nil {
		t.Fatalf("router listen: %v", err)
	}
	endpoint := fmt.Sprintf("tcp://%s", router.Addr().String())

	dealer, err := Dial(ctx, Options{Endpoint: endpoint, Logger: testLogger()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer dealer.Close()

	payload := []byte(`["ok","send_message",{"text":"hi"}]`)
	if err := dealer.Send("telegram", payload); err != nil {
		t.Fatalf("send: %v", err)
	}

	type recvResult struct {
		msg zmq4.Msg
		err error
	}
	got := make(chan recvResult, 1)
	go func() {
		msg, err := router.Recv()
		got <- recvResult{msg, err}
	}()

	select {
	case r := <-got:
		if r.err != nil {
			t.Fatalf("router recv: %v", r.err)
		}
		if len(r.msg.Frames) != 3 {
			t.Fatalf("frame count = %d, want 3 (identity, destination, payload)", len(r.msg.Frames))
		}
		if string(r.msg.Frames[0]) != DefaultIdentity {
			t.Errorf("sender identity = %q, want %q", r.msg.Frames[0], DefaultIdentity)
		}
		if string(r.msg.Frames[1]) != "telegram" {
			t.Errorf("destination frame = %q, want %q", r.msg.Frames[1], "telegram")
		}
		if string(r.msg.Frames[2]) != string(payload) {
			t.Errorf("payload frame = %q, want %q", r.msg.Frames[2], payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for routed message")
	}
}

// TestSend_DestinationBytesUnmodified checks non-ASCII destinations pass
// through as raw UTF-8.
func TestSend_DestinationBytesUnmodified(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := zmq4.NewRouter(ctx)
	defer router.Close()
	if err := router.Listen("tcp://127.0.0.1:0"); err != nil {
		t.Fatalf("router listen: %v", err)
	}
	endpoint := fmt.Sprintf("tcp://%s", router.Addr().String())

	dealer, err := Dial(ctx, Options{Endpoint: endpoint, Identity: "probe", Logger: testLogger()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer dealer.Close()

	const destination = "télégram-Δ"
	if err := dealer.Send(destination, []byte("x")); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := make(chan zmq4.Msg, 1)
	go func() {
		msg, err := router.Recv()
		if err == nil {
			got <- msg
		}
	}()

	select {
	case msg := <-got:
		if len(msg.Frames) != 3 {
			t.Fatalf("frame count = %d, want 3", len(msg.Frames))
		}
		if string(msg.Frames[0]) != "probe" {
			t.Errorf("sender identity = %q, want %q", msg.Frames[0], "probe")
		}
		if string(msg.Frames[1]) != destination {
			t.Errorf("destination frame = %q, want %q", msg.Frames[1], destination)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for routed message")
	}
}
