package main

import (
	"fmt"
	"strconv"

	"corkyctl/internal/history"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently journaled sends",
		Long: "Lists sends recorded in the journal. Journaling is off by default;\n" +
			"enable it with --record or client.history in the config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadClientConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.Client.HistoryDBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no journaled sends")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.SentAt.Local().Format("2006-01-02 15:04:05"),
					e.Endpoint,
					e.Destination,
					e.Status,
					e.Action,
					snippet(e.Payload, 48),
				})
			}
			fmt.Println(renderTable(
				[]string{"ID", "Sent", "Endpoint", "Destination", "Status", "Action", "Payload"},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	return cmd
}

// snippet truncates s to at most max characters without splitting a
// multi-byte rune.
func snippet(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := 0
	for i := range s {
		if runes == max {
			return s[:i] + "..."
		}
		runes++
	}
	return s
}
