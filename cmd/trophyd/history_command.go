package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pytatbro/metaltrophysolidv/internal/ipc"
	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent unlock events from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := fetchHistory(cmd.Context(), ctx, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, map[string]any{"entries": entries})
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No unlock events recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.DetectedAt.Local().Format(statusStampLayout),
					entry.TrophyID,
					entry.Title,
					yesNo(entry.Achieved),
					formatUnlockTime(entry.UnlockTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Detected", "Trophy", "Title", "Achieved", "Unlocked"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Render history as JSON")
	return cmd
}

// fetchHistory asks the daemon first and falls back to reading the journal
// database directly when the daemon is not running.
func fetchHistory(cmdCtx context.Context, ctx *commandContext, limit int) ([]ipc.HistoryEntry, error) {
	client, err := ctx.dialClient()
	if err == nil {
		defer client.Close()
		resp, callErr := client.History(limit)
		if callErr != nil {
			return nil, callErr
		}
		return resp.Entries, nil
	}
	if !errors.Is(err, services.ErrDaemonNotRunning) {
		return nil, err
	}

	cfg, cfgErr := ctx.ensureConfig()
	if cfgErr != nil {
		return nil, cfgErr
	}
	if !cfg.Journal.Enabled {
		return nil, errors.New("journal is disabled in configuration")
	}
	store, openErr := journal.Open(cfg)
	if openErr != nil {
		return nil, openErr
	}
	defer store.Close()

	rows, recentErr := store.Recent(cmdCtx, limit)
	if recentErr != nil {
		return nil, recentErr
	}
	entries := make([]ipc.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ipc.HistoryEntry{
			TrophyID:   row.TrophyID,
			Title:      row.Title,
			Achieved:   row.Achieved,
			UnlockTime: row.UnlockTime,
			DetectedAt: row.DetectedAt,
			PassID:     row.PassID,
		})
	}
	return entries, nil
}

func formatUnlockTime(unlock uint32) string {
	if unlock == 0 {
		return "-"
	}
	return time.Unix(int64(unlock), 0).UTC().Format(statusStampLayout)
}
