package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pytatbro/metaltrophysolidv/internal/achievements"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
)

func newTrophiesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "trophies",
		Short: "List trophies recorded in the achievements file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			file, err := achievements.Load(cfg.Paths.AchievementsFile, logging.NewNop())
			if err != nil {
				return fmt.Errorf("read achievements file: %w", err)
			}

			if jsonOut {
				type jsonEntry struct {
					ID         string `json:"id"`
					Achieved   bool   `json:"achieved"`
					UnlockTime uint32 `json:"unlock_time"`
				}
				entries := make([]jsonEntry, 0, file.Len())
				for _, entry := range file.Entries() {
					entries = append(entries, jsonEntry{ID: entry.ID, Achieved: entry.Achieved, UnlockTime: entry.UnlockTime})
				}
				return writeJSON(cmd, map[string]any{"trophies": entries})
			}

			if file.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trophies recorded yet")
				return nil
			}

			rows := make([][]string, 0, file.Len())
			for _, entry := range file.Entries() {
				rows = append(rows, []string{
					entry.ID,
					yesNo(entry.Achieved),
					formatUnlockTime(entry.UnlockTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Trophy", "Achieved", "Unlocked"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Render trophies as JSON")
	return cmd
}
