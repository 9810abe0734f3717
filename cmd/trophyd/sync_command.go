package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/metadata"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
	"github.com/pytatbro/metaltrophysolidv/internal/syncer"
	"github.com/pytatbro/metaltrophysolidv/internal/tracker"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass (via the daemon when it is running)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dialClient()
			if err != nil {
				if !errors.Is(err, services.ErrDaemonNotRunning) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon not running, syncing directly...")
				return runStandalonePass(cmd, ctx)
			}
			defer client.Close()

			resp, err := client.Sync()
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			printPassResult(cmd, resp.Result)
			return nil
		},
	}
}

// runStandalonePass performs one sync pass in-process using the same wiring
// the daemon uses, minus the watcher and IPC server.
func runStandalonePass(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	catalog := metadata.LoadCatalog(cfg.Paths.MetadataFile, logger)
	sink := notifications.NewSink(cfg, logger)
	seed := syncer.SeedKnownIDs(cmd.Context(), cfg, store, logger)
	s := syncer.New(cfg, logger, tracker.New(seed), catalog, store, sink)

	result, err := s.RunPass(cmd.Context())
	if err != nil {
		return err
	}
	printPassResult(cmd, result)
	return nil
}

func printPassResult(cmd *cobra.Command, result *syncer.PassResult) {
	if result == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Sync pass complete")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sync pass complete: parsed %d, written %d, new %d, notified %d\n",
		result.Parsed, result.Written, len(result.NewIDs), result.Notified)
	for _, id := range result.NewIDs {
		fmt.Fprintf(cmd.OutOrStdout(), "  new unlock: %s\n", id)
	}
}
