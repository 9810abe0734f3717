package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pytatbro/metaltrophysolidv/internal/daemonctl"
	"github.com/pytatbro/metaltrophysolidv/internal/ipc"
)

const statusStampLayout = "2006-01-02 15:04:05"

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			statusResp, err := daemonctl.BuildStatusSnapshot(ctx.socketPath(), ctx.configValue())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, statusResp)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range daemonStatusLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if len(statusResp.Checks) == 0 {
				fmt.Fprintln(stdout, statusIndent+"No checks recorded")
			}
			for _, check := range statusResp.Checks {
				fmt.Fprintln(stdout, renderStatusLine(check.Name, statusKindFromCheck(check), check.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Sync", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range syncStatusLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Render status as JSON")
	return cmd
}

func daemonStatusLines(status *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 6)
	if status.Running {
		lines = append(lines, renderStatusLine("Trophyd", statusOK, fmt.Sprintf("Running (pid %d, since %s)", status.PID, status.StartedAt.Local().Format(statusStampLayout)), colorize))
	} else {
		lines = append(lines, renderStatusLine("Trophyd", statusWarn, "Not running (run `trophyd start`)", colorize))
	}
	lines = append(lines, renderStatusLine("Watching", statusInfo, status.WatchedPath, colorize))
	lines = append(lines, renderStatusLine("Target", statusInfo, status.TargetPath, colorize))
	if status.Running {
		lines = append(lines, renderStatusLine("Notifications", statusInfo, status.SinkName+" backend", colorize))
	}
	if status.JournalPath != "" {
		lines = append(lines, renderStatusLine("Journal", statusInfo, status.JournalPath, colorize))
	} else {
		lines = append(lines, renderStatusLine("Journal", statusInfo, "disabled", colorize))
	}
	return lines
}

func syncStatusLines(status *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 4)
	lines = append(lines, renderStatusLine("Passes", statusInfo, strconv.Itoa(status.Passes), colorize))
	lines = append(lines, renderStatusLine("Known trophies", statusInfo, strconv.Itoa(status.KnownCount), colorize))
	if status.LastPass != nil {
		detail := fmt.Sprintf("parsed %d, written %d, new %d, notified %d (%s)",
			status.LastPass.Parsed,
			status.LastPass.Written,
			len(status.LastPass.NewIDs),
			status.LastPass.Notified,
			status.LastPassAt.Local().Format(statusStampLayout),
		)
		lines = append(lines, renderStatusLine("Last pass", statusOK, detail, colorize))
	}
	if status.LastError != "" {
		lines = append(lines, renderStatusLine("Last error", statusError, status.LastError, colorize))
	}
	return lines
}
