package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"filesorter/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sort runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func renderRuns(runs []history.Run) string {
	runsListing := listing{
		title: "Recent runs",
		columns: []column{
			{name: "Run"},
			{name: "Started"},
			{name: "Folder"},
			{name: "Mode"},
			{name: "Moved", numeric: true},
			{name: "Failed", numeric: true},
			{name: "Status"},
		},
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Folder,
			string(run.Mode),
			strconv.Itoa(run.Moved),
			strconv.Itoa(run.Errors),
			runStatus(run),
		})
	}
	return runsListing.render(rows)
}

func runStatus(run history.Run) string {
	switch {
	case run.Undone():
		return "undone"
	case run.Finished():
		return "done"
	default:
		return "incomplete"
	}
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Move the files of a run back where they came from",
		Long:  "Without a run id, the most recent run that moved files is undone.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			var run history.Run
			if len(args) == 1 {
				run, err = store.GetRun(cmd.Context(), args[0])
			} else {
				run, err = store.LatestUndoable(cmd.Context())
			}
			if err != nil {
				return err
			}
			if run.Undone() {
				return fmt.Errorf("%w: %s", history.ErrAlreadyUndone, run.ID)
			}

			if !assumeYes {
				question := fmt.Sprintf("Undo run %s (%s in %s)?", run.ID, plural(run.Moved, "file", "files"), run.Folder)
				if !promptYesNo(cmd.InOrStdin(), out, question) {
					fmt.Fprintln(out, "Cancelled; nothing was restored.")
					return nil
				}
			}

			logger, err := ctx.newLogger(errOut)
			if err != nil {
				return err
			}
			result, err := history.NewUndoer(store, ctx.fs, logger).Undo(cmd.Context(), run.ID)
			for _, failure := range result.Failures {
				fmt.Fprintf(errOut, "%s %s: %s\n", colorize(errOut, "failed", text.FgRed), failure.Name, failure.Reason)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderCounters("Undo of run "+run.ID, []counter{
				{label: "Restored", count: result.Restored},
				{label: "Restored under new name", count: result.Renamed},
				{label: "Missing", count: result.Missing},
				{label: "Failed", count: result.Errors},
			}))
			if result.Errors > 0 {
				fmt.Fprintf(out, "Run %s is still undoable; `filesorter undo %s` retries the failed files.\n", run.ID, run.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Undo without asking for confirmation")
	return cmd
}
