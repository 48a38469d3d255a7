package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"filesorter/internal/config"
	"filesorter/internal/domain"
	"filesorter/internal/services"
)

func newSortCommand(ctx *commandContext, flags *config.Config) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "sort <folder>",
		Short: "Move the files of a folder into extension or category folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, ctx, args[0], assumeYes)
		},
	}

	config.BindSortFlags(cmd.Flags(), flags)
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Move without asking for confirmation")
	return cmd
}

func runSort(cmd *cobra.Command, ctx *commandContext, folder string, assumeYes bool) error {
	cfg := ctx.configValue()
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	logger, err := ctx.newLogger(errOut)
	if err != nil {
		return err
	}
	sorter, store, err := ctx.newSorter(logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var bar *progressbar.ProgressBar
	req := services.SortRequest{
		Folder:     folder,
		Recursive:  cfg.Recursive,
		SkipHidden: !cfg.ShowHidden,
		Mode:       domain.ModeFor(cfg.UseCategories),
		Locale:     config.ResolveLocale(cfg.Language),
		Confirm: func(scan services.ScanResult) bool {
			fmt.Fprintf(out, "Found %s (%s) in %s; %s skipped.\n",
				plural(len(scan.Files), "file", "files"),
				humanize.IBytes(uint64(scan.TotalBytes)),
				scan.Root,
				plural(scan.Dirs(), "folder", "folders"),
			)
			for _, path := range scan.Unreadable {
				fmt.Fprintf(errOut, "%s %s\n", colorize(errOut, "unreadable", text.FgYellow), path)
			}
			if assumeYes {
				return true
			}
			return promptYesNo(in, out, "Move them?")
		},
		Progress: func(index, total int, outcome services.MoveOutcome) {
			if bar == nil && isTerminal(errOut) {
				bar = newMoveBar(errOut, total)
			}
			if bar != nil {
				_ = bar.Set(index)
			}
		},
	}

	summary, err := sorter.Sort(cmd.Context(), req)
	if bar != nil {
		_ = bar.Finish()
	}
	switch {
	case errors.Is(err, services.ErrCancelled):
		fmt.Fprintln(out, "Cancelled; nothing was moved.")
		return nil
	case err != nil:
		return err
	}
	if summary.Total == 0 {
		fmt.Fprintf(out, "No files to sort in %s.\n", summary.Folder)
		return nil
	}

	for _, failure := range summary.Failures {
		fmt.Fprintf(errOut, "%s %s: %s\n", colorize(errOut, "failed", text.FgRed), failure.Name, failure.Reason)
	}
	fmt.Fprintln(out, renderSummary(summary))
	if store != nil && summary.Moved > 0 {
		fmt.Fprintf(out, "Run %s recorded; `filesorter undo %s` reverts it.\n", summary.RunID, summary.RunID)
	}
	return nil
}

func renderSummary(summary services.Summary) string {
	title := fmt.Sprintf("%s sorted in %s", summary.Folder, summary.Duration.Round(time.Millisecond))
	return renderCounters(title, []counter{
		{label: "Moved", count: summary.Moved},
		{label: "Already sorted", count: summary.Unchanged},
		{label: "Failed", count: summary.Errors},
		{label: "Folders skipped", count: summary.Skipped},
	}, "Files", strconv.Itoa(summary.Total))
}

func newMoveBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("moving"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}
