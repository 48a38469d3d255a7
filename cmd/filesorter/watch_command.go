package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"filesorter/internal/config"
	"filesorter/internal/domain"
	"filesorter/internal/services"
)

func newWatchCommand(ctx *commandContext, flags *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <folder>",
		Short: "Sort a folder now and again whenever new files arrive",
		Long: "Watch sorts the top level of the folder without asking, then keeps\n" +
			"sorting new arrivals until interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			logger, err := ctx.newLogger(cmd.ErrOrStderr())
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

			debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
			watcher := services.NewWatcher(sorter, logger, debounce)
			req := services.SortRequest{
				Folder:     args[0],
				SkipHidden: !cfg.ShowHidden,
				Mode:       domain.ModeFor(cfg.UseCategories),
				Locale:     config.ResolveLocale(cfg.Language),
			}
			err = watcher.Run(cmd.Context(), req, func(summary services.Summary) {
				if summary.Moved == 0 && summary.Errors == 0 {
					return
				}
				fmt.Fprintf(out, "%s  moved %d, failed %d\n", time.Now().Format(time.TimeOnly), summary.Moved, summary.Errors)
				for _, failure := range summary.Failures {
					fmt.Fprintf(out, "  %s: %s\n", failure.Name, failure.Reason)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	config.BindSortFlags(cmd.Flags(), flags)
	return cmd
}
