package main

import (
	"github.com/spf13/cobra"

	"filesorter/internal/app"
	"filesorter/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var assumeYes bool
	flags := config.DefaultConfig()

	ctx := newCommandContext(&configFlag, &flags)

	rootCmd := &cobra.Command{
		Use:   "filesorter [folder]",
		Short: "Sort the files of a folder into extension or category folders",
		Long: "Without a folder, filesorter opens the interactive interface.\n" +
			"With a folder, it behaves like `filesorter sort <folder>`.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runSort(cmd, ctx, args[0], assumeYes)
			}
			return runInterface(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format (text, logfmt, json)")
	config.BindSortFlags(rootCmd.Flags(), &flags)
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Move without asking for confirmation")

	rootCmd.AddCommand(newSortCommand(ctx, &flags))
	rootCmd.AddCommand(newScanCommand(ctx, &flags))
	rootCmd.AddCommand(newWatchCommand(ctx, &flags))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newUndoCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runInterface(cmd *cobra.Command, ctx *commandContext) error {
	logger, closer, err := ctx.newFileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	sorter, store, err := ctx.newSorter(logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	path, err := ctx.resolvedConfigPath()
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), app.Options{
		Config:     *ctx.configValue(),
		ConfigPath: path,
		Sorter:     sorter,
		Logger:     logger,
	})
}
