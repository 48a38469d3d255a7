package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"filesorter/internal/config"
	"filesorter/internal/domain"
	"filesorter/internal/services"
)

func newScanCommand(ctx *commandContext, flags *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the extensions in a folder and where they would be sorted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			table, err := config.LoadCategoryTable(cfg.CategoriesFile)
			if err != nil {
				return err
			}

			req := services.ScanRequest{Root: args[0], Recursive: cfg.Recursive, SkipHidden: !cfg.ShowHidden}
			var spinner *progressbar.ProgressBar
			if isTerminal(errOut) {
				spinner = progressbar.NewOptions(-1,
					progressbar.OptionSetWriter(errOut),
					progressbar.OptionSetDescription("scanning"),
					progressbar.OptionClearOnFinish(),
					progressbar.OptionSpinnerType(14),
				)
				req.Progress = func(progress services.ScanProgress) {
					_ = spinner.Set(progress.Scanned)
				}
			}

			scan, err := ctx.newScanner().Scan(cmd.Context(), req)
			if spinner != nil {
				_ = spinner.Finish()
			}
			if err != nil {
				return err
			}
			for _, path := range scan.Unreadable {
				fmt.Fprintf(errOut, "unreadable %s\n", path)
			}
			if len(scan.Files) == 0 {
				fmt.Fprintf(out, "No files in %s.\n", scan.Root)
				return nil
			}

			mode := domain.ModeFor(cfg.UseCategories)
			locale := config.ResolveLocale(cfg.Language)
			fmt.Fprintln(out, renderInventory(scan, func(ext string) string {
				return services.Classify(ext, mode, table, locale)
			}))
			fmt.Fprintf(out, "%s, %s; %s skipped; scanned in %s.\n",
				plural(len(scan.Files), "file", "files"),
				humanize.IBytes(uint64(scan.TotalBytes)),
				plural(scan.Dirs(), "folder", "folders"),
				scan.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}

	config.BindSortFlags(cmd.Flags(), flags)
	return cmd
}

type extensionRow struct {
	ext   string
	count int
	bytes int64
}

// renderInventory lists extensions by descending file count.
func renderInventory(scan services.ScanResult, destination func(ext string) string) string {
	sizes := make(map[string]int64, len(scan.ExtensionCounts))
	for _, file := range scan.Files {
		sizes[file.Ext] += file.Size
	}
	rows := make([]extensionRow, 0, len(scan.ExtensionCounts))
	for ext, count := range scan.ExtensionCounts {
		rows = append(rows, extensionRow{ext: ext, count: count, bytes: sizes[ext]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].ext < rows[j].ext
	})

	inventory := listing{
		columns: []column{{name: "Extension"}, {name: "Files", numeric: true}, {name: "Size", numeric: true}, {name: "Folder"}},
		totals:  []string{"All", strconv.Itoa(len(scan.Files)), humanize.IBytes(uint64(scan.TotalBytes)), ""},
	}
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{
			displayExtension(row.ext),
			strconv.Itoa(row.count),
			humanize.IBytes(uint64(row.bytes)),
			destination(row.ext),
		})
	}
	return inventory.render(body)
}

func displayExtension(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return "." + ext
}
