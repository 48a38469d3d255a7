package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"filesorter/internal/services"
)

const maxFailuresShown = 8

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	okStyle     lipgloss.Style
	labelStyle  lipgloss.Style
	panelBorder lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.state.Prefs.Theme) == "light" {
		return uiStyles{
			headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			okStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
			labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("90")),
			panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		okStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.help {
		return renderHelpView(model, styles)
	}
	sections := []string{
		renderHeader(model, styles),
		renderOptions(model, styles),
		renderBody(model, styles),
		renderFooter(model, styles),
	}
	return strings.Join(sections, "\n")
}

func renderHeader(model Model, styles uiStyles) string {
	folder := model.state.Folder
	if model.editing {
		folder = model.input.View()
	} else if folder == "" {
		folder = styles.mutedStyle.Render("(no folder)")
	}
	phase := strings.ToUpper(string(model.state.Phase))
	return padLine(styles.headerStyle.Render("filesorter")+"  "+folder, styles.statusStyle.Render(phase), model.width)
}

func renderOptions(model Model, styles uiStyles) string {
	prefs := model.state.Prefs
	mode := "extensions"
	if prefs.UseCategories {
		mode = "categories"
	}
	parts := []string{
		styles.labelStyle.Render("Mode: ") + mode,
		styles.labelStyle.Render("Recursive: ") + onOff(prefs.Recursive),
		styles.labelStyle.Render("Hidden: ") + onOff(prefs.ShowHidden),
		styles.labelStyle.Render("Language: ") + string(prefs.Locale),
	}
	return strings.Join(parts, "  ")
}

func renderBody(model Model, styles uiStyles) string {
	appState := model.state
	var lines []string
	switch appState.Phase {
	case services.PhaseAwaitingConfirmation:
		if appState.Pending != nil {
			lines = append(lines, renderScan(*appState.Pending, styles)...)
		}
	case services.PhaseMoving:
		lines = append(lines, model.bar.View())
		for _, line := range appState.Recent {
			lines = append(lines, styles.mutedStyle.Render("  "+line))
		}
	case services.PhaseDone:
		lines = append(lines, model.bar.View())
		if appState.Summary != nil {
			lines = append(lines, renderSummary(*appState.Summary, styles))
		}
	case services.PhaseFailed:
		if appState.Err != nil {
			lines = append(lines, styles.warnStyle.Render(appState.Err.Error()))
		}
	}
	if len(appState.Failures) > 0 {
		lines = append(lines, styles.warnStyle.Render(fmt.Sprintf("Failed (%d):", len(appState.Failures))))
		for index, failure := range appState.Failures {
			if index == maxFailuresShown {
				lines = append(lines, styles.mutedStyle.Render(fmt.Sprintf("  ... %d more", len(appState.Failures)-maxFailuresShown)))
				break
			}
			lines = append(lines, fmt.Sprintf("  %s: %s", failure.Name, failure.Reason))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styles.mutedStyle.Render("Nothing sorted yet"))
	}
	width := maxInt(model.width-2, 20)
	return styles.panelBorder.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderScan(scan services.ScanResult, styles uiStyles) []string {
	lines := []string{
		styles.headerStyle.Render(fmt.Sprintf("%d files, %d folders skipped, %s", len(scan.Files), scan.Dirs(), formatSize(scan.TotalBytes))),
	}
	type extCount struct {
		ext   string
		count int
	}
	counts := make([]extCount, 0, len(scan.ExtensionCounts))
	for ext, count := range scan.ExtensionCounts {
		counts = append(counts, extCount{ext: ext, count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].ext < counts[j].ext
	})
	for index, item := range counts {
		if index == 6 {
			lines = append(lines, styles.mutedStyle.Render(fmt.Sprintf("  ... %d more extensions", len(counts)-6)))
			break
		}
		label := item.ext
		if label == "" {
			label = "(none)"
		}
		lines = append(lines, fmt.Sprintf("  %-10s %d", label, item.count))
	}
	return lines
}

func renderSummary(summary services.Summary, styles uiStyles) string {
	line := fmt.Sprintf("Moved %d  Failed %d  Skipped %d", summary.Moved, summary.Errors, summary.Skipped)
	if summary.Unchanged > 0 {
		line += fmt.Sprintf("  Already sorted %d", summary.Unchanged)
	}
	if summary.Errors > 0 {
		return styles.warnStyle.Render(line)
	}
	return styles.okStyle.Render(line)
}

func renderFooter(model Model, styles uiStyles) string {
	statusStyle := styles.mutedStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") || strings.Contains(lower, "fail") {
		statusStyle = styles.warnStyle
	}
	status := statusStyle.Render(trimStatus(model.status, model.width))
	keys := "e folder  s sort  r recursive  c categories  l language  h hidden  ? help  q quit"
	switch {
	case model.editing:
		keys = "enter apply  esc cancel"
	case model.reply != nil:
		keys = "y confirm  n cancel"
	case model.state.Phase == services.PhaseMoving:
		keys = "sorting..."
	}
	return strings.Join([]string{status, styles.mutedStyle.Render(keys)}, "\n")
}

func renderHelpView(model Model, styles uiStyles) string {
	lines := []string{styles.headerStyle.Render("Keys")}
	for _, binding := range model.keys.bindings() {
		help := binding.Help()
		lines = append(lines, fmt.Sprintf("  %-8s %s", help.Key, help.Desc))
	}
	lines = append(lines, "",
		styles.mutedStyle.Render("Files are moved into subfolders of the chosen folder named after"),
		styles.mutedStyle.Render("their extension, or their category when categories are on."),
		styles.mutedStyle.Render("Existing files are never overwritten; clashes get a _1, _2 suffix."),
	)
	return styles.panelBorder.Render(strings.Join(lines, "\n"))
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}

func formatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

func padLine(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func trimStatus(status string, width int) string {
	if width <= 0 || len(status) <= width {
		return status
	}
	if width <= 3 {
		return status[:width]
	}
	return status[:width-3] + "..."
}
