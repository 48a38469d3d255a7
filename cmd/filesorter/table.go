package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// listing is one of the tables the CLI prints: fixed columns, an optional
// title above them and an optional totals line below.
type listing struct {
	title   string
	columns []column
	totals  []string
}

type column struct {
	name    string
	numeric bool
}

func (l listing) render(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	style := tw.Style()
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	style.Title.Align = text.AlignLeft
	if l.title != "" {
		tw.SetTitle(l.title)
	}

	header := make(table.Row, len(l.columns))
	configs := make([]table.ColumnConfig, len(l.columns))
	for i, col := range l.columns {
		header[i] = col.name
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
			configs[i].AlignFooter = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		tw.AppendRow(l.row(cells))
	}
	if len(l.totals) > 0 {
		tw.AppendFooter(l.row(l.totals))
	}
	return tw.Render()
}

func (l listing) row(cells []string) table.Row {
	row := make(table.Row, len(l.columns))
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// counter is one line of a two-column count report.
type counter struct {
	label string
	count int
}

// renderCounters prints one counter per line; footer, when given, is the
// label and value of a closing totals line.
func renderCounters(title string, counters []counter, footer ...string) string {
	report := listing{
		title:   title,
		columns: []column{{name: "Result"}, {name: "Count", numeric: true}},
		totals:  footer,
	}
	rows := make([][]string, 0, len(counters))
	for _, c := range counters {
		rows = append(rows, []string{c.label, strconv.Itoa(c.count)})
	}
	return report.render(rows)
}
