package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of a CLI table.
type tableColumn struct {
	Header string
	Right  bool
}

// renderTable draws rows with the rounded style. Short rows are padded.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(columns, func(i int) string { return columns[i].Header }))
	for _, row := range rows {
		tw.AppendRow(toRow(columns, cell(row)))
	}

	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.Right {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(columns []tableColumn, value func(int) string) table.Row {
	r := make(table.Row, len(columns))
	for i := range columns {
		r[i] = value(i)
	}
	return r
}

func cell(values []string) func(int) string {
	return func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
}
