package tablestyle

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	CustomCleanStyle = table.Style{
		Name: "CustomClean",
		Box:  table.BoxStyle{PaddingRight: " "},
		Format: table.FormatOptions{
			Footer: text.FormatUpper,
			Header: text.FormatUpper,
			Row:    text.FormatDefault,
		},
		Options: table.Options{
			DrawBorder:      false,
			SeparateColumns: true,
			SeparateFooter:  false,
			SeparateHeader:  false,
			SeparateRows:    false,
		},
	}
)

// New returns a table writer using CustomCleanStyle with the given header.
// Numeric columns listed in rightAligned are aligned to the right.
func New(header table.Row, rightAligned ...int) table.Writer {
	t := table.NewWriter()
	t.SetStyle(CustomCleanStyle)
	t.AppendHeader(header)
	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}
