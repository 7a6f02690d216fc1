package tableview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/specialistvlad/spigot/internal/network"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#2C4A54")
)

// Headers are the column titles, in order.
var Headers = []string{"PATH", "KIND", "COUNT", "WEIGHT", "ORDER", "FILTERS", "ACTIVE"}

// Options controls rendering.
type Options struct {
	// Color enables foreground colors; callers usually set it when the output
	// is a terminal.
	Color bool
}

type styles struct {
	header   lipgloss.Style
	cell     lipgloss.Style
	inactive lipgloss.Style
	border   lipgloss.Style
}

func newStyles(color bool) styles {
	s := styles{
		header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
		cell:     lipgloss.NewStyle().Padding(0, 1),
		inactive: lipgloss.NewStyle().Padding(0, 1),
		border:   lipgloss.NewStyle(),
	}
	if color {
		s.header = s.header.Foreground(colorAccent)
		s.inactive = s.inactive.Foreground(colorMuted)
		s.border = s.border.Foreground(colorBorder)
	}
	return s
}

// Rows converts view entries to table cells. Paths are indented by their depth
// below the first entry.
func Rows[U any](view []network.NodeDetails[U]) [][]string {
	if len(view) == 0 {
		return nil
	}
	baseDepth := len(view[0].Path)
	rows := make([][]string, 0, len(view))
	for _, d := range view {
		filters := make([]string, len(d.Filters))
		for i, f := range d.Filters {
			filters[i] = fmt.Sprint(f)
		}
		active := "yes"
		if !d.Active {
			active = "no"
		}
		rows = append(rows, []string{
			strings.Repeat("  ", len(d.Path)-baseDepth) + d.Path.String(),
			d.Kind.String(),
			strconv.Itoa(d.Count),
			strconv.FormatUint(uint64(d.Weight), 10),
			d.Order.String(),
			strings.Join(filters, ","),
			active,
		})
	}
	return rows
}

// Render draws view as a bordered table.
func Render[U any](view []network.NodeDetails[U], opts Options) string {
	s := newStyles(opts.Color)
	rows := Rows(view)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case row >= 0 && row < len(view) && !view[row].Active:
				return s.inactive
			}
			return s.cell
		})
	return t.String()
}
