package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled is true when stdout is a terminal, unless overridden.
var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if f is an *os.File attached to a terminal.
func IsTerminal(f any) bool {
	if file, ok := f.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled || s == "" {
		return s
	}
	return code + s + colorReset
}

// Green returns s in green when colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s in red when colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s in yellow when colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Gray returns s in gray when colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// Status colors a backend status value by what it usually means for the supplier.
func Status(s string) string {
	switch strings.ToLower(s) {
	case "active", "delivered", "completed", "paid", "published", "in_stock", "in stock":
		return Green(s)
	case "pending", "processing", "draft", "low_stock", "low stock", "shipped":
		return Yellow(s)
	case "cancelled", "canceled", "failed", "rejected", "out_of_stock", "out of stock", "inactive":
		return Red(s)
	default:
		return s
	}
}

// DefaultMaxTitleWidth is the default maximum visible width for title columns.
const DefaultMaxTitleWidth = 48

// Table lines up rows of cells separated by two spaces.
type Table struct {
	rows      [][]string
	maxWidths map[int]int
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{maxWidths: make(map[int]int)}
}

// SetMaxWidth truncates column col to maxWidth visible characters.
func (t *Table) SetMaxWidth(col, maxWidth int) {
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table to w. The last column is never padded.
func (t *Table) Render(w io.Writer) {
	widths := map[int]int{}
	cells := make([][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([]string, len(row))
		for i, col := range row {
			if max, ok := t.maxWidths[i]; ok {
				col = Truncate(col, max)
			}
			cells[r][i] = col
			if vw := visibleWidth(col); vw > widths[i] {
				widths[i] = vw
			}
		}
	}

	for _, row := range cells {
		var b strings.Builder
		for i, col := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(col)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-visibleWidth(col)))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// Truncate shortens plain text to maxWidth runes, ending in "..." when cut.
// Text containing ANSI escapes is returned unchanged.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if strings.Contains(s, "\033") || utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}

// visibleWidth returns the rune count of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}
