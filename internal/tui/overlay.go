package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlay draws s over base with its top-left cell at (row, col). Cells of
// base outside s are kept, styling included. Out-of-range positions are
// clamped onto the screen.
func overlay(base, s string, row, col int) string {
	lines := strings.Split(base, "\n")
	if len(lines) == 0 {
		return base
	}
	w := lipgloss.Width(s)
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	if col < 0 {
		col = 0
	}

	line := lines[row]
	lw := ansi.StringWidth(line)
	left := ansi.Truncate(line, col, "")
	if pad := col - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := ""
	if col+w < lw {
		right = ansi.TruncateLeft(line, col+w, "")
	}
	lines[row] = left + s + right
	return strings.Join(lines, "\n")
}
