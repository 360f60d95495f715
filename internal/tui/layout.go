package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/user/shopfront/internal/geometry"
)

// Screen metrics in terminal cells. One cell is one unit of geometry.Rect.
const (
	headerHeight    = 3 // title, tabs, blank
	cardHeight      = 5 // rounded border plus three lines
	gridColumns     = 3
	collapsedHeight = 3 // rule, status, input
	expandedHeight  = 6 // rule, heading, three-line tiles, hint
	maxTileWidth    = 26
	tileGap         = 1
	tileMarginLeft  = 1
	expandedTileRow = 2
)

// layout is the measured screen at one moment. It answers the geometry
// queries the assistant makes when a result is selected.
type layout struct {
	width    int
	height   int
	scroll   int // in card rows
	expanded bool
	results  int
	badge    string
}

var _ geometry.Provider = layout{}

func (l layout) panelHeight() int {
	if l.expanded {
		return expandedHeight
	}
	return collapsedHeight
}

// gridRows is how many card rows fit between header and panel.
func (l layout) gridRows() int {
	n := (l.height - headerHeight - l.panelHeight()) / cardHeight
	if n < 1 {
		return 1
	}
	return n
}

func (l layout) cardWidth() int {
	w := l.width / gridColumns
	if w < 12 {
		return 12
	}
	return w
}

func (l layout) tileWidth() int {
	w := (l.width - 2*tileMarginLeft - (3-1)*tileGap) / 3
	if w > maxTileWidth {
		return maxTileWidth
	}
	if w < 6 {
		return 6
	}
	return w
}

func (l layout) scrollY() float64 {
	return float64(l.scroll * cardHeight)
}

func (l layout) Viewport() (geometry.Viewport, bool) {
	if l.width <= 0 || l.height <= 0 {
		return geometry.Viewport{}, false
	}
	return geometry.Viewport{
		Width:   float64(l.width),
		Height:  float64(l.height),
		ScrollY: l.scrollY(),
	}, true
}

// Element reports viewport-relative rects. Result tiles exist only while
// the panel is expanded.
func (l layout) Element(id geometry.ElementID) (geometry.Rect, bool) {
	if l.width <= 0 || l.height <= 0 {
		return geometry.Rect{}, false
	}
	if id == geometry.CartIcon {
		w := lipgloss.Width(l.badge)
		return geometry.Rect{Top: 0, Left: float64(l.width - w), Width: float64(w), Height: 1}, true
	}
	if !l.expanded {
		return geometry.Rect{}, false
	}
	for i := 0; i < l.results; i++ {
		if id == geometry.ResultElement(i) {
			return l.tile(i), true
		}
	}
	return geometry.Rect{}, false
}

func (l layout) tile(i int) geometry.Rect {
	w := l.tileWidth()
	return geometry.Rect{
		Top:    float64(l.height - expandedHeight + expandedTileRow),
		Left:   float64(tileMarginLeft + i*(w+tileGap)),
		Width:  float64(w),
		Height: 3,
	}
}
