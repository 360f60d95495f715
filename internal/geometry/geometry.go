// Package geometry holds the rectangle math shared by the flight sequencer
// and the surfaces that measure elements on screen.
package geometry

import (
	"fmt"
	"strconv"
)

// Rect is an axis-aligned box. Depending on where it came from it is either
// viewport-relative or in document coordinates; see ToDocument.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal centre of the box.
func (r Rect) CenterX() float64 {
	return r.Left + r.Width/2
}

// CenterY returns the vertical centre of the box.
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// CenteredOn returns a box with r's size whose centre is (cx, cy).
func (r Rect) CenteredOn(cx, cy float64) Rect {
	return Rect{
		Top:    cy - r.Height/2,
		Left:   cx - r.Width/2,
		Width:  r.Width,
		Height: r.Height,
	}
}

// Lerp interpolates linearly between r and to. f is not clamped.
func (r Rect) Lerp(to Rect, f float64) Rect {
	return Rect{
		Top:    r.Top + (to.Top-r.Top)*f,
		Left:   r.Left + (to.Left-r.Left)*f,
		Width:  r.Width + (to.Width-r.Width)*f,
		Height: r.Height + (to.Height-r.Height)*f,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("{top:%s left:%s width:%s height:%s}",
		num(r.Top), num(r.Left), num(r.Width), num(r.Height))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Viewport describes the visible window over the document at capture time.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollY float64 `json:"scroll_y"`
}

// Center returns a box sized like size and centred on the visible window,
// in document coordinates.
func (v Viewport) Center(size Rect) Rect {
	return Rect{
		Top:    v.Height/2 - size.Height/2 + v.ScrollY,
		Left:   v.Width/2 - size.Width/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

// ToDocument converts a viewport-relative box into document coordinates by
// adding the vertical scroll offset.
func (v Viewport) ToDocument(r Rect) Rect {
	r.Top += v.ScrollY
	return r
}
