package geometry

import (
	"fmt"
	"sync"
)

// ElementID names a measurable element on the rendering surface.
type ElementID string

// CartIcon is the element flights land on.
const CartIcon ElementID = "cart-icon"

// ResultElement names the i-th recommendation tile.
func ResultElement(i int) ElementID {
	return ElementID(fmt.Sprintf("result:%d", i))
}

// Provider is implemented by a rendering surface. Element rects are
// viewport-relative, as a layout engine reports them; ok is false when the
// element is not mounted or cannot be measured.
type Provider interface {
	Viewport() (vp Viewport, ok bool)
	Element(id ElementID) (r Rect, ok bool)
}

// Static is a Provider over fixed measurements, used by surfaces that
// receive geometry from their client and by tests.
type Static struct {
	mu       sync.RWMutex
	viewport *Viewport
	elements map[ElementID]Rect
}

// NewStatic creates a Static provider with the given viewport and no elements.
func NewStatic(vp Viewport) *Static {
	return &Static{
		viewport: &vp,
		elements: make(map[ElementID]Rect),
	}
}

// Set records the viewport-relative rect of an element.
func (s *Static) Set(id ElementID, r Rect) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[id] = r
	return s
}

// Remove forgets an element, as if it had been unmounted.
func (s *Static) Remove(id ElementID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, id)
}

// SetScroll updates the vertical scroll offset.
func (s *Static) SetScroll(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport != nil {
		s.viewport.ScrollY = y
	}
}

func (s *Static) Viewport() (Viewport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewport == nil {
		return Viewport{}, false
	}
	return *s.viewport, true
}

func (s *Static) Element(id ElementID) (Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.elements[id]
	return r, ok
}
