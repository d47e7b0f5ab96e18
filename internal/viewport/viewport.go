// Package viewport holds the geometry predicates used to decide which
// heading is in view and whether a navigation entry needs scrolling.
//
// All coordinates are document coordinates in CSS pixels: an element's Top
// is measured from the top of its scroll container's content, not from the
// current viewport.
package viewport

// Element is the box of a laid-out element. ScrollTop and ClientHeight are
// only meaningful for scroll containers.
type Element struct {
	Top          float64 `json:"top"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	ScrollTop    float64 `json:"scroll_top,omitempty"`
	ClientHeight float64 `json:"client_height,omitempty"`
}

// Bottom returns the element's bottom edge.
func (e Element) Bottom() float64 { return e.Top + e.Height }

// Right returns the element's right edge.
func (e Element) Right() float64 { return e.Left + e.Width }

// Window is the browser viewport and its scroll offset.
type Window struct {
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// InViewport reports whether el's top edge lies within the visible band
// [ScrollY, ScrollY+Height) and its horizontal extent intersects the
// window. An element whose top already scrolled above the window does not
// count as in view, even if its lower part is still visible.
func InViewport(el *Element, w Window) bool {
	if el == nil || w.Height <= 0 {
		return false
	}
	if el.Top < w.ScrollY || el.Top >= w.ScrollY+w.Height {
		return false
	}
	return intersectsX(el, w)
}

// FullyInViewport reports whether el's whole box is inside the window.
func FullyInViewport(el *Element, w Window) bool {
	if el == nil || w.Height <= 0 {
		return false
	}
	if el.Top < w.ScrollY || el.Bottom() > w.ScrollY+w.Height {
		return false
	}
	if w.Width <= 0 {
		return true
	}
	return el.Left >= w.ScrollX && el.Right() <= w.ScrollX+w.Width
}

func intersectsX(el *Element, w Window) bool {
	// A window without a width is treated as unbounded horizontally.
	if w.Width <= 0 {
		return true
	}
	if el.Width <= 0 {
		return el.Left >= w.ScrollX && el.Left < w.ScrollX+w.Width
	}
	return el.Right() > w.ScrollX && el.Left < w.ScrollX+w.Width
}

// VisibleInParent reports whether el, grown by marginTop above and
// marginBottom below, fits inside the scrolled client region of parent.
// el is positioned in parent's content coordinates.
func VisibleInParent(el, parent *Element, marginTop, marginBottom float64) bool {
	if el == nil || parent == nil {
		return false
	}
	top := el.Top - marginTop
	bottom := el.Bottom() + marginBottom
	return top >= parent.ScrollTop && bottom <= parent.ScrollTop+parent.ClientHeight
}

// CenterIn returns the scroll offset of parent that centres el in its
// client region. The result is never negative.
func CenterIn(el, parent *Element) float64 {
	if el == nil || parent == nil {
		return 0
	}
	top := el.Top + el.Height/2 - parent.ClientHeight/2
	if top < 0 {
		return 0
	}
	return top
}
