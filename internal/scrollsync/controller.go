// Package scrollsync keeps the reference page navigation in step with the
// reader's scroll position: it tracks the heading currently in view, scrolls
// the side navigation to keep that entry visible, and pauses the
// auto-scroll while the pointer is over the navigation panel.
//
// The browser is reached only through the DOM and Navigator capabilities,
// so the controller runs the same against a live page, a layout snapshot or
// a test double.
package scrollsync

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/slug"
	"github.com/dgallion1/docsite/internal/toc"
	"github.com/dgallion1/docsite/internal/viewport"
)

const (
	DefaultThrottleInterval = 100 * time.Millisecond
	DefaultFragmentDelay    = 500 * time.Millisecond
	DefaultNavMargin        = 40

	// HeaderCollapseAt is the window scroll offset past which the page
	// header collapses into its fixed bar.
	HeaderCollapseAt = 90

	// Only these heading levels are highlighted while scrolling; level 1
	// headings are section titles.
	minTrackedLevel = 2
	maxTrackedLevel = 4
)

// DOM is the part of the page the controller reads and scrolls. Element and
// NavEntry take heading slugs and return nil when nothing is laid out for
// them.
type DOM interface {
	Window() viewport.Window
	Element(id string) *viewport.Element
	Sidenav() *viewport.Element
	NavEntry(id string) *viewport.Element
	ScrollSidenav(top float64)
	ScrollWindow(top float64)
}

// Target is an in-site navigation destination.
type Target struct {
	Document string `json:"document"`
	Fragment string `json:"fragment,omitempty"`
}

// Href returns the reference page URL for t.
func (t Target) Href() string {
	h := "/reference/" + t.Document
	if t.Fragment != "" {
		h += "#" + t.Fragment
	}
	return h
}

// Navigator receives navigation targets; routing is its concern.
type Navigator interface {
	Navigate(Target)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Target)

func (f NavigatorFunc) Navigate(t Target) { f(t) }

// State is the scroll-driven state of a mounted reference page.
type State struct {
	SelectedHeadingTitle *string `json:"selected_heading_title"`
	ScrollSidenav        bool    `json:"scroll_sidenav"`
	HeaderExpanded       bool    `json:"header_expanded"`
}

// Selected returns the selected heading title or "".
func (s State) Selected() string {
	if s.SelectedHeadingTitle == nil {
		return ""
	}
	return *s.SelectedHeadingTitle
}

// Phase names the implicit state of the controller.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseTracking Phase = "tracking"
	PhasePaused   Phase = "paused"
)

// Options configures a Controller. DOM is required.
type Options struct {
	DOM              DOM
	Navigator        Navigator
	Clock            Clock
	Logger           *slog.Logger
	ThrottleInterval time.Duration
	FragmentDelay    time.Duration
	NavMargin        float64
}

// Controller owns the scroll state of one reference page for its mounted
// lifetime. Timer callbacks run on their own goroutines, so every method is
// safe for concurrent use.
type Controller struct {
	mu   sync.Mutex
	opts Options
	log  *slog.Logger

	doc      *content.Document
	headings []toc.Heading
	outline  *toc.Node
	state    State

	throttle *Throttle
	fragment Timer
	mountGen int
	disposed bool
}

// New returns an unmounted controller.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.ThrottleInterval <= 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.FragmentDelay <= 0 {
		opts.FragmentDelay = DefaultFragmentDelay
	}
	if opts.NavMargin <= 0 {
		opts.NavMargin = DefaultNavMargin
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		opts:  opts,
		log:   log,
		state: State{ScrollSidenav: true, HeaderExpanded: true},
	}
}

// Mount shows doc: headings and outline are recomputed, the state resets to
// idle and, when fragment is set, a one-shot scroll to the matching element
// is scheduled after the layout delay. Mounting again replaces the previous
// document and cancels its pending work.
func (c *Controller) Mount(doc *content.Document, fragment string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || doc == nil {
		return
	}
	c.stopTimersLocked()

	c.mountGen++
	c.doc = doc
	c.headings = toc.Extract(doc.AST, doc.Source)
	c.outline = toc.BuildTree(c.headings)
	c.state = State{ScrollSidenav: true, HeaderExpanded: true}
	c.throttle = NewThrottle(c.opts.Clock, c.opts.ThrottleInterval, c.sync)

	c.log.Debug("mounted reference page",
		"document", doc.Key,
		"headings", len(c.headings),
		"fragment", fragment,
	)

	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return
	}
	gen := c.mountGen
	c.fragment = c.opts.Clock.AfterFunc(c.opts.FragmentDelay, func() {
		c.scrollToFragment(gen, fragment)
	})
}

func (c *Controller) scrollToFragment(gen int, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || gen != c.mountGen {
		return
	}
	c.fragment = nil
	el := c.opts.DOM.Element(id)
	if el == nil {
		c.log.Debug("fragment target not found", "document", c.doc.Key, "fragment", id)
		return
	}
	c.opts.DOM.ScrollWindow(el.Top)
}

// Scroll reports a scroll event. Recomputation is throttled.
func (c *Controller) Scroll() {
	c.mu.Lock()
	th := c.throttle
	if c.disposed {
		th = nil
	}
	c.mu.Unlock()
	if th != nil {
		th.Trigger()
	}
}

// SyncPending reports whether a throttled recomputation is still queued.
// Its result becomes visible once ThrottleInterval has passed.
func (c *Controller) SyncPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.throttle != nil && c.throttle.Pending()
}

// ThrottleInterval returns the minimum spacing of recomputations.
func (c *Controller) ThrottleInterval() time.Duration {
	return c.opts.ThrottleInterval
}

// Sync recomputes the active heading immediately, bypassing the throttle.
func (c *Controller) Sync() {
	c.sync()
}

func (c *Controller) sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || c.doc == nil {
		return
	}

	dom := c.opts.DOM
	win := dom.Window()
	c.state.HeaderExpanded = win.ScrollY < HeaderCollapseAt

	for _, h := range c.headings {
		if h.Level < minTrackedLevel || h.Level > maxTrackedLevel {
			continue
		}
		if !viewport.InViewport(dom.Element(slug.Make(h.Title)), win) {
			continue
		}
		if c.state.Selected() != h.Title || c.state.SelectedHeadingTitle == nil {
			title := h.Title
			c.state.SelectedHeadingTitle = &title
			c.log.Debug("active heading changed", "document", c.doc.Key, "heading", title)
		}
		break
	}

	if c.state.ScrollSidenav && c.state.SelectedHeadingTitle != nil {
		c.followSidenavLocked(c.state.Selected())
	}
}

// followSidenavLocked centres the active entry in the navigation panel when
// it is not already visible.
func (c *Controller) followSidenavLocked(title string) {
	dom := c.opts.DOM
	panel := dom.Sidenav()
	entry := dom.NavEntry(slug.Make(title))
	if panel == nil || entry == nil {
		return
	}
	if viewport.VisibleInParent(entry, panel, c.opts.NavMargin, c.opts.NavMargin) {
		return
	}
	dom.ScrollSidenav(viewport.CenterIn(entry, panel))
}

// PointerEnter pauses sidenav auto-scroll while the reader uses the panel.
func (c *Controller) PointerEnter() {
	c.setScrollSidenav(false)
}

// PointerLeave resumes sidenav auto-scroll.
func (c *Controller) PointerLeave() {
	c.setScrollSidenav(true)
}

func (c *Controller) setScrollSidenav(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.state.ScrollSidenav = on
}

// Follow emits navigation to a heading of the mounted document.
func (c *Controller) Follow(title string) {
	c.mu.Lock()
	doc, nav := c.doc, c.opts.Navigator
	disposed := c.disposed
	c.mu.Unlock()
	if disposed || doc == nil || nav == nil {
		return
	}
	nav.Navigate(Target{Document: doc.Key, Fragment: slug.Make(title)})
}

// Open emits navigation to another document.
func (c *Controller) Open(key, fragment string) {
	c.mu.Lock()
	nav, disposed := c.opts.Navigator, c.disposed
	c.mu.Unlock()
	if disposed || nav == nil {
		return
	}
	nav.Navigate(Target{Document: key, Fragment: strings.TrimPrefix(fragment, "#")})
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.SelectedHeadingTitle != nil {
		title := *s.SelectedHeadingTitle
		s.SelectedHeadingTitle = &title
	}
	return s
}

// Phase derives the controller phase from its state.
func (c *Controller) Phase() Phase {
	s := c.State()
	switch {
	case !s.ScrollSidenav:
		return PhasePaused
	case s.SelectedHeadingTitle == nil:
		return PhaseIdle
	default:
		return PhaseTracking
	}
}

// Document returns the mounted document key.
func (c *Controller) Document() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return ""
	}
	return c.doc.Key
}

// Headings returns the flat heading list of the mounted document.
func (c *Controller) Headings() []toc.Heading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]toc.Heading(nil), c.headings...)
}

// Outline returns the nested outline of the mounted document.
func (c *Controller) Outline() *toc.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outline
}

// Dispose releases the controller's timers. Every later call is a no-op.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.stopTimersLocked()
}

func (c *Controller) stopTimersLocked() {
	if c.throttle != nil {
		c.throttle.Stop()
		c.throttle = nil
	}
	if c.fragment != nil {
		c.fragment.Stop()
		c.fragment = nil
	}
}
