package session

import (
	"sync"

	"github.com/dgallion1/docsite/internal/viewport"
)

// Snapshot is a client's measurement of the reference page: the window,
// the boxes of content headings and of the navigation entries, keyed by
// element id.
type Snapshot struct {
	Window     viewport.Window             `json:"window"`
	Elements   map[string]viewport.Element `json:"elements"`
	Sidenav    *viewport.Element           `json:"sidenav,omitempty"`
	NavEntries map[string]viewport.Element `json:"nav_entries"`
}

// Scroll targets.
const (
	TargetWindow  = "window"
	TargetSidenav = "sidenav"
)

// Command is a scroll the client must apply.
type Command struct {
	Target string  `json:"target"`
	Top    float64 `json:"top"`
}

// Layout serves the controller from the latest snapshot and queues the
// scrolls it asks for.
type Layout struct {
	mu       sync.Mutex
	snap     Snapshot
	commands []Command
}

// NewLayout returns a layout over snap.
func NewLayout(snap Snapshot) *Layout {
	l := &Layout{}
	l.Update(snap)
	return l
}

// Update replaces the snapshot.
func (l *Layout) Update(snap Snapshot) {
	if snap.Sidenav != nil {
		sn := *snap.Sidenav
		snap.Sidenav = &sn
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = snap
}

// Drain returns the queued commands and clears the queue.
func (l *Layout) Drain() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.commands
	l.commands = nil
	if out == nil {
		out = []Command{}
	}
	return out
}

func (l *Layout) Window() viewport.Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.Window
}

func (l *Layout) Element(id string) *viewport.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lookup(l.snap.Elements, id)
}

func (l *Layout) Sidenav() *viewport.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snap.Sidenav == nil {
		return nil
	}
	sn := *l.snap.Sidenav
	return &sn
}

func (l *Layout) NavEntry(id string) *viewport.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lookup(l.snap.NavEntries, id)
}

// ScrollSidenav queues a sidenav scroll and applies it to the snapshot so
// later reads see the new offset.
func (l *Layout) ScrollSidenav(top float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snap.Sidenav != nil {
		l.snap.Sidenav.ScrollTop = top
	}
	l.commands = append(l.commands, Command{Target: TargetSidenav, Top: top})
}

// ScrollWindow queues a window scroll.
func (l *Layout) ScrollWindow(top float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Window.ScrollY = top
	l.commands = append(l.commands, Command{Target: TargetWindow, Top: top})
}

func lookup(m map[string]viewport.Element, id string) *viewport.Element {
	el, ok := m[id]
	if !ok {
		return nil
	}
	return &el
}
