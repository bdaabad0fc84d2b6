// Package status records the lifecycle phase of every named asynchronous
// operation dispatched through the store.
package status

import (
	"maps"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase is the lifecycle phase of an operation.
type Phase int

const (
	Unknown Phase = iota
	Pending
	Fulfilled
	Rejected
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the operation has finished.
func (p Phase) Terminal() bool {
	return p == Fulfilled || p == Rejected
}

// Started is emitted by the store when an operation suspends for the first time.
type Started struct {
	Name string
}

// Settled is emitted by the store when an operation finishes.
type Settled struct {
	Name string
	Err  error
}

// Tracker maps operation names to their latest phase. No history is kept:
// a new invocation overwrites the previous terminal phase.
//
// A Tracker is owned by a single store and is not safe for concurrent use.
type Tracker struct {
	phases map[string]Phase
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{phases: make(map[string]Phase)}
}

// Middleware records Started/Settled messages before handing every message
// to next. Other messages pass through untouched.
func (t *Tracker) Middleware(next func(tea.Msg) tea.Cmd) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		t.Observe(msg)
		return next(msg)
	}
}

// Observe applies a lifecycle message. It returns false for anything else.
func (t *Tracker) Observe(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case Started:
		t.phases[msg.Name] = Pending
	case Settled:
		if msg.Err != nil {
			t.phases[msg.Name] = Rejected
		} else {
			t.phases[msg.Name] = Fulfilled
		}
	default:
		return false
	}
	return true
}

// StatusOf returns the phase of the named operation.
func (t *Tracker) StatusOf(name string) Phase {
	return t.phases[name]
}

// IsPending reports whether any of the named operations is in flight.
func (t *Tracker) IsPending(names ...string) bool {
	for _, name := range names {
		if t.phases[name] == Pending {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the phase map.
func (t *Tracker) Snapshot() map[string]Phase {
	return maps.Clone(t.phases)
}
