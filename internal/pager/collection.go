// Package pager implements cursor-based infinite scroll over a remote
// collection.
package pager

import (
	"slices"

	"github.com/mmcdole/mediabox/internal/domain"
)

// State is the position of a collection in its load lifecycle.
type State int

const (
	Empty State = iota
	LoadingFirst
	Loaded
	LoadingMore
	Exhausted
)

func (s State) String() string {
	switch s {
	case LoadingFirst:
		return "loading-first"
	case Loaded:
		return "loaded"
	case LoadingMore:
		return "loading-more"
	case Exhausted:
		return "exhausted"
	default:
		return "empty"
	}
}

// Ticket identifies one page request. Responses are applied only while the
// ticket's generation is current.
type Ticket struct {
	Gen    uint64
	Cursor string
	Filter string
}

// Collection is the page state of one remote collection. It performs no I/O;
// Loader drives it.
//
// Items grow only by full replacement (ApplyFirst) or by tail append
// (ApplyMore). Every BeginFirst starts a new generation, so a response issued
// before the newest reload is discarded instead of replacing or appending.
type Collection[T domain.Entity] struct {
	items     []T
	exhausted bool
	cursor    string
	filter    string
	selected  []string

	gen          uint64
	pendingFirst int
	pendingMore  bool
}

// NewCollection creates an empty, never-loaded collection.
func NewCollection[T domain.Entity]() *Collection[T] {
	return &Collection[T]{}
}

// State reports the lifecycle state.
func (c *Collection[T]) State() State {
	switch {
	case c.pendingFirst > 0:
		return LoadingFirst
	case c.items == nil:
		return Empty
	case c.pendingMore:
		return LoadingMore
	case c.exhausted:
		return Exhausted
	default:
		return Loaded
	}
}

// BeginFirst starts a full reload and returns its ticket.
func (c *Collection[T]) BeginFirst() Ticket {
	c.gen++
	c.pendingFirst++
	return Ticket{Gen: c.gen, Filter: c.filter}
}

// ApplyFirst replaces the items with page. It returns false when a newer
// reload has started since t was issued; the page is then dropped.
func (c *Collection[T]) ApplyFirst(t Ticket, page domain.Page[T]) bool {
	c.settleFirst()
	if t.Gen != c.gen {
		return false
	}
	c.items = slices.Clip(append(make([]T, 0, len(page.Items)), page.Items...))
	c.selected = nil
	c.exhausted = !page.MoreAvailable
	c.cursor = c.tailCursor()
	return true
}

// Current reports whether t belongs to the newest generation.
func (c *Collection[T]) Current(t Ticket) bool {
	return t.Gen == c.gen
}

// AbortFirst records a failed reload. The items are left untouched.
func (c *Collection[T]) AbortFirst(Ticket) {
	c.settleFirst()
}

func (c *Collection[T]) settleFirst() {
	if c.pendingFirst > 0 {
		c.pendingFirst--
	}
}

// BeginMore starts a tail fetch after the last loaded item. It refuses while
// the collection is exhausted, empty or already fetching, and when the tail
// item has no cursor yet: without one the server would serve the first page
// again.
func (c *Collection[T]) BeginMore() (Ticket, bool) {
	if c.exhausted || len(c.items) == 0 || c.pendingFirst > 0 || c.pendingMore {
		return Ticket{}, false
	}
	cursor := c.tailCursor()
	if cursor == "" {
		return Ticket{}, false
	}
	c.pendingMore = true
	return Ticket{Gen: c.gen, Cursor: cursor, Filter: c.filter}, true
}

// ApplyMore appends page to the tail. An empty page marks the collection
// exhausted without touching the items. Stale tickets are dropped.
func (c *Collection[T]) ApplyMore(t Ticket, page domain.Page[T]) bool {
	c.pendingMore = false
	if t.Gen != c.gen {
		return false
	}
	if len(page.Items) == 0 {
		c.exhausted = true
		return true
	}
	c.items = append(c.items, page.Items...)
	if !page.MoreAvailable {
		c.exhausted = true
	}
	c.cursor = c.tailCursor()
	return true
}

// AbortMore records a failed tail fetch.
func (c *Collection[T]) AbortMore(Ticket) {
	c.pendingMore = false
}

func (c *Collection[T]) tailCursor() string {
	if len(c.items) == 0 {
		return ""
	}
	return c.items[len(c.items)-1].Cursor()
}

// Items returns a copy of the loaded items, or nil before the first load.
func (c *Collection[T]) Items() []T {
	if c.items == nil {
		return nil
	}
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Loaded reports whether a first page has ever been applied.
func (c *Collection[T]) Loaded() bool { return c.items != nil }

func (c *Collection[T]) Exhausted() bool { return c.exhausted }

// Cursor is the cursor of the current tail item.
func (c *Collection[T]) Cursor() string { return c.cursor }

func (c *Collection[T]) Filter() string { return c.filter }

// SetFilter changes the filter used by the next request. Loaded items are
// kept until a reload replaces them.
func (c *Collection[T]) SetFilter(filter string) {
	c.filter = filter
}

// Select replaces the selection with the given ids.
func (c *Collection[T]) Select(ids ...string) {
	c.selected = nil
	for _, id := range ids {
		if !slices.Contains(c.selected, id) {
			c.selected = append(c.selected, id)
		}
	}
}

// Toggle adds id to the selection or removes it.
func (c *Collection[T]) Toggle(id string) {
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return
	}
	c.selected = append(c.selected, id)
}

// IsSelected reports whether id is selected.
func (c *Collection[T]) IsSelected(id string) bool {
	return slices.Contains(c.selected, id)
}

// SelectedIDs returns the selected ids in selection order.
func (c *Collection[T]) SelectedIDs() []string {
	return slices.Clone(c.selected)
}

// Selected returns the loaded items that are selected, in list order.
func (c *Collection[T]) Selected() []T {
	var out []T
	for _, it := range c.items {
		if slices.Contains(c.selected, it.GetID()) {
			out = append(out, it)
		}
	}
	return out
}

func (c *Collection[T]) ClearSelection() {
	c.selected = nil
}

// Reset forgets everything loaded. In-flight responses become stale.
func (c *Collection[T]) Reset() {
	c.gen++
	c.items = nil
	c.exhausted = false
	c.cursor = ""
	c.filter = ""
	c.selected = nil
}

// Clone returns an independent copy for read-only snapshots.
func (c *Collection[T]) Clone() *Collection[T] {
	out := *c
	out.items = c.Items()
	out.selected = slices.Clone(c.selected)
	return &out
}
