// Package notify holds transient user-facing messages.
package notify

import (
	"slices"

	"github.com/google/uuid"
)

// Kind classifies a notification for rendering
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a dismissible toast.
type Notification struct {
	ID          string
	Content     string
	Kind        Kind
	Dismissible bool
}

// Queue keeps live notifications in insertion order, oldest first.
// No two live notifications share the same Content.
type Queue struct {
	items []Notification
	newID func() string
}

// NewQueue creates an empty queue that assigns uuid identifiers.
func NewQueue() *Queue {
	return &Queue{newID: uuid.NewString}
}

// Enqueue appends a notification unless one with identical content is still
// live. It returns the id of the live notification and whether it was added.
func (q *Queue) Enqueue(content string, kind Kind) (string, bool) {
	for _, n := range q.items {
		if n.Content == content {
			return n.ID, false
		}
	}
	n := Notification{
		ID:          q.newID(),
		Content:     content,
		Kind:        kind,
		Dismissible: true,
	}
	q.items = append(q.items, n)
	return n.ID, true
}

// Dismiss removes the notification with the given id. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) bool {
	i := slices.IndexFunc(q.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

// Items returns a copy of the live notifications.
func (q *Queue) Items() []Notification {
	return slices.Clone(q.items)
}

func (q *Queue) Len() int { return len(q.items) }

// Clear drops every notification.
func (q *Queue) Clear() {
	q.items = nil
}
