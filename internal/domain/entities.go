package domain

import "strings"

// Entity is the common shape of every item held by a paginated collection.
type Entity interface {
	// GetID returns the stable server identifier
	GetID() string

	// Cursor returns the marker used to request the page after this item
	Cursor() string
}

// Album is a named grouping of media items.
//
// Names may carry a structured prefix of "key=value" segments joined by "=".
// Only the last segment is meant for display.
type Album struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
}

// Label returns the human-readable part of the album name.
func (a Album) Label() string {
	if i := strings.LastIndex(a.Name, "="); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// Locked reports whether the name carries a structured prefix.
func (a Album) Locked() bool {
	return strings.Contains(a.Name, "=")
}

func (a Album) GetID() string  { return a.ID }
func (a Album) Cursor() string { return a.ID }

// MediaItem is a single downloaded media entry.
type MediaItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ThumbnailPath string   `json:"thumbnail_path,omitempty"`
	SourceURL     string   `json:"media_url,omitempty"`
	AlbumIDs      []string `json:"album_ids,omitempty"`

	// CreatedAtKSUID is strictly increasing in creation order and is the
	// pagination cursor for media queries.
	CreatedAtKSUID string `json:"created_at_ksuid"`
}

// DisplayTitle falls back to the source URL for items still being processed.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.SourceURL
}

func (m MediaItem) GetID() string  { return m.ID }
func (m MediaItem) Cursor() string { return m.CreatedAtKSUID }

// Page is one response of a collection query.
type Page[T any] struct {
	Items         []T
	MoreAvailable bool
}

// Query describes a cursor-based collection request.
type Query struct {
	Cursor     string // empty for the first page
	Limit      int
	Descending bool
	Filter     string
}

// Credentials are the basic-auth pair injected into the remote client.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IsZero reports whether no credentials are set.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// IDs collects the identifiers of a slice of entities, preserving order.
func IDs[T Entity](items []T) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.GetID())
	}
	return ids
}
