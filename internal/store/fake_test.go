package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/domain"
)

// fakeAPI is an in-memory media service. Every page query is served from
// the current contents at call time.
type fakeAPI struct {
	mu sync.Mutex

	albums []domain.Album
	media  []domain.MediaItem

	// alwaysMore reports MoreAvailable on every non-empty page.
	alwaysMore bool

	pingErr   error
	queryErr  error
	createErr error
	renameErr error
	deleteErr error
	failURLs  map[string]error

	creds   domain.Credentials
	calls   map[string]int
	cookies []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}, failURLs: map[string]error{}}
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func page[T domain.Entity](all []T, q domain.Query, alwaysMore bool) domain.Page[T] {
	start := 0
	if q.Cursor != "" {
		start = len(all)
		for i, it := range all {
			if it.Cursor() == q.Cursor {
				start = i + 1
				break
			}
		}
	}
	end := min(start+q.Limit, len(all))
	items := slices.Clone(all[start:end])
	more := end < len(all)
	if alwaysMore && len(items) > 0 {
		more = true
	}
	return domain.Page[T]{Items: items, MoreAvailable: more}
}

func (f *fakeAPI) QueryAlbums(ctx context.Context, q domain.Query) (domain.Page[domain.Album], error) {
	f.hit("QueryAlbums")
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Album]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return domain.Page[domain.Album]{}, f.queryErr
	}
	return page(f.albums, q, f.alwaysMore), nil
}

func (f *fakeAPI) CreateAlbum(_ context.Context, name string) (domain.Album, error) {
	f.hit("CreateAlbum")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Album{}, f.createErr
	}
	a := domain.Album{ID: fmt.Sprintf("new%d", len(f.albums)), Name: name}
	f.albums = append([]domain.Album{a}, f.albums...)
	return a, nil
}

func (f *fakeAPI) RenameAlbum(_ context.Context, id, newName string) error {
	f.hit("RenameAlbum")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.renameErr != nil {
		return f.renameErr
	}
	for i := range f.albums {
		if f.albums[i].ID == id {
			f.albums[i].Name = newName
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "album not found"}
}

func (f *fakeAPI) DeleteAlbums(_ context.Context, ids []string) error {
	f.hit("DeleteAlbums")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.albums = slices.DeleteFunc(f.albums, func(a domain.Album) bool { return slices.Contains(ids, a.ID) })
	return nil
}

func (f *fakeAPI) QueryMedia(_ context.Context, q domain.Query) (domain.Page[domain.MediaItem], error) {
	f.hit("QueryMedia")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return domain.Page[domain.MediaItem]{}, f.queryErr
	}
	return page(f.media, q, f.alwaysMore), nil
}

func (f *fakeAPI) AddMedia(ctx context.Context, url string) (domain.MediaItem, error) {
	f.hit("AddMedia")
	if err := ctx.Err(); err != nil {
		return domain.MediaItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failURLs[url]; err != nil {
		return domain.MediaItem{}, err
	}
	n := len(f.media)
	m := domain.MediaItem{ID: fmt.Sprintf("m%03d", n), SourceURL: url, CreatedAtKSUID: fmt.Sprintf("k%03d", 999-n)}
	f.media = append([]domain.MediaItem{m}, f.media...)
	return m, nil
}

func (f *fakeAPI) DeleteMedia(_ context.Context, ids []string) error {
	f.hit("DeleteMedia")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.media = slices.DeleteFunc(f.media, func(m domain.MediaItem) bool { return slices.Contains(ids, m.ID) })
	return nil
}

func (f *fakeAPI) Ping(context.Context) error {
	f.hit("Ping")
	return f.pingErr
}

func (f *fakeAPI) SetCredentials(c domain.Credentials) {
	f.mu.Lock()
	f.creds = c
	f.mu.Unlock()
}

func (f *fakeAPI) UploadCookies(_ context.Context, path string) error {
	f.hit("UploadCookies")
	f.mu.Lock()
	f.cookies = append(f.cookies, path)
	f.mu.Unlock()
	return nil
}

type fakeJar struct {
	c     domain.Credentials
	saved bool
}

func (j *fakeJar) Load() (domain.Credentials, bool) { return j.c, j.saved }
func (j *fakeJar) Save(c domain.Credentials) error  { j.c, j.saved = c, true; return nil }
func (j *fakeJar) Clear() error                     { j.c, j.saved = domain.Credentials{}, false; return nil }

func makeAlbums(n int) []domain.Album {
	out := make([]domain.Album, n)
	for i := range out {
		out[i] = domain.Album{ID: fmt.Sprintf("a%02d", i), Name: fmt.Sprintf("Album %d", i)}
	}
	return out
}

func makeMedia(n int) []domain.MediaItem {
	out := make([]domain.MediaItem, n)
	for i := range out {
		out[i] = domain.MediaItem{
			ID:             fmt.Sprintf("m%02d", i),
			Title:          fmt.Sprintf("Clip %d", i),
			CreatedAtKSUID: fmt.Sprintf("k%02d", 99-i),
		}
	}
	return out
}

func newTestStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	return New(api, &fakeJar{}, Options{}, nil)
}

// collect runs cmd and returns the messages it produced, flattening
// batches. Produced messages are not dispatched.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// drain dispatches msg and every message its effects produce, until the
// store is idle.
func drain(s *Store, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		queue = append(queue, collect(s.Dispatch(m))...)
	}
}

// dispatchAll dispatches msgs in order and returns what their effects
// produced.
func dispatchAll(s *Store, msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		out = append(out, collect(s.Dispatch(m))...)
	}
	return out
}

var errBadURL = errors.New("unsupported url")
