// Package store owns every piece of client state and is the single place it
// is mutated.
//
// Intents enter through Dispatch, which runs them through the middleware
// chain and the reducer under one lock. Blocking work never runs there:
// operations return an op.Job, which the store wraps in a tea.Cmd. The
// command's result re-enters through Dispatch and is applied atomically.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/mutation"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/op"
	"github.com/mmcdole/mediabox/internal/pager"
	"github.com/mmcdole/mediabox/internal/status"
)

// Handler consumes one message and returns the effects it caused.
type Handler = func(tea.Msg) tea.Cmd

// Middleware wraps a handler.
type Middleware func(next Handler) Handler

// Options tune a Store. Zero values fall back to defaults.
type Options struct {
	PageSize       int
	SettleDelay    time.Duration
	RequestTimeout time.Duration
	DefaultView    View

	// Middleware runs inside the panic boundary, before logging and status
	// tracking.
	Middleware []Middleware

	// Context is the parent of every request. Cancelling it fails running
	// operations fast; they still settle.
	Context context.Context
}

const defaultRequestTimeout = 30 * time.Second

// Store is the state container. Construct one per application run.
type Store struct {
	api    domain.RemoteAPI
	creds  domain.CredentialStore
	opts   Options
	logger *slog.Logger

	mu      sync.RWMutex
	handler Handler

	tracker *status.Tracker
	notes   *notify.Queue
	main    MainState
	albums  AlbumState
	media   MediaState

	albumLoader *pager.Loader[domain.Album]
	mediaLoader *pager.Loader[domain.MediaItem]
	albumMut    *mutation.Coordinator
	mediaMut    *mutation.Coordinator

	flights uint64
	latest  map[string]uint64
}

// flight is one running invocation of an operation.
type flight struct {
	id   uint64
	name string
}

// resumed carries a job's result back onto the store loop.
type resumed struct {
	flight flight
	job    *op.Job
	value  any
	err    error
}

// New creates a store. Saved credentials, if any, are injected into api.
func New(api domain.RemoteAPI, creds domain.CredentialStore, opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.DefaultView == "" {
		opts.DefaultView = ViewMedia
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	s := &Store{
		api:     api,
		creds:   creds,
		opts:    opts,
		logger:  logger,
		tracker: status.NewTracker(),
		notes:   notify.NewQueue(),
		latest:  make(map[string]uint64),
	}
	s.main = MainState{View: opts.DefaultView}
	s.albums = AlbumState{
		Collection: pager.NewCollection[domain.Album](),
		Dialogs:    dialog.NewSet(specsFor(dialog.NewAlbum, dialog.RenameAlbum)...),
		Mode:       ModeView,
	}
	s.media = MediaState{
		Collection: pager.NewCollection[domain.MediaItem](),
		Dialogs:    dialog.NewSet(specsFor(dialog.NewMedia)...),
		Mode:       ModeView,
		FirstLoad:  true,
	}

	s.albumLoader = pager.NewLoader(s.albums.Collection, pager.Config[domain.Album]{
		Names:        pager.Names{First: OpQueryAlbums, More: OpQueryMoreAlbums},
		Fetch:        api.QueryAlbums,
		Tracker:      s.tracker,
		PageSize:     opts.PageSize,
		SettleDelay:  opts.SettleDelay,
		ServerFilter: true,
		OnError:      s.loadFailed,
		Logger:       logger.With("collection", "albums"),
	})
	s.mediaLoader = pager.NewLoader(s.media.Collection, pager.Config[domain.MediaItem]{
		Names:          pager.Names{First: OpQueryMedia, More: OpQueryMoreMedia},
		Fetch:          api.QueryMedia,
		Tracker:        s.tracker,
		PageSize:       opts.PageSize,
		SettleDelay:    opts.SettleDelay,
		OnFirstSettled: func() { s.media.FirstLoad = false },
		OnError:        s.loadFailed,
		Logger:         logger.With("collection", "media"),
	})
	s.albumMut = mutation.NewCoordinator(s.albums.Dialogs, s.notes, &s.main.Modal, logger)
	s.mediaMut = mutation.NewCoordinator(s.media.Dialogs, s.notes, &s.main.Modal, logger)

	if creds != nil {
		if c, ok := creds.Load(); ok {
			api.SetCredentials(c)
			s.main.Username = c.Username
		}
	}

	chain := []Middleware{s.recoverer}
	chain = append(chain, opts.Middleware...)
	chain = append(chain, s.logging, s.tracker.Middleware)
	var h Handler = s.reduce
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	s.handler = h

	return s
}

// Dispatch is the single mutation entry point. It applies msg and returns
// the effects to run, or nil. Messages the store does not recognize are
// ignored.
func (s *Store) Dispatch(msg tea.Msg) tea.Cmd {
	s.mu.Lock()
	cmd := s.handler(msg)
	s.mu.Unlock()
	return cmd
}

// run begins a flight of o under its declared operation name. A nil job
// starts nothing and leaves the status untouched.
func (s *Store) run(o Operation, job *op.Job) tea.Cmd {
	if job == nil {
		return nil
	}
	name := o.OperationName()
	s.flights++
	f := flight{id: s.flights, name: name}
	s.latest[name] = f.id

	return tea.Batch(s.handler(status.Started{Name: name}), s.suspend(f, job))
}

// suspend runs the job off the store loop.
func (s *Store) suspend(f flight, job *op.Job) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(s.opts.Context, s.opts.RequestTimeout)
		defer cancel()

		v, err := job.Run(ctx)
		return resumed{flight: f, job: job, value: v, err: err}
	}
}

func (s *Store) resume(msg resumed) tea.Cmd {
	step := msg.job.Resume(msg.value, msg.err)

	cmds := make([]tea.Cmd, 0, len(step.Then)+1)
	for _, m := range step.Then {
		cmds = append(cmds, send(m))
	}
	if step.Next != nil {
		cmds = append(cmds, s.suspend(msg.flight, step.Next))
	} else {
		cmds = append(cmds, s.settle(msg.flight, step.Err))
	}
	return tea.Batch(cmds...)
}

// settle records the end of a flight. Only the newest flight of a name
// writes the terminal phase; older ones finish silently so they cannot
// mark a still-running newer invocation as done.
func (s *Store) settle(f flight, err error) tea.Cmd {
	if s.latest[f.name] != f.id {
		s.logger.Debug("superseded operation finished", "op", f.name, "flight", f.id, "error", err)
		return nil
	}
	delete(s.latest, f.name)
	return s.handler(status.Settled{Name: f.name, Err: err})
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
