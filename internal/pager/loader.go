package pager

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/op"
	"github.com/mmcdole/mediabox/internal/status"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 30

// FetchFunc queries one page of a remote collection.
type FetchFunc[T domain.Entity] func(ctx context.Context, q domain.Query) (domain.Page[T], error)

// Names are the operation names a loader's fetches run under.
type Names struct {
	First string
	More  string
}

// Config configures a Loader.
type Config[T domain.Entity] struct {
	Names    Names
	Fetch    FetchFunc[T]
	Tracker  *status.Tracker
	PageSize int

	// SettleDelay keeps a first load pending for a minimum duration so the
	// loading indicator is visible.
	SettleDelay time.Duration

	// ServerFilter sends the collection filter with every request. When false
	// the filter is applied client-side by the caller.
	ServerFilter bool

	// OnFirstSettled runs on the store loop once a first load has fully settled.
	OnFirstSettled func()

	// OnError maps a fetch failure to follow-up intents.
	OnError func(err error) []tea.Msg

	Logger *slog.Logger
}

// Loader issues page requests for a Collection.
type Loader[T domain.Entity] struct {
	coll *Collection[T]
	cfg  Config[T]
}

// NewLoader creates a loader driving coll.
func NewLoader[T domain.Entity](coll *Collection[T], cfg Config[T]) *Loader[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loader[T]{coll: coll, cfg: cfg}
}

// Collection returns the driven collection.
func (l *Loader[T]) Collection() *Collection[T] {
	return l.coll
}

// LoadFirst starts a full reload, newest first, ignoring the cursor. It may
// be called while other fetches are in flight; only the newest reload's
// response is applied.
func (l *Loader[T]) LoadFirst() *op.Job {
	ticket := l.coll.BeginFirst()
	q := l.query(ticket)

	return op.Await(func(ctx context.Context) (domain.Page[T], error) {
		return l.cfg.Fetch(ctx, q)
	}, func(page domain.Page[T], err error) op.Step {
		if err != nil {
			l.coll.AbortFirst(ticket)
			return l.fail(err, "failed to load first page", ticket)
		}
		if !l.coll.ApplyFirst(ticket, page) {
			l.cfg.Logger.Debug("discarding stale page", "op", l.cfg.Names.First, "gen", ticket.Gen)
			return op.Done()
		}
		if l.cfg.SettleDelay <= 0 {
			l.firstSettled()
			return op.Done()
		}
		return op.Continue(op.Sleep(l.cfg.SettleDelay, func() op.Step {
			l.firstSettled()
			return op.Done()
		}))
	})
}

// LoadMore fetches the page after the current tail. It returns nil, issuing
// nothing, when the collection is exhausted or empty, or when any fetch of
// this collection is still pending.
func (l *Loader[T]) LoadMore() *op.Job {
	if l.cfg.Tracker != nil && l.cfg.Tracker.IsPending(l.cfg.Names.First, l.cfg.Names.More) {
		return nil
	}
	ticket, ok := l.coll.BeginMore()
	if !ok {
		return nil
	}
	q := l.query(ticket)

	return op.Await(func(ctx context.Context) (domain.Page[T], error) {
		return l.cfg.Fetch(ctx, q)
	}, func(page domain.Page[T], err error) op.Step {
		if err != nil {
			l.coll.AbortMore(ticket)
			return l.fail(err, "failed to load more", ticket)
		}
		if !l.coll.ApplyMore(ticket, page) {
			l.cfg.Logger.Debug("discarding stale page", "op", l.cfg.Names.More, "gen", ticket.Gen)
		}
		return op.Done()
	})
}

func (l *Loader[T]) query(t Ticket) domain.Query {
	q := domain.Query{
		Cursor:     t.Cursor,
		Limit:      l.cfg.PageSize,
		Descending: true,
	}
	if l.cfg.ServerFilter {
		q.Filter = t.Filter
	}
	return q
}

func (l *Loader[T]) fail(err error, msg string, t Ticket) op.Step {
	if !l.coll.Current(t) {
		l.cfg.Logger.Debug("ignoring failure of stale fetch", "error", err, "gen", t.Gen)
		return op.Fail(err)
	}
	l.cfg.Logger.Error(msg, "error", err, "cursor", t.Cursor, "gen", t.Gen)
	if l.cfg.OnError == nil {
		return op.Fail(err)
	}
	return op.Fail(err, l.cfg.OnError(err)...)
}

func (l *Loader[T]) firstSettled() {
	if l.cfg.OnFirstSettled != nil {
		l.cfg.OnFirstSettled()
	}
}
