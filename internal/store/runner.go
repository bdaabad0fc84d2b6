package store

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Runner executes a store's effects without a tea.Program, for headless
// commands and tests. Each effect runs on its own goroutine; its result is
// dispatched back into the store.
//
// Every scheduled effect runs, so every started operation settles. To stop
// early, cancel the store's Options.Context: requests then fail fast and
// their operations are rejected.
type Runner struct {
	store *Store
	g     errgroup.Group
}

// NewRunner creates a runner for s.
func NewRunner(s *Store) *Runner {
	return &Runner{store: s}
}

// Dispatch sends msg to the store and schedules the effects it returns.
func (r *Runner) Dispatch(msg tea.Msg) {
	r.exec(r.store.Dispatch(msg))
}

func (r *Runner) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	r.g.Go(func() error {
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			for _, c := range msg {
				r.exec(c)
			}
		default:
			r.Dispatch(msg)
		}
		return nil
	})
}

// Wait blocks until every scheduled effect, including the ones they
// scheduled in turn, has finished.
func (r *Runner) Wait() error {
	return r.g.Wait()
}
