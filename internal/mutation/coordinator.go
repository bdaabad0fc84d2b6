// Package mutation issues create, rename, delete and add operations and
// routes their outcome to dialogs, notifications and collection reloads.
package mutation

import (
	"context"
	"log/slog"
	"maps"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/op"
)

// Submit describes a dialog-backed mutation.
type Submit struct {
	Kind dialog.Kind

	// Call performs the remote mutation with the validated draft values and
	// returns a display name for the success message.
	Call func(ctx context.Context, values map[string]string) (string, error)

	// Success formats the notification shown on success.
	Success func(name string) string

	// Reload is dispatched after success.
	Reload []tea.Msg
}

// Delete describes a mutation on a set of selected entities.
type Delete struct {
	IDs  []string
	Call func(ctx context.Context, ids []string) error

	// Message is shown on success, as a modal when Modal is set.
	Message string
	Modal   bool

	Reload []tea.Msg

	// OnSuccess runs on the store loop before the reload, e.g. to clear the
	// selection.
	OnSuccess func()
}

// Add describes a counted, dialog-less add.
type Add struct {
	Counter *Counter
	Call    func(ctx context.Context) error

	// Reload returns the intents to dispatch after success.
	Reload func() []tea.Msg
}

// Coordinator builds mutation jobs. It writes only into the dialogs,
// notifications and modal it was given.
type Coordinator struct {
	dialogs *dialog.Set
	notes   *notify.Queue
	modal   *notify.Modal
	logger  *slog.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(dialogs *dialog.Set, notes *notify.Queue, modal *notify.Modal, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{dialogs: dialogs, notes: notes, modal: modal, logger: logger}
}

// Create validates the dialog draft and issues the create call. It returns
// nil when validation fails; the errors are attached to the draft and no
// request is made.
func (c *Coordinator) Create(s Submit) *op.Job {
	return c.submit(s, "failed to create")
}

// Rename is Create for rename dialogs.
func (c *Coordinator) Rename(s Submit) *op.Job {
	return c.submit(s, "failed to rename")
}

func (c *Coordinator) submit(s Submit, failMsg string) *op.Job {
	if !c.dialogs.Validate(s.Kind) {
		c.logger.Debug("dialog validation failed", "dialog", s.Kind, "errors", c.dialogs.Errors(s.Kind))
		return nil
	}
	spec, _ := c.dialogs.Spec(s.Kind)
	values := c.dialogs.Draft(s.Kind).Values
	c.dialogs.ClearErrors(s.Kind)

	return op.Await(func(ctx context.Context) (string, error) {
		return s.Call(ctx, values)
	}, func(name string, err error) op.Step {
		if err != nil {
			c.logger.Error(failMsg, "error", err, "dialog", s.Kind)
			c.dialogs.SetError(s.Kind, spec.ErrorKey, domain.ErrorMessage(err))
			return op.Fail(err)
		}
		if s.Success != nil {
			c.notes.Enqueue(s.Success(name), notify.KindSuccess)
		}
		// A draft edited or reopened while the request ran belongs to the
		// user now.
		if maps.Equal(c.dialogs.Draft(s.Kind).Values, values) {
			c.dialogs.ResetNamedFields(s.Kind, spec.Reset...)
		}
		return op.Done(s.Reload...)
	})
}

// Delete issues a bulk delete. Failures have no dialog to report into and
// surface as an error notification.
func (c *Coordinator) Delete(d Delete) *op.Job {
	ids := append([]string(nil), d.IDs...)

	return op.Call(func(ctx context.Context) error {
		return d.Call(ctx, ids)
	}, func(err error) op.Step {
		if err != nil {
			c.logger.Error("failed to delete", "error", err, "count", len(ids))
			if d.Modal {
				c.modal.Show("Error", domain.ErrorMessage(err), notify.KindError)
			} else {
				c.notes.Enqueue(domain.ErrorMessage(err), notify.KindError)
			}
			return op.Fail(err)
		}
		if d.Modal {
			c.modal.Show("Success", d.Message, notify.KindSuccess)
		} else {
			c.notes.Enqueue(d.Message, notify.KindSuccess)
		}
		if d.OnSuccess != nil {
			d.OnSuccess()
		}
		return op.Done(d.Reload...)
	})
}

// AddWithCounter increments the counter now and decrements it exactly once
// when the job is resumed, whatever the outcome. Failures are shown in the
// modal.
func (c *Coordinator) AddWithCounter(a Add) *op.Job {
	a.Counter.Inc()

	return op.Call(a.Call, func(err error) op.Step {
		defer a.Counter.Dec()
		if err != nil {
			c.logger.Error("failed to add", "error", err)
			c.modal.Show("Error", domain.ErrorMessage(err), notify.KindError)
			return op.Fail(err)
		}
		if a.Reload == nil {
			return op.Done()
		}
		return op.Done(a.Reload()...)
	})
}
