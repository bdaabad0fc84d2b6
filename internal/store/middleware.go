package store

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/op"
	"github.com/mmcdole/mediabox/internal/status"
)

// recoverer is the routing boundary: a panic while handling a message is
// logged and routed as RouteError instead of escaping Dispatch. A flight
// whose resume panicked is still settled so its status cannot hang.
func (s *Store) recoverer(next Handler) Handler {
	return func(msg tea.Msg) (cmd tea.Cmd) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err := &op.PanicError{Value: r, Stack: debug.Stack()}
			s.logger.Error("panic while handling message", "msg", fmt.Sprintf("%T", msg), "error", err, "stack", string(err.Stack))

			var cmds []tea.Cmd
			if res, ok := msg.(resumed); ok {
				cmds = append(cmds, s.settle(res.flight, err))
			}
			cmds = append(cmds, s.routeError(err))
			cmd = tea.Batch(cmds...)
		}()
		return next(msg)
	}
}

// logging traces every message and reports settled operations.
func (s *Store) logging(next Handler) Handler {
	return func(msg tea.Msg) tea.Cmd {
		switch msg := msg.(type) {
		case resumed:
			s.logger.Debug("resuming operation", "op", msg.flight.name, "flight", msg.flight.id)
		case status.Settled:
			if msg.Err != nil {
				s.logger.Warn("operation rejected", "op", msg.Name, "error", msg.Err)
			} else {
				s.logger.Info("operation fulfilled", "op", msg.Name)
			}
		default:
			s.logger.Debug("dispatch", "msg", fmt.Sprintf("%T", msg))
		}
		return next(msg)
	}
}
