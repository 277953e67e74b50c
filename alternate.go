package crossterm

import (
	"errors"
	"io"
	"sync"
)

// errScreenSwitch reports an alternate-screen switch the OS rejected.
var errScreenSwitch = errors.New("crossterm: screen switch failed")

// AlternateScreen is a scoped acquisition of the alternate screen. It
// registers and executes an AlternateScreenCommand on construction and
// guarantees the switch is reverted exactly once when Close runs, even if
// the screen was switched back manually first.
//
// Typical use:
//
//	screen, err := NewAlternateScreen(ctx)
//	if err != nil {
//		return err
//	}
//	defer screen.Close()
//	screen.Write([]byte("hello"))
type AlternateScreen struct {
	ctx *Context
	id  ChangeID

	mu       sync.Mutex
	released bool
}

var _ io.WriteCloser = (*AlternateScreen)(nil)

// NewAlternateScreen switches the Context to the alternate screen and
// returns the scoped handle. On failure the main screen stays active and
// an error is returned; the command stays registered under its id either
// way.
func NewAlternateScreen(ctx *Context) (*AlternateScreen, error) {
	id, ok := ctx.StateRegistry().RegisterAndExecute(func(ChangeID) Command {
		return newAlternateScreenCommand(ctx)
	})
	if !ok {
		return nil, errScreenSwitch
	}
	return &AlternateScreen{ctx: ctx, id: id}, nil
}

// Write forwards to the Context's active screen target.
func (s *AlternateScreen) Write(p []byte) (int, error) {
	return s.ctx.Write(p)
}

// Flush forwards to the Context's active screen target.
func (s *AlternateScreen) Flush() error {
	return s.ctx.Flush()
}

// ToMain switches back to the main screen, reporting the OS outcome.
func (s *AlternateScreen) ToMain() bool {
	ok, err := s.ctx.StateRegistry().Undo(s.id)
	return ok && err == nil
}

// ToAlternate switches to the alternate screen again, reporting the OS
// outcome.
func (s *AlternateScreen) ToAlternate() bool {
	ok, err := s.ctx.StateRegistry().Execute(s.id)
	return ok && err == nil
}

// Close reverts to the main screen. Idempotent: the revert runs at most
// once, and a second Close is a no-op. If the screen was already switched
// back manually the underlying command makes the revert a no-op too.
func (s *AlternateScreen) Close() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	s.mu.Unlock()

	ok, err := s.ctx.StateRegistry().Undo(s.id)
	if err != nil {
		return err
	}
	if !ok {
		return errScreenSwitch
	}
	return nil
}
