package crossterm

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Context is the long-lived handle shared by every consumer of one
// terminal session. It bundles the platform console, the active screen
// target, and the state registry, and serializes all of it behind one
// lock so independent call sites (cursor, terminal, screen) never observe
// torn state.
//
// Create one Context per session and share the pointer; it holds no
// resources needing explicit release — terminal state is restored by
// undoing registered commands, and cached OS handles live for the process.
type Context struct {
	mu       sync.Mutex
	console  Console
	screen   ScreenTarget
	registry *StateRegistry
	log      logrus.FieldLogger
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithConsole overrides the platform console. Used by tests to substitute
// MockConsole, and by embedders driving a non-standard descriptor pair.
func WithConsole(c Console) ContextOption {
	return func(ctx *Context) { ctx.console = c }
}

// WithLogger sets the logger for command execution diagnostics. The
// default logger discards everything.
func WithLogger(l logrus.FieldLogger) ContextOption {
	return func(ctx *Context) { ctx.log = l }
}

// NewContext creates the shared handle for a terminal session. The main
// screen starts active. Fails with ErrHandleUnavailable when the process
// has no usable console output.
func NewContext(opts ...ContextOption) (*Context, error) {
	ctx := &Context{log: discardLogger()}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.console == nil {
		ctx.console = newConsole()
	}
	if _, err := ctx.console.Output(); err != nil {
		return nil, err
	}
	ctx.screen = NewMainScreen(ctx.console)
	ctx.registry = newStateRegistry(ctx)
	return ctx, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// StateRegistry returns the registry used to register and reverse
// terminal-state mutations on this Context.
func (c *Context) StateRegistry() *StateRegistry {
	return c.registry
}

// ScreenTarget returns the currently active screen target.
func (c *Context) ScreenTarget() ScreenTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Write forwards to the active screen target, serialized with mutations on
// this Context.
func (c *Context) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return 0, ErrNoActiveSurface
	}
	return c.screen.Write(p)
}

// Flush forwards to the active screen target.
func (c *Context) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return ErrNoActiveSurface
	}
	return c.screen.Flush()
}

// Info queries the active screen target in one OS call.
func (c *Context) Info() (ScreenInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return ScreenInfo{}, ErrNoActiveSurface
	}
	return c.screen.Info()
}

// ActiveHandle resolves the OS resource currently designated active.
func (c *Context) ActiveHandle() (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return 0, ErrNoActiveSurface
	}
	return c.screen.ActiveHandle()
}

// setScreenLocked swaps the active screen target. Caller holds c.mu; only
// commands executing under the registry do this.
func (c *Context) setScreenLocked(t ScreenTarget) {
	c.screen = t
}

// withScreen runs fn with the console and the active surface handle while
// holding the Context lock. Helper for the cursor and terminal modules.
func (c *Context) withScreen(fn func(con Console, h Handle) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return ErrNoActiveSurface
	}
	h, err := c.screen.ActiveHandle()
	if err != nil {
		return err
	}
	return fn(c.console, h)
}
