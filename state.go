package crossterm

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// StateRegistry tracks every terminal-state mutation applied through a
// Context so each one can be reversed later. All operations run under the
// Context lock: cooperating handles (cursor, terminal, screen) may call in
// from independent goroutines, and two mutations on the same Context must
// never interleave their OS calls.
type StateRegistry struct {
	ctx      *Context
	next     uint16
	commands map[ChangeID]Command
}

func newStateRegistry(ctx *Context) *StateRegistry {
	return &StateRegistry{
		ctx:      ctx,
		commands: make(map[ChangeID]Command),
	}
}

// RegisterAndExecute allocates the next ChangeID, constructs the command
// with it, stores it, and executes it — all atomically with respect to the
// Context. The id is returned even when execute fails, since it is needed
// for later undo attempts; the execute outcome is returned alongside and
// logged on failure.
func (r *StateRegistry) RegisterAndExecute(build func(id ChangeID) Command) (ChangeID, bool) {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()

	id := ChangeID(r.next)
	r.next++

	cmd := build(id)
	r.commands[id] = cmd

	ok := cmd.Execute()
	if !ok {
		r.ctx.log.WithFields(logrus.Fields{
			"change_id": id,
			"command":   fmt.Sprintf("%T", cmd),
		}).Warn("command execute failed")
	}
	return id, ok
}

// Get looks up a registered command. The returned command must only be
// invoked through Execute/Undo, which hold the Context lock; Get exists
// for inspection.
func (r *StateRegistry) Get(id ChangeID) (Command, error) {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()
	cmd, ok := r.commands[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChangeID, id)
	}
	return cmd, nil
}

// Execute re-executes a registered command, reporting the OS outcome. The
// error return is reserved for unknown ids.
func (r *StateRegistry) Execute(id ChangeID) (bool, error) {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()

	cmd, ok := r.commands[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownChangeID, id)
	}
	done := cmd.Execute()
	if !done {
		r.ctx.log.WithFields(logrus.Fields{
			"change_id": id,
			"command":   fmt.Sprintf("%T", cmd),
		}).Warn("command execute failed")
	}
	return done, nil
}

// Undo reverses a registered command, reporting the OS outcome. The entry
// stays registered so state remains queryable; commands without an internal
// snapshot keep reporting failure on repeat undo. The error return is
// reserved for unknown ids.
func (r *StateRegistry) Undo(id ChangeID) (bool, error) {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()

	cmd, ok := r.commands[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownChangeID, id)
	}
	done := cmd.Undo()
	if !done {
		r.ctx.log.WithFields(logrus.Fields{
			"change_id": id,
			"command":   fmt.Sprintf("%T", cmd),
		}).Warn("command undo failed")
	}
	return done, nil
}

// Len reports how many commands have been registered.
func (r *StateRegistry) Len() int {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()
	return len(r.commands)
}
