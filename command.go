package crossterm

// ChangeID uniquely identifies one registered Command within a Context.
// IDs are allocated by the StateRegistry, increase monotonically, and are
// never reused within a session.
type ChangeID uint16

// Command is one reversible terminal-state mutation. Execute applies it,
// Undo reverses it; both report whether the underlying OS call succeeded.
// Commands are owned by the StateRegistry once registered and are invoked
// only while the Context lock is held.
type Command interface {
	Execute() bool
	Undo() bool
}
