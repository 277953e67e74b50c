package crossterm

// RawModeCommand switches the terminal between cooked and raw input mode.
// The first successful Execute captures the pre-mutation mode; Undo
// restores that snapshot exactly, regardless of what other bits changed in
// between. This is the canonical raw-mode mechanism.
type RawModeCommand struct {
	ctx      *Context
	snapshot TerminalMode // nil while cooked
}

func newRawModeCommand(ctx *Context) *RawModeCommand {
	return &RawModeCommand{ctx: ctx}
}

// Execute reads the current mode, stores it as the restoration snapshot,
// and applies the raw variant. A no-op when already raw.
func (r *RawModeCommand) Execute() bool {
	if r.snapshot != nil {
		return true
	}
	con := r.ctx.console
	h, err := con.Input()
	if err != nil {
		r.ctx.log.WithError(err).Debug("raw mode: no input handle")
		return false
	}
	mode, err := con.Mode(h)
	if err != nil {
		r.ctx.log.WithError(err).Debug("raw mode: mode read failed")
		return false
	}
	if err := con.SetMode(h, mode.Raw()); err != nil {
		r.ctx.log.WithError(err).Debug("raw mode: mode write failed")
		return false
	}
	r.snapshot = mode
	return true
}

// Undo reapplies the captured snapshot and clears it. Fails when no
// snapshot exists, leaving OS state untouched.
func (r *RawModeCommand) Undo() bool {
	if r.snapshot == nil {
		r.ctx.log.WithError(ErrNoSnapshot).Debug("raw mode: undo without execute")
		return false
	}
	con := r.ctx.console
	h, err := con.Input()
	if err != nil {
		r.ctx.log.WithError(err).Debug("raw mode: no input handle")
		return false
	}
	if err := con.SetMode(h, r.snapshot); err != nil {
		r.ctx.log.WithError(err).Debug("raw mode: restore failed")
		return false
	}
	r.snapshot = nil
	return true
}

// NonCanonicalModeCommand toggles the canonical, echo, and read-enable bits
// directly, without capturing a snapshot: Execute clears them, Undo ORs the
// same bits back in. If anything else changed the mode word between the two
// calls, the restore is incorrect — this is a legacy variant kept for
// callers that relied on it; prefer RawModeCommand.
type NonCanonicalModeCommand struct {
	ctx *Context
}

func newNonCanonicalModeCommand(ctx *Context) *NonCanonicalModeCommand {
	return &NonCanonicalModeCommand{ctx: ctx}
}

func (n *NonCanonicalModeCommand) Execute() bool {
	return n.toggle(true)
}

func (n *NonCanonicalModeCommand) Undo() bool {
	return n.toggle(false)
}

func (n *NonCanonicalModeCommand) toggle(enabled bool) bool {
	con := n.ctx.console
	h, err := con.Input()
	if err != nil {
		n.ctx.log.WithError(err).Debug("noncanonical mode: no input handle")
		return false
	}
	if err := con.SetNonCanonical(h, enabled); err != nil {
		n.ctx.log.WithError(err).Debug("noncanonical mode: toggle failed")
		return false
	}
	return true
}
