package crossterm

// AlternateScreenCommand switches the Context between the main and
// alternate screen. On the screen-buffer family Execute allocates a new
// buffer resource once and reactivates it on later executes; on the
// attribute-bits family the "buffer" is the same descriptor and switching
// is escape-driven inside the Console.
type AlternateScreenCommand struct {
	ctx     *Context
	alt     Handle
	haveAlt bool
	active  bool
}

func newAlternateScreenCommand(ctx *Context) *AlternateScreenCommand {
	return &AlternateScreenCommand{ctx: ctx}
}

// Execute activates the alternate surface and makes it the Context's
// screen target. A no-op when already active. On failure the main screen
// stays active.
func (a *AlternateScreenCommand) Execute() bool {
	if a.active {
		return true
	}
	con := a.ctx.console
	if !a.haveAlt {
		h, err := con.CreateBuffer()
		if err != nil {
			a.ctx.log.WithError(err).Debug("alternate screen: buffer creation failed")
			return false
		}
		a.alt = h
		a.haveAlt = true
	}
	if err := con.ActivateAlternate(a.alt); err != nil {
		a.ctx.log.WithError(err).Debug("alternate screen: activation failed")
		return false
	}
	a.ctx.setScreenLocked(newAltScreen(con, a.alt))
	a.active = true
	return true
}

// Undo reactivates the main surface and restores it as the Context's
// screen target. A no-op when the main screen is already active.
func (a *AlternateScreenCommand) Undo() bool {
	if !a.active {
		return true
	}
	con := a.ctx.console
	main, err := con.Output()
	if err != nil {
		a.ctx.log.WithError(err).Debug("alternate screen: no output handle")
		return false
	}
	if err := con.ActivateMain(main); err != nil {
		a.ctx.log.WithError(err).Debug("alternate screen: deactivation failed")
		return false
	}
	a.ctx.setScreenLocked(NewMainScreen(con))
	a.active = false
	return true
}
