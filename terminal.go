package crossterm

import "fmt"

// ClearType selects which cells Clear erases.
type ClearType int

const (
	// ClearAll erases the whole surface and homes the cursor.
	ClearAll ClearType = iota
	// ClearFromCursorDown erases from the cursor to the end of the surface.
	ClearFromCursorDown
	// ClearFromCursorUp erases from the start of the surface through the
	// cursor.
	ClearFromCursorUp
	// ClearCurrentLine erases the cursor's row.
	ClearCurrentLine
	// ClearUntilNewLine erases from the cursor to the end of its row.
	ClearUntilNewLine
)

// Terminal provides whole-surface operations on the Context's active
// screen: clearing, scrolling, and sizing, plus raw-mode convenience
// wrappers over the state registry.
type Terminal struct {
	ctx *Context
}

// NewTerminal returns a terminal handle for the Context.
func NewTerminal(ctx *Context) *Terminal {
	return &Terminal{ctx: ctx}
}

// Size returns the visible window dimensions in cells.
func (t *Terminal) Size() (Coord, error) {
	info, err := t.ctx.Info()
	if err != nil {
		return Coord{}, err
	}
	return Coord{X: info.Window.Width(), Y: info.Window.Height()}, nil
}

// SetSize resizes the active surface.
func (t *Terminal) SetSize(cols, rows int) error {
	if err := checkCoord(cols, rows); err != nil {
		return err
	}
	return t.ctx.withScreen(func(con Console, h Handle) error {
		return con.SetSize(h, int16(cols), int16(rows))
	})
}

// Clear erases cells per the ClearType. The screen-buffer family fills
// character and attribute runs computed from the buffer info; the
// attribute-bits family emits the matching ED/EL sequence.
func (t *Terminal) Clear(ct ClearType) error {
	return t.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			return clearCells(con, h, ct)
		case FamilyTermAttr:
			return clearEscape(con, h, ct)
		}
		return ErrNoActiveSurface
	})
}

func clearCells(con Console, h Handle, ct ClearType) error {
	info, err := con.Info(h)
	if err != nil {
		return err
	}
	width := int(info.BufferSize.X)
	cur := info.Cursor

	var start Coord
	var count int
	switch ct {
	case ClearAll:
		start = Coord{}
		count = width * int(info.BufferSize.Y)
	case ClearFromCursorDown:
		start = cur
		count = width*int(info.BufferSize.Y-cur.Y) - int(cur.X)
	case ClearFromCursorUp:
		start = Coord{}
		count = width*int(cur.Y) + int(cur.X) + 1
	case ClearCurrentLine:
		start = Coord{X: 0, Y: cur.Y}
		count = width
	case ClearUntilNewLine:
		start = cur
		count = width - int(cur.X)
	default:
		return fmt.Errorf("crossterm: unknown clear type %d", ct)
	}

	if _, err := con.FillChar(h, ' ', count, start); err != nil {
		return err
	}
	if _, err := con.FillAttr(h, info.Attributes, count, start); err != nil {
		return err
	}
	if ct == ClearAll {
		return con.SetCursor(h, Coord{})
	}
	return nil
}

func clearEscape(con Console, h Handle, ct ClearType) error {
	var seq string
	switch ct {
	case ClearAll:
		seq = "\x1b[2J\x1b[H"
	case ClearFromCursorDown:
		seq = "\x1b[J"
	case ClearFromCursorUp:
		seq = "\x1b[1J"
	case ClearCurrentLine:
		seq = "\x1b[2K"
	case ClearUntilNewLine:
		seq = "\x1b[K"
	default:
		return fmt.Errorf("crossterm: unknown clear type %d", ct)
	}
	_, err := con.WriteText(h, []byte(seq))
	return err
}

// ScrollUp shifts the surface content up by rows, vacating the bottom. The
// screen-buffer family moves the cell block through a transfer buffer
// sized for the region; the attribute-bits family emits SU.
func (t *Terminal) ScrollUp(rows int) error {
	if rows <= 0 {
		return nil
	}
	return t.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			return scrollCells(con, h, rows)
		case FamilyTermAttr:
			_, err := con.WriteText(h, []byte(fmt.Sprintf("\x1b[%dS", rows)))
			return err
		}
		return ErrNoActiveSurface
	})
}

// ScrollDown shifts the surface content down by rows, vacating the top.
func (t *Terminal) ScrollDown(rows int) error {
	if rows <= 0 {
		return nil
	}
	return t.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			return scrollCells(con, h, -rows)
		case FamilyTermAttr:
			_, err := con.WriteText(h, []byte(fmt.Sprintf("\x1b[%dT", rows)))
			return err
		}
		return ErrNoActiveSurface
	})
}

// scrollCells moves the retained block of cells and blanks the vacated
// rows. Positive rows scroll up, negative scroll down.
func scrollCells(con Console, h Handle, rows int) error {
	info, err := con.Info(h)
	if err != nil {
		return err
	}
	width := info.BufferSize.X
	height := info.BufferSize.Y

	n := int16(rows)
	if n < 0 {
		n = -n
	}
	if n >= height {
		// everything scrolls out; blank the surface
		_, err := con.FillChar(h, ' ', int(width)*int(height), Coord{})
		return err
	}

	keep := height - n
	buf := NewCellBuffer(width, keep)

	var src, dst Rect
	var vacated Coord
	if rows > 0 { // up: keep rows n..height-1, land at the top
		src = Rect{Left: 0, Top: n, Right: width - 1, Bottom: height - 1}
		dst = Rect{Left: 0, Top: 0, Right: width - 1, Bottom: keep - 1}
		vacated = Coord{X: 0, Y: keep}
	} else { // down: keep rows 0..height-1-n, land at row n
		src = Rect{Left: 0, Top: 0, Right: width - 1, Bottom: keep - 1}
		dst = Rect{Left: 0, Top: n, Right: width - 1, Bottom: height - 1}
		vacated = Coord{X: 0, Y: 0}
	}

	if err := con.ReadCells(h, buf, Coord{}, src); err != nil {
		return err
	}
	if err := con.WriteCells(h, buf, Coord{}, dst); err != nil {
		return err
	}
	_, err = con.FillChar(h, ' ', int(width)*int(n), vacated)
	return err
}

// EnableRawMode registers and executes a RawModeCommand, delivering
// keystrokes without line buffering or echo. The returned id reverses it
// through DisableRawMode even when execute failed.
func (t *Terminal) EnableRawMode() (ChangeID, bool) {
	return t.ctx.StateRegistry().RegisterAndExecute(func(ChangeID) Command {
		return newRawModeCommand(t.ctx)
	})
}

// DisableRawMode restores the mode captured when id was executed.
func (t *Terminal) DisableRawMode(id ChangeID) bool {
	ok, err := t.ctx.StateRegistry().Undo(id)
	return ok && err == nil
}

// EnableNonCanonicalMode registers and executes the legacy bit-mask
// variant. Prefer EnableRawMode; see NonCanonicalModeCommand for the
// weaker undo guarantee.
func (t *Terminal) EnableNonCanonicalMode() (ChangeID, bool) {
	return t.ctx.StateRegistry().RegisterAndExecute(func(ChangeID) Command {
		return newNonCanonicalModeCommand(t.ctx)
	})
}

// DisableNonCanonicalMode reverses the legacy variant by inverse masking.
func (t *Terminal) DisableNonCanonicalMode(id ChangeID) bool {
	ok, err := t.ctx.StateRegistry().Undo(id)
	return ok && err == nil
}
