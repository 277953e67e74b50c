package crossterm

import "fmt"

// Cursor places the cursor on the Context's active surface. Multiple
// Cursor values over the same Context are safe; every operation is
// serialized by the Context lock.
type Cursor struct {
	ctx *Context

	saved    Coord
	hasSaved bool
}

// NewCursor returns a cursor handle for the Context.
func NewCursor(ctx *Context) *Cursor {
	return &Cursor{ctx: ctx}
}

// Goto moves the cursor to the zero-based cell (x, y). Coordinates outside
// [0, 32767) are rejected with ErrInvalidCoordinate before any OS call.
func (c *Cursor) Goto(x, y int) error {
	if err := checkCoord(x, y); err != nil {
		return err
	}
	return c.ctx.withScreen(func(con Console, h Handle) error {
		return con.SetCursor(h, Coord{X: int16(x), Y: int16(y)})
	})
}

// Position reports the cursor position on the active surface. Zero on the
// attribute-bits family, which cannot query it without reading input.
func (c *Cursor) Position() (Coord, error) {
	info, err := c.ctx.Info()
	if err != nil {
		return Coord{}, err
	}
	return info.Cursor, nil
}

// MoveUp moves the cursor n rows up, keeping the column.
func (c *Cursor) MoveUp(n int) error { return c.move(0, -n, 'A') }

// MoveDown moves the cursor n rows down, keeping the column.
func (c *Cursor) MoveDown(n int) error { return c.move(0, n, 'B') }

// MoveRight moves the cursor n columns right, keeping the row.
func (c *Cursor) MoveRight(n int) error { return c.move(n, 0, 'C') }

// MoveLeft moves the cursor n columns left, keeping the row.
func (c *Cursor) MoveLeft(n int) error { return c.move(-n, 0, 'D') }

// move shifts the cursor relative to its current position. The
// screen-buffer family computes the target from the buffer info query; the
// attribute-bits family emits the corresponding CUU/CUD/CUF/CUB sequence.
func (c *Cursor) move(dx, dy int, seq byte) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	return c.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			info, err := con.Info(h)
			if err != nil {
				return err
			}
			x := int(info.Cursor.X) + dx
			y := int(info.Cursor.Y) + dy
			if err := checkCoord(x, y); err != nil {
				return err
			}
			return con.SetCursor(h, Coord{X: int16(x), Y: int16(y)})
		case FamilyTermAttr:
			n := dx
			if n == 0 {
				n = dy
			}
			if n < 0 {
				n = -n
			}
			_, err := con.WriteText(h, []byte(fmt.Sprintf("\x1b[%d%c", n, seq)))
			return err
		}
		return ErrNoActiveSurface
	})
}

// Hide makes the cursor invisible.
func (c *Cursor) Hide() error {
	return c.ctx.withScreen(func(con Console, h Handle) error {
		return con.SetCursorVisible(h, false)
	})
}

// Show makes the cursor visible.
func (c *Cursor) Show() error {
	return c.ctx.withScreen(func(con Console, h Handle) error {
		return con.SetCursorVisible(h, true)
	})
}

// SavePosition remembers the current cursor position for RestorePosition.
// The attribute-bits family delegates to the terminal's own save slot.
func (c *Cursor) SavePosition() error {
	return c.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			info, err := con.Info(h)
			if err != nil {
				return err
			}
			c.saved = info.Cursor
			c.hasSaved = true
			return nil
		case FamilyTermAttr:
			_, err := con.WriteText(h, []byte("\x1b7"))
			return err
		}
		return ErrNoActiveSurface
	})
}

// RestorePosition moves the cursor back to the last saved position. A
// no-op when nothing was saved on the screen-buffer family.
func (c *Cursor) RestorePosition() error {
	return c.ctx.withScreen(func(con Console, h Handle) error {
		switch con.Family() {
		case FamilyScreenBuffer:
			if !c.hasSaved {
				return nil
			}
			return con.SetCursor(h, c.saved)
		case FamilyTermAttr:
			_, err := con.WriteText(h, []byte("\x1b8"))
			return err
		}
		return ErrNoActiveSurface
	})
}
