package crossterm

import "math"

// Handle identifies an OS console resource: a file descriptor on the
// termios family, a console handle on the Windows family.
type Handle uintptr

// Coord is a zero-based cell position. The console APIs cap both axes at
// the signed 16-bit range, so that is the representable range everywhere.
type Coord struct {
	X, Y int16
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	Left, Top, Right, Bottom int16
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int16 { return r.Right - r.Left + 1 }

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int16 { return r.Bottom - r.Top + 1 }

// ScreenInfo is a snapshot of the active surface, taken from a single OS
// query so geometry and cursor cannot tear against each other.
type ScreenInfo struct {
	// BufferSize is the size of the backing buffer in cells.
	BufferSize Coord
	// Cursor is the current cursor position. Zero on the termios family,
	// where querying it would require parsing a DSR reply from stdin.
	Cursor Coord
	// Attributes is the active character attribute word (Windows family).
	Attributes uint16
	// Window is the visible window within the buffer.
	Window Rect
	// MaxWindow is the largest window the display can fit.
	MaxWindow Coord
}

// CharCell is one character cell with its attribute word.
type CharCell struct {
	Char rune
	Attr uint16
}

// CellBuffer is a rectangular transfer buffer for block reads and writes.
// It is sized for the requested rectangle at construction time rather than
// a fixed capacity, so large terminals never truncate silently.
type CellBuffer struct {
	Size  Coord
	Cells []CharCell
}

// NewCellBuffer allocates a transfer buffer for a width x height block.
func NewCellBuffer(width, height int16) *CellBuffer {
	return &CellBuffer{
		Size:  Coord{X: width, Y: height},
		Cells: make([]CharCell, int(width)*int(height)),
	}
}

// At returns a pointer to the cell at (x, y) in buffer coordinates.
func (b *CellBuffer) At(x, y int16) *CharCell {
	return &b.Cells[int(y)*int(b.Size.X)+int(x)]
}

// ConsoleFamily tags the two OS console models. Code that must diverge per
// model switches on this tag explicitly instead of type-asserting a
// concrete backend.
type ConsoleFamily int

const (
	// FamilyScreenBuffer is the buffer-handle model: surfaces are OS
	// screen-buffer resources that can be created, filled, and swapped
	// (Windows consoles). MockConsole reports this family so tests cover
	// the richer contract.
	FamilyScreenBuffer ConsoleFamily = iota
	// FamilyTermAttr is the descriptor/attribute-bits model: one stream,
	// termios mode words, and escape-sequence control.
	FamilyTermAttr
)

// TerminalMode is an opaque snapshot of the terminal's mode bits. Values
// are produced by Console.Mode and are only meaningful to the Console that
// produced them.
type TerminalMode interface {
	// Raw returns a copy of the mode with raw-mode bits applied: canonical
	// input, echo, and signal processing off.
	Raw() TerminalMode
}

// Console is the per-platform primitive contract. One implementation exists
// per OS family, plus MockConsole for tests. Implementations cache the
// process's standard handles on first use and report ErrHandleUnavailable
// when the OS hands back an invalid one.
//
// Calls are not internally serialized beyond handle resolution; callers are
// expected to route mutations through a Context, which holds the lock.
type Console interface {
	// Family reports which OS console model this backend drives.
	Family() ConsoleFamily

	// Input resolves and caches the standard input handle.
	Input() (Handle, error)
	// Output resolves and caches the standard output handle.
	Output() (Handle, error)

	// Mode reads the terminal mode for the handle.
	Mode(h Handle) (TerminalMode, error)
	// SetMode applies a previously captured terminal mode.
	SetMode(h Handle, m TerminalMode) error
	// SetNonCanonical toggles the canonical, echo, and read-enable bits
	// directly. Unlike Mode/SetMode round-trips this does not snapshot:
	// enabling clears the bits, disabling ORs them back in.
	SetNonCanonical(h Handle, enabled bool) error

	// SetCursor moves the cursor. Coordinates are validated before any OS
	// call is issued.
	SetCursor(h Handle, pos Coord) error
	// SetCursorVisible shows or hides the cursor.
	SetCursorVisible(h Handle, visible bool) error
	// Info queries geometry, cursor, and attributes in one OS call.
	Info(h Handle) (ScreenInfo, error)

	// CreateBuffer allocates an alternate output surface. On the Windows
	// family this is a new console screen buffer; the termios family has no
	// separate resource and returns the output handle.
	CreateBuffer() (Handle, error)
	// ActivateAlternate makes the alternate surface the active display.
	ActivateAlternate(h Handle) error
	// ActivateMain makes the main surface the active display again.
	ActivateMain(h Handle) error

	// ReadCells copies a rectangular block of cells from the surface into
	// buf, starting at origin within buf. Windows family only.
	ReadCells(h Handle, buf *CellBuffer, origin Coord, src Rect) error
	// WriteCells copies a rectangular block of cells from buf onto the
	// surface. Windows family only.
	WriteCells(h Handle, buf *CellBuffer, origin Coord, dst Rect) error

	// FillChar writes ch into count cells starting at pos, returning the
	// number of cells actually written.
	FillChar(h Handle, ch rune, count int, pos Coord) (int, error)
	// FillAttr writes attr into count cells starting at pos, returning the
	// number of cells actually written. Windows family only.
	FillAttr(h Handle, attr uint16, count int, pos Coord) (int, error)

	// WriteText writes a byte payload at the current cursor position and
	// returns the byte count consumed. The Windows family converts to
	// UTF-16 first; malformed UTF-8 degrades per rune to U+FFFD rather
	// than failing.
	WriteText(h Handle, p []byte) (int, error)
	// Flush forces buffered output to the display. A no-op for backends
	// whose writes are already synchronous.
	Flush(h Handle) error

	// SetSize resizes the active surface.
	SetSize(h Handle, cols, rows int16) error
}

// checkCoord rejects coordinates outside [0, MaxInt16) before they reach an
// OS call.
func checkCoord(x, y int) error {
	if x < 0 || x >= math.MaxInt16 || y < 0 || y >= math.MaxInt16 {
		return ErrInvalidCoordinate
	}
	return nil
}
