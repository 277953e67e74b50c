//go:build unix

package crossterm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Control sequences used by the attribute-bits backend. These are the only
// escapes this layer emits; styling sequences come from collaborators as
// ready-to-write bytes.
const (
	escEnterAlt      = "\x1b[?1049h"
	escLeaveAlt      = "\x1b[?1049l"
	escShowCursor    = "\x1b[?25h"
	escHideCursor    = "\x1b[?25l"
	escSaveCursor    = "\x1b7"
	escRestoreCursor = "\x1b8"
)

var (
	errNoAltScreen = errors.New("terminal does not support the alternate screen")
	errNoCellIO    = errors.New("cell block transfer requires a console screen buffer")
)

// termiosMode is the attribute-bits TerminalMode: a full termios snapshot.
type termiosMode struct {
	t unix.Termios
}

// Raw returns a copy with raw-mode bits applied.
// Turn off:
//   - ECHO, ICANON, ISIG, IEXTEN: no echo, byte-at-a-time reads, no signal
//     or extended input processing
//   - IXON, ICRNL, BRKINT, INPCK, ISTRIP: no flow control, CR translation,
//     break signaling, parity checking, or bit stripping
//   - OPOST: no output processing
func (m termiosMode) Raw() TerminalMode {
	raw := m.t
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	// read returns after one byte, no timeout
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return termiosMode{t: raw}
}

// unixConsole is the attribute-bits backend: file descriptors, termios, and
// escape sequences. Standard descriptors are resolved lazily and cached for
// the life of the console.
type unixConsole struct {
	mu    sync.Mutex
	in    Handle
	out   Handle
	inOK  bool
	outOK bool
	caps  Capabilities
}

// newConsole returns the platform Console for this OS family.
func newConsole() Console {
	return &unixConsole{caps: DetectCapabilities()}
}

func (c *unixConsole) Family() ConsoleFamily { return FamilyTermAttr }

func (c *unixConsole) Input() (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inOK {
		fd := os.Stdin.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return 0, ErrHandleUnavailable
		}
		c.in = Handle(fd)
		c.inOK = true
	}
	return c.in, nil
}

func (c *unixConsole) Output() (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.outOK {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return 0, ErrHandleUnavailable
		}
		c.out = Handle(fd)
		c.outOK = true
	}
	return c.out, nil
}

func (c *unixConsole) Mode(h Handle) (TerminalMode, error) {
	t, err := unix.IoctlGetTermios(int(h), ioctlReadTermios)
	if err != nil {
		return nil, osCall("tcgetattr", err)
	}
	return termiosMode{t: *t}, nil
}

func (c *unixConsole) SetMode(h Handle, m TerminalMode) error {
	tm, ok := m.(termiosMode)
	if !ok {
		return fmt.Errorf("crossterm: terminal mode %T was not captured by this console", m)
	}
	if err := unix.IoctlSetTermios(int(h), ioctlWriteTermios, &tm.t); err != nil {
		return osCall("tcsetattr", err)
	}
	return nil
}

// SetNonCanonical toggles ICANON, ECHO, and CREAD without a snapshot.
// Disabling ORs the same bits back in, so any bits changed in between are
// clobbered; RawModeCommand's Mode/SetMode round-trip avoids this.
func (c *unixConsole) SetNonCanonical(h Handle, enabled bool) error {
	t, err := unix.IoctlGetTermios(int(h), ioctlReadTermios)
	if err != nil {
		return osCall("tcgetattr", err)
	}
	if enabled {
		t.Lflag &^= unix.ICANON | unix.ECHO | unix.CREAD
	} else {
		t.Lflag |= unix.ICANON | unix.ECHO | unix.CREAD
	}
	if err := unix.IoctlSetTermios(int(h), ioctlWriteTermios, t); err != nil {
		return osCall("tcsetattr", err)
	}
	return nil
}

func (c *unixConsole) SetCursor(h Handle, pos Coord) error {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return err
	}
	// CUP is 1-based
	_, err := c.write(h, fmt.Sprintf("\x1b[%d;%dH", pos.Y+1, pos.X+1))
	return err
}

func (c *unixConsole) SetCursorVisible(h Handle, visible bool) error {
	seq := escHideCursor
	if visible {
		seq = escShowCursor
	}
	_, err := c.write(h, seq)
	return err
}

func (c *unixConsole) Info(h Handle) (ScreenInfo, error) {
	ws, err := unix.IoctlGetWinsize(int(h), unix.TIOCGWINSZ)
	if err != nil {
		return ScreenInfo{}, osCall("TIOCGWINSZ", err)
	}
	size := Coord{X: int16(ws.Col), Y: int16(ws.Row)}
	return ScreenInfo{
		BufferSize: size,
		Window:     Rect{Left: 0, Top: 0, Right: size.X - 1, Bottom: size.Y - 1},
		MaxWindow:  size,
	}, nil
}

// CreateBuffer has no separate resource on this family: the alternate
// screen is a mode of the same descriptor.
func (c *unixConsole) CreateBuffer() (Handle, error) {
	return c.Output()
}

func (c *unixConsole) ActivateAlternate(h Handle) error {
	if !c.caps.AltScreen {
		return osCall("smcup", errNoAltScreen)
	}
	_, err := c.write(h, escEnterAlt)
	return err
}

func (c *unixConsole) ActivateMain(h Handle) error {
	if !c.caps.AltScreen {
		return osCall("rmcup", errNoAltScreen)
	}
	_, err := c.write(h, escLeaveAlt)
	return err
}

func (c *unixConsole) ReadCells(h Handle, buf *CellBuffer, origin Coord, src Rect) error {
	return osCall("read cell block", errNoCellIO)
}

func (c *unixConsole) WriteCells(h Handle, buf *CellBuffer, origin Coord, dst Rect) error {
	return osCall("write cell block", errNoCellIO)
}

// FillChar emits the run directly, preserving the caller's cursor position
// around it.
func (c *unixConsole) FillChar(h Handle, ch rune, count int, pos Coord) (int, error) {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, nil
	}
	seq := escSaveCursor +
		fmt.Sprintf("\x1b[%d;%dH", pos.Y+1, pos.X+1) +
		strings.Repeat(string(ch), count) +
		escRestoreCursor
	if _, err := c.write(h, seq); err != nil {
		return 0, err
	}
	return count, nil
}

// FillAttr cannot restyle cells in place without rewriting their contents;
// only the screen-buffer family supports it.
func (c *unixConsole) FillAttr(h Handle, attr uint16, count int, pos Coord) (int, error) {
	return 0, osCall("fill attributes", errNoCellIO)
}

func (c *unixConsole) WriteText(h Handle, p []byte) (int, error) {
	n, err := unix.Write(int(h), p)
	if err != nil {
		return 0, osCall("write", err)
	}
	return n, nil
}

// Flush is a no-op: descriptor writes are unbuffered.
func (c *unixConsole) Flush(h Handle) error { return nil }

func (c *unixConsole) SetSize(h Handle, cols, rows int16) error {
	if err := checkCoord(int(cols), int(rows)); err != nil {
		return err
	}
	_, err := c.write(h, fmt.Sprintf("\x1b[8;%d;%dt", rows, cols))
	return err
}

func (c *unixConsole) write(h Handle, s string) (int, error) {
	n, err := unix.Write(int(h), []byte(s))
	if err != nil {
		return 0, osCall("write", err)
	}
	return n, nil
}
