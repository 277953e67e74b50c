//go:build windows

package crossterm

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

// consoleMode is the buffer-handle TerminalMode: one console mode word.
type consoleMode struct {
	mode uint32
}

// Raw returns a copy with raw-mode bits applied: line input, echo, and
// input processing off, window and virtual terminal input on.
func (m consoleMode) Raw() TerminalMode {
	raw := m.mode
	raw &^= windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT
	raw |= windows.ENABLE_EXTENDED_FLAGS | windows.ENABLE_WINDOW_INPUT | windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	return consoleMode{mode: raw}
}

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreateConsoleScreenBuffer    = kernel32.NewProc("CreateConsoleScreenBuffer")
	procSetConsoleActiveScreenBuffer = kernel32.NewProc("SetConsoleActiveScreenBuffer")
	procSetConsoleScreenBufferSize   = kernel32.NewProc("SetConsoleScreenBufferSize")
	procSetConsoleWindowInfo         = kernel32.NewProc("SetConsoleWindowInfo")
	procSetConsoleCursorInfo         = kernel32.NewProc("SetConsoleCursorInfo")
	procFillConsoleOutputCharacterW  = kernel32.NewProc("FillConsoleOutputCharacterW")
	procFillConsoleOutputAttribute   = kernel32.NewProc("FillConsoleOutputAttribute")
	procReadConsoleOutputW           = kernel32.NewProc("ReadConsoleOutputW")
	procWriteConsoleOutputW          = kernel32.NewProc("WriteConsoleOutputW")
)

// CreateConsoleScreenBuffer flag: the buffer must be TEXTMODE.
const consoleTextmodeBuffer = 0x1

// charInfo mirrors the Win32 CHAR_INFO layout for block transfers.
type charInfo struct {
	char uint16
	attr uint16
}

// consoleCursorInfo mirrors CONSOLE_CURSOR_INFO.
type consoleCursorInfo struct {
	size    uint32
	visible int32
}

// windowsConsole is the buffer-handle backend. Standard handles are
// resolved lazily and cached for the life of the console.
type windowsConsole struct {
	mu    sync.Mutex
	in    Handle
	out   Handle
	inOK  bool
	outOK bool
}

// newConsole returns the platform Console for this OS family.
func newConsole() Console {
	return &windowsConsole{}
}

func (c *windowsConsole) Family() ConsoleFamily { return FamilyScreenBuffer }

func (c *windowsConsole) Input() (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inOK {
		h, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
		if err != nil || h == windows.InvalidHandle {
			return 0, ErrHandleUnavailable
		}
		c.in = Handle(h)
		c.inOK = true
	}
	return c.in, nil
}

func (c *windowsConsole) Output() (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.outOK {
		h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
		if err != nil || h == windows.InvalidHandle {
			return 0, ErrHandleUnavailable
		}
		c.out = Handle(h)
		c.outOK = true
	}
	return c.out, nil
}

func (c *windowsConsole) Mode(h Handle) (TerminalMode, error) {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(h), &mode); err != nil {
		return nil, osCall("GetConsoleMode", err)
	}
	return consoleMode{mode: mode}, nil
}

func (c *windowsConsole) SetMode(h Handle, m TerminalMode) error {
	cm, ok := m.(consoleMode)
	if !ok {
		return osCall("SetConsoleMode", ErrNoSnapshot)
	}
	if err := windows.SetConsoleMode(windows.Handle(h), cm.mode); err != nil {
		return osCall("SetConsoleMode", err)
	}
	return nil
}

// SetNonCanonical toggles line input, echo, and processed input without a
// snapshot. Disabling ORs the same bits back in, so any bits changed in
// between are clobbered; RawModeCommand's Mode/SetMode round-trip avoids
// this.
func (c *windowsConsole) SetNonCanonical(h Handle, enabled bool) error {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(h), &mode); err != nil {
		return osCall("GetConsoleMode", err)
	}
	if enabled {
		mode &^= windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT
	} else {
		mode |= windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT
	}
	if err := windows.SetConsoleMode(windows.Handle(h), mode); err != nil {
		return osCall("SetConsoleMode", err)
	}
	return nil
}

func (c *windowsConsole) SetCursor(h Handle, pos Coord) error {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return err
	}
	coord := windows.Coord{X: pos.X, Y: pos.Y}
	if err := windows.SetConsoleCursorPosition(windows.Handle(h), coord); err != nil {
		return osCall("SetConsoleCursorPosition", err)
	}
	return nil
}

func (c *windowsConsole) SetCursorVisible(h Handle, visible bool) error {
	info := consoleCursorInfo{size: 100}
	if visible {
		info.visible = 1
	}
	r1, _, err := procSetConsoleCursorInfo.Call(uintptr(h), uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		return osCall("SetConsoleCursorInfo", err)
	}
	return nil
}

// Info fills every field from one GetConsoleScreenBufferInfo call, so the
// geometry and cursor fields cannot tear against each other.
func (c *windowsConsole) Info(h Handle) (ScreenInfo, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(h), &info); err != nil {
		return ScreenInfo{}, osCall("GetConsoleScreenBufferInfo", err)
	}
	return ScreenInfo{
		BufferSize: Coord{X: info.Size.X, Y: info.Size.Y},
		Cursor:     Coord{X: info.CursorPosition.X, Y: info.CursorPosition.Y},
		Attributes: info.Attributes,
		Window: Rect{
			Left:   info.Window.Left,
			Top:    info.Window.Top,
			Right:  info.Window.Right,
			Bottom: info.Window.Bottom,
		},
		MaxWindow: Coord{X: info.MaximumWindowSize.X, Y: info.MaximumWindowSize.Y},
	}, nil
}

func (c *windowsConsole) CreateBuffer() (Handle, error) {
	r1, _, err := procCreateConsoleScreenBuffer.Call(
		uintptr(windows.GENERIC_READ|windows.GENERIC_WRITE),
		uintptr(windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE),
		0, // default security attributes
		uintptr(consoleTextmodeBuffer),
		0,
	)
	h := windows.Handle(r1)
	if h == windows.InvalidHandle {
		return 0, osCall("CreateConsoleScreenBuffer", err)
	}
	return Handle(h), nil
}

func (c *windowsConsole) ActivateAlternate(h Handle) error {
	return c.activate(h)
}

func (c *windowsConsole) ActivateMain(h Handle) error {
	return c.activate(h)
}

func (c *windowsConsole) activate(h Handle) error {
	r1, _, err := procSetConsoleActiveScreenBuffer.Call(uintptr(h))
	if r1 == 0 {
		return osCall("SetConsoleActiveScreenBuffer", err)
	}
	return nil
}

func (c *windowsConsole) ReadCells(h Handle, buf *CellBuffer, origin Coord, src Rect) error {
	ci := make([]charInfo, len(buf.Cells))
	region := windows.SmallRect{Left: src.Left, Top: src.Top, Right: src.Right, Bottom: src.Bottom}
	r1, _, err := procReadConsoleOutputW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&ci[0])),
		coordArg(buf.Size),
		coordArg(origin),
		uintptr(unsafe.Pointer(&region)),
	)
	if r1 == 0 {
		return osCall("ReadConsoleOutput", err)
	}
	for i := range ci {
		buf.Cells[i] = CharCell{Char: rune(ci[i].char), Attr: ci[i].attr}
	}
	return nil
}

func (c *windowsConsole) WriteCells(h Handle, buf *CellBuffer, origin Coord, dst Rect) error {
	ci := make([]charInfo, len(buf.Cells))
	for i, cell := range buf.Cells {
		ch := cell.Char
		if ch > 0xFFFF {
			// CHAR_INFO holds one UTF-16 unit; astral runes degrade to the
			// documented placeholder.
			ch = '�'
		}
		ci[i] = charInfo{char: uint16(ch), attr: cell.Attr}
	}
	region := windows.SmallRect{Left: dst.Left, Top: dst.Top, Right: dst.Right, Bottom: dst.Bottom}
	r1, _, err := procWriteConsoleOutputW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&ci[0])),
		coordArg(buf.Size),
		coordArg(origin),
		uintptr(unsafe.Pointer(&region)),
	)
	if r1 == 0 {
		return osCall("WriteConsoleOutput", err)
	}
	return nil
}

func (c *windowsConsole) FillChar(h Handle, ch rune, count int, pos Coord) (int, error) {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, nil
	}
	if ch > 0xFFFF {
		ch = '�'
	}
	var written uint32
	r1, _, err := procFillConsoleOutputCharacterW.Call(
		uintptr(h),
		uintptr(uint16(ch)),
		uintptr(uint32(count)),
		coordArg(pos),
		uintptr(unsafe.Pointer(&written)),
	)
	if r1 == 0 {
		return 0, osCall("FillConsoleOutputCharacter", err)
	}
	return int(written), nil
}

func (c *windowsConsole) FillAttr(h Handle, attr uint16, count int, pos Coord) (int, error) {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, nil
	}
	var written uint32
	r1, _, err := procFillConsoleOutputAttribute.Call(
		uintptr(h),
		uintptr(attr),
		uintptr(uint32(count)),
		coordArg(pos),
		uintptr(unsafe.Pointer(&written)),
	)
	if r1 == 0 {
		return 0, osCall("FillConsoleOutputAttribute", err)
	}
	return int(written), nil
}

// WriteText converts the payload to UTF-16 and writes it at the current
// cursor position. Malformed UTF-8 degrades per rune to U+FFFD; the byte
// count reported covers the full input.
func (c *windowsConsole) WriteText(h Handle, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	text := strings.ToValidUTF8(string(p), "�")
	units := utf16.Encode([]rune(text))
	var written uint32
	if err := windows.WriteConsole(windows.Handle(h), &units[0], uint32(len(units)), &written, nil); err != nil {
		return 0, osCall("WriteConsole", err)
	}
	return len(p), nil
}

// Flush is a no-op: console writes land in the buffer synchronously.
func (c *windowsConsole) Flush(h Handle) error { return nil }

func (c *windowsConsole) SetSize(h Handle, cols, rows int16) error {
	if err := checkCoord(int(cols), int(rows)); err != nil {
		return err
	}
	r1, _, err := procSetConsoleScreenBufferSize.Call(uintptr(h), coordArg(Coord{X: cols, Y: rows}))
	if r1 == 0 {
		return osCall("SetConsoleScreenBufferSize", err)
	}
	window := windows.SmallRect{Left: 0, Top: 0, Right: cols - 1, Bottom: rows - 1}
	r1, _, err = procSetConsoleWindowInfo.Call(uintptr(h), 1, uintptr(unsafe.Pointer(&window)))
	if r1 == 0 {
		return osCall("SetConsoleWindowInfo", err)
	}
	return nil
}

// coordArg packs a COORD into the single machine word the Win32 calling
// convention expects for by-value COORD parameters.
func coordArg(c Coord) uintptr {
	return uintptr(uint32(uint16(c.X)) | uint32(uint16(c.Y))<<16)
}
