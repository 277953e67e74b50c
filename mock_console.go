package crossterm

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// errMockFailure backs the mock's injected failures.
var errMockFailure = errors.New("injected failure")

// Mode bits tracked by the mock. The real backends have richer words; the
// mock only needs enough to observe raw/cooked transitions and the legacy
// bit-mask toggles.
const (
	mockCanonical uint32 = 1 << iota
	mockEcho
	mockReadEnable
	mockSignals
)

// mockTerminalMode is the mock's TerminalMode snapshot.
type mockTerminalMode struct {
	bits uint32
}

func (m mockTerminalMode) Raw() TerminalMode {
	bits := m.bits
	bits &^= mockCanonical | mockEcho | mockSignals
	return mockTerminalMode{bits: bits}
}

// MockConsole is a mock implementation of Console for testing. It keeps one
// cell grid per surface handle, tracks mode words per handle, and records
// every primitive call in order so tests can verify serialization.
type MockConsole struct {
	mu      sync.Mutex
	width   int16
	height  int16
	cells   map[Handle][]CharCell
	cursor  map[Handle]Coord
	modes   map[Handle]uint32
	visible bool
	active  Handle
	nextBuf Handle
	calls   []string

	// Failure injection for error-path tests.
	FailMode         bool
	FailSetMode      bool
	FailCreateBuffer bool
	FailActivate     bool
	FailWrite        bool
}

// Ensure MockConsole implements Console.
var _ Console = (*MockConsole)(nil)

// Reserved surface handles. Created buffers start after these.
const (
	mockStdin  Handle = 1
	mockStdout Handle = 2
)

// NewMockConsole creates a mock console with the given dimensions. The main
// surface is active and both standard handles resolve immediately.
func NewMockConsole(width, height int16) *MockConsole {
	m := &MockConsole{
		width:   width,
		height:  height,
		cells:   make(map[Handle][]CharCell),
		cursor:  make(map[Handle]Coord),
		modes:   make(map[Handle]uint32),
		visible: true,
		active:  mockStdout,
		nextBuf: mockStdout + 1,
	}
	m.cells[mockStdout] = m.blankGrid()
	m.modes[mockStdin] = mockCanonical | mockEcho | mockReadEnable | mockSignals
	m.modes[mockStdout] = 0
	return m
}

func (m *MockConsole) Family() ConsoleFamily { return FamilyScreenBuffer }

func (m *MockConsole) blankGrid() []CharCell {
	grid := make([]CharCell, int(m.width)*int(m.height))
	for i := range grid {
		grid[i] = CharCell{Char: ' '}
	}
	return grid
}

func (m *MockConsole) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

// Calls returns the ordered list of primitive calls seen so far.
func (m *MockConsole) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// ActiveSurface returns the handle currently designated active.
func (m *MockConsole) ActiveSurface() Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// ModeBits returns the raw mode word for a handle.
func (m *MockConsole) ModeBits(h Handle) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[h]
}

// CellAt returns the cell at (x, y) on the given surface.
func (m *MockConsole) CellAt(h Handle, x, y int16) CharCell {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.cells[h]
	if !ok || x < 0 || x >= m.width || y < 0 || y >= m.height {
		return CharCell{}
	}
	return grid[int(y)*int(m.width)+int(x)]
}

// Row returns the trimmed text content of one row on the given surface.
func (m *MockConsole) Row(h Handle, y int16) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.cells[h]
	if !ok || y < 0 || y >= m.height {
		return ""
	}
	var sb strings.Builder
	for x := int16(0); x < m.width; x++ {
		ch := grid[int(y)*int(m.width)+int(x)].Char
		if ch != 0 {
			sb.WriteRune(ch)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func (m *MockConsole) Input() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Input")
	return mockStdin, nil
}

func (m *MockConsole) Output() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Output")
	return mockStdout, nil
}

func (m *MockConsole) Mode(h Handle) (TerminalMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Mode(%d)", h)
	if m.FailMode {
		return nil, osCall("Mode", errMockFailure)
	}
	return mockTerminalMode{bits: m.modes[h]}, nil
}

func (m *MockConsole) SetMode(h Handle, mode TerminalMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetMode(%d)", h)
	if m.FailSetMode {
		return osCall("SetMode", errMockFailure)
	}
	mm, ok := mode.(mockTerminalMode)
	if !ok {
		return osCall("SetMode", errMockFailure)
	}
	m.modes[h] = mm.bits
	return nil
}

func (m *MockConsole) SetNonCanonical(h Handle, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetNonCanonical(%d, %t)", h, enabled)
	if m.FailSetMode {
		return osCall("SetNonCanonical", errMockFailure)
	}
	if enabled {
		m.modes[h] &^= mockCanonical | mockEcho | mockReadEnable
	} else {
		m.modes[h] |= mockCanonical | mockEcho | mockReadEnable
	}
	return nil
}

func (m *MockConsole) SetCursor(h Handle, pos Coord) error {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetCursor(%d, %d,%d)", h, pos.X, pos.Y)
	m.cursor[h] = pos
	return nil
}

func (m *MockConsole) SetCursorVisible(h Handle, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetCursorVisible(%d, %t)", h, visible)
	m.visible = visible
	return nil
}

func (m *MockConsole) Info(h Handle) (ScreenInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Info(%d)", h)
	return ScreenInfo{
		BufferSize: Coord{X: m.width, Y: m.height},
		Cursor:     m.cursor[h],
		Window:     Rect{Left: 0, Top: 0, Right: m.width - 1, Bottom: m.height - 1},
		MaxWindow:  Coord{X: m.width, Y: m.height},
	}, nil
}

func (m *MockConsole) CreateBuffer() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateBuffer")
	if m.FailCreateBuffer {
		return 0, osCall("CreateBuffer", errMockFailure)
	}
	h := m.nextBuf
	m.nextBuf++
	m.cells[h] = m.blankGrid()
	m.modes[h] = 0
	return h, nil
}

func (m *MockConsole) ActivateAlternate(h Handle) error {
	return m.activate("ActivateAlternate", h)
}

func (m *MockConsole) ActivateMain(h Handle) error {
	return m.activate("ActivateMain", h)
}

func (m *MockConsole) activate(op string, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("%s(%d)", op, h)
	if m.FailActivate {
		return osCall(op, errMockFailure)
	}
	if _, ok := m.cells[h]; !ok {
		return osCall(op, errMockFailure)
	}
	m.active = h
	return nil
}

func (m *MockConsole) ReadCells(h Handle, buf *CellBuffer, origin Coord, src Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ReadCells(%d)", h)
	grid, ok := m.cells[h]
	if !ok {
		return osCall("ReadCells", errMockFailure)
	}
	for y := src.Top; y <= src.Bottom; y++ {
		for x := src.Left; x <= src.Right; x++ {
			bx := origin.X + (x - src.Left)
			by := origin.Y + (y - src.Top)
			if x < 0 || x >= m.width || y < 0 || y >= m.height {
				continue
			}
			if bx < 0 || bx >= buf.Size.X || by < 0 || by >= buf.Size.Y {
				continue
			}
			*buf.At(bx, by) = grid[int(y)*int(m.width)+int(x)]
		}
	}
	return nil
}

func (m *MockConsole) WriteCells(h Handle, buf *CellBuffer, origin Coord, dst Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("WriteCells(%d)", h)
	grid, ok := m.cells[h]
	if !ok {
		return osCall("WriteCells", errMockFailure)
	}
	for y := dst.Top; y <= dst.Bottom; y++ {
		for x := dst.Left; x <= dst.Right; x++ {
			bx := origin.X + (x - dst.Left)
			by := origin.Y + (y - dst.Top)
			if x < 0 || x >= m.width || y < 0 || y >= m.height {
				continue
			}
			if bx < 0 || bx >= buf.Size.X || by < 0 || by >= buf.Size.Y {
				continue
			}
			grid[int(y)*int(m.width)+int(x)] = *buf.At(bx, by)
		}
	}
	return nil
}

func (m *MockConsole) FillChar(h Handle, ch rune, count int, pos Coord) (int, error) {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FillChar(%d, %q, %d)", h, ch, count)
	grid, ok := m.cells[h]
	if !ok {
		return 0, osCall("FillChar", errMockFailure)
	}
	start := int(pos.Y)*int(m.width) + int(pos.X)
	written := 0
	for i := start; i < len(grid) && written < count; i++ {
		grid[i].Char = ch
		written++
	}
	return written, nil
}

func (m *MockConsole) FillAttr(h Handle, attr uint16, count int, pos Coord) (int, error) {
	if err := checkCoord(int(pos.X), int(pos.Y)); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FillAttr(%d, %d, %d)", h, attr, count)
	grid, ok := m.cells[h]
	if !ok {
		return 0, osCall("FillAttr", errMockFailure)
	}
	start := int(pos.Y)*int(m.width) + int(pos.X)
	written := 0
	for i := start; i < len(grid) && written < count; i++ {
		grid[i].Attr = attr
		written++
	}
	return written, nil
}

// WriteText writes at the surface's cursor, advancing by display width so
// wide runes occupy two cells, the way real consoles lay them out.
// Malformed UTF-8 degrades per rune to U+FFFD; the byte count reported
// covers the full input.
func (m *MockConsole) WriteText(h Handle, p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("WriteText(%d, %d bytes)", h, len(p))
	if m.FailWrite {
		return 0, osCall("WriteText", errMockFailure)
	}
	grid, ok := m.cells[h]
	if !ok {
		return 0, osCall("WriteText", errMockFailure)
	}
	pos := m.cursor[h]
	for _, ch := range strings.ToValidUTF8(string(p), "�") {
		if ch == '\n' {
			pos.X = 0
			pos.Y++
			continue
		}
		w := int16(runewidth.RuneWidth(ch))
		if w == 0 {
			continue
		}
		if pos.X+w > m.width {
			pos.X = 0
			pos.Y++
		}
		if pos.Y >= m.height {
			break
		}
		idx := int(pos.Y)*int(m.width) + int(pos.X)
		grid[idx].Char = ch
		for i := int16(1); i < w; i++ {
			// continuation cell of a wide rune
			grid[idx+int(i)] = CharCell{Char: 0}
		}
		pos.X += w
	}
	m.cursor[h] = pos
	return len(p), nil
}

func (m *MockConsole) Flush(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Flush(%d)", h)
	return nil
}

func (m *MockConsole) SetSize(h Handle, cols, rows int16) error {
	if err := checkCoord(int(cols), int(rows)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetSize(%d, %dx%d)", h, cols, rows)
	m.width = cols
	m.height = rows
	for h := range m.cells {
		m.cells[h] = m.blankGrid()
	}
	return nil
}
