package crossterm

import (
	"errors"
	"testing"
)

func TestMockConsole_ImplementsInterface(t *testing.T) {
	// Compile-time check that MockConsole implements Console
	var _ Console = (*MockConsole)(nil)
}

func TestMockConsole_WriteTextAtCursor(t *testing.T) {
	type tc struct {
		cursor   Coord
		text     string
		checkX   int16
		checkY   int16
		expected rune
	}

	tests := map[string]tc{
		"ascii at origin": {
			text:     "hello",
			checkX:   1,
			checkY:   0,
			expected: 'e',
		},
		"write at position": {
			cursor:   Coord{X: 3, Y: 2},
			text:     "ab",
			checkX:   4,
			checkY:   2,
			expected: 'b',
		},
		"newline moves to next row": {
			text:     "a\nb",
			checkX:   0,
			checkY:   1,
			expected: 'b',
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMockConsole(20, 5)
			if err := m.SetCursor(mockStdout, tt.cursor); err != nil {
				t.Fatalf("SetCursor() error = %v", err)
			}
			n, err := m.WriteText(mockStdout, []byte(tt.text))
			if err != nil {
				t.Fatalf("WriteText() error = %v", err)
			}
			if n != len(tt.text) {
				t.Errorf("WriteText() = %d bytes, want %d", n, len(tt.text))
			}
			cell := m.CellAt(mockStdout, tt.checkX, tt.checkY)
			if cell.Char != tt.expected {
				t.Errorf("CellAt(%d, %d) = %q, want %q", tt.checkX, tt.checkY, cell.Char, tt.expected)
			}
		})
	}
}

func TestMockConsole_WriteTextWideRune(t *testing.T) {
	m := NewMockConsole(20, 5)
	if _, err := m.WriteText(mockStdout, []byte("世x")); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if got := m.CellAt(mockStdout, 0, 0).Char; got != '世' {
		t.Errorf("CellAt(0, 0) = %q, want %q", got, '世')
	}
	// wide rune occupies two cells; the trailing x lands at column 2
	if got := m.CellAt(mockStdout, 2, 0).Char; got != 'x' {
		t.Errorf("CellAt(2, 0) = %q, want 'x'", got)
	}
}

func TestMockConsole_WriteTextInvalidUTF8(t *testing.T) {
	m := NewMockConsole(20, 5)
	payload := []byte{'a', 0xff, 0xfe, 'b'}

	n, err := m.WriteText(mockStdout, payload)
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if n < 0 {
		t.Fatalf("WriteText() = %d, want non-negative", n)
	}
	if got := m.CellAt(mockStdout, 1, 0).Char; got != '�' {
		t.Errorf("CellAt(1, 0) = %q, want replacement placeholder", got)
	}
}

func TestMockConsole_FillCharTruncates(t *testing.T) {
	type tc struct {
		pos   Coord
		count int
		want  int
	}

	tests := map[string]tc{
		"fits exactly": {
			pos:   Coord{X: 0, Y: 4},
			count: 10,
			want:  10,
		},
		"truncated at buffer end": {
			pos:   Coord{X: 5, Y: 4},
			count: 10,
			want:  5,
		},
		"full buffer": {
			pos:   Coord{},
			count: 100,
			want:  50,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMockConsole(10, 5)
			written, err := m.FillChar(mockStdout, '#', tt.count, tt.pos)
			if err != nil {
				t.Fatalf("FillChar() error = %v", err)
			}
			if written != tt.want {
				t.Errorf("FillChar() wrote %d cells, want %d", written, tt.want)
			}
		})
	}
}

func TestMockConsole_CellBlockRoundTrip(t *testing.T) {
	m := NewMockConsole(10, 5)
	if _, err := m.WriteText(mockStdout, []byte("block")); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	buf := NewCellBuffer(5, 1)
	src := Rect{Left: 0, Top: 0, Right: 4, Bottom: 0}
	if err := m.ReadCells(mockStdout, buf, Coord{}, src); err != nil {
		t.Fatalf("ReadCells() error = %v", err)
	}
	if got := buf.At(0, 0).Char; got != 'b' {
		t.Errorf("buf.At(0, 0) = %q, want 'b'", got)
	}

	dst := Rect{Left: 0, Top: 3, Right: 4, Bottom: 3}
	if err := m.WriteCells(mockStdout, buf, Coord{}, dst); err != nil {
		t.Fatalf("WriteCells() error = %v", err)
	}
	if got := m.Row(mockStdout, 3); got != "block" {
		t.Errorf("Row(3) = %q, want %q", got, "block")
	}
}

func TestMockConsole_SetNonCanonicalToggles(t *testing.T) {
	m := NewMockConsole(10, 5)
	want := mockCanonical | mockEcho | mockReadEnable

	if err := m.SetNonCanonical(mockStdin, true); err != nil {
		t.Fatalf("SetNonCanonical(true) error = %v", err)
	}
	if bits := m.ModeBits(mockStdin); bits&want != 0 {
		t.Errorf("mode bits = %b, want canonical/echo/read cleared", bits)
	}

	if err := m.SetNonCanonical(mockStdin, false); err != nil {
		t.Fatalf("SetNonCanonical(false) error = %v", err)
	}
	if bits := m.ModeBits(mockStdin); bits&want != want {
		t.Errorf("mode bits = %b, want canonical/echo/read restored", bits)
	}
}

func TestMockConsole_CoordinateValidation(t *testing.T) {
	type tc struct {
		pos Coord
		ok  bool
	}

	tests := map[string]tc{
		"origin":     {pos: Coord{}, ok: true},
		"in range":   {pos: Coord{X: 100, Y: 200}, ok: true},
		"negative x": {pos: Coord{X: -1, Y: 0}, ok: false},
		"negative y": {pos: Coord{X: 0, Y: -5}, ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMockConsole(10, 5)
			before := len(m.Calls())
			err := m.SetCursor(mockStdout, tt.pos)
			if tt.ok && err != nil {
				t.Fatalf("SetCursor() error = %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Fatalf("SetCursor() error = %v, want ErrInvalidCoordinate", err)
				}
				// rejected before reaching the backend
				if got := len(m.Calls()); got != before {
					t.Errorf("rejected coordinate still recorded a call")
				}
			}
		})
	}
}
