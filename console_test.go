package crossterm

import (
	"errors"
	"testing"
)

func TestRectDimensions(t *testing.T) {
	r := Rect{Left: 2, Top: 1, Right: 9, Bottom: 4}
	if got := r.Width(); got != 8 {
		t.Errorf("Width() = %d, want 8", got)
	}
	if got := r.Height(); got != 4 {
		t.Errorf("Height() = %d, want 4", got)
	}
}

func TestNewCellBuffer(t *testing.T) {
	buf := NewCellBuffer(300, 100)
	if len(buf.Cells) != 30000 {
		t.Fatalf("len(Cells) = %d, want 30000", len(buf.Cells))
	}

	buf.At(299, 99).Char = 'z'
	if got := buf.Cells[len(buf.Cells)-1].Char; got != 'z' {
		t.Errorf("last cell = %q, want 'z'", got)
	}
}

func TestCheckCoord(t *testing.T) {
	type tc struct {
		x, y int
		ok   bool
	}

	tests := map[string]tc{
		"origin":        {x: 0, y: 0, ok: true},
		"max valid":     {x: 32766, y: 32766, ok: true},
		"x at limit":    {x: 32767, y: 0, ok: false},
		"y at limit":    {x: 0, y: 32767, ok: false},
		"negative x":    {x: -1, y: 0, ok: false},
		"negative y":    {x: 0, y: -1, ok: false},
		"far oversized": {x: 1 << 20, y: 0, ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := checkCoord(tt.x, tt.y)
			if tt.ok && err != nil {
				t.Errorf("checkCoord(%d, %d) = %v, want nil", tt.x, tt.y, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("checkCoord(%d, %d) = %v, want ErrInvalidCoordinate", tt.x, tt.y, err)
			}
		})
	}
}
