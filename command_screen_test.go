package crossterm

import "testing"

func TestAlternateScreenCommand_SwitchAndRevert(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	cmd := newAlternateScreenCommand(ctx)
	if !cmd.Execute() {
		t.Fatalf("Execute() = false")
	}
	if got := mock.ActiveSurface(); got == mockStdout {
		t.Errorf("active surface still the main buffer after execute")
	}
	if got := ctx.ScreenTarget().Kind(); got != ScreenAlternate {
		t.Errorf("ScreenTarget().Kind() = %d, want ScreenAlternate", got)
	}

	if !cmd.Undo() {
		t.Fatalf("Undo() = false")
	}
	if got := mock.ActiveSurface(); got != mockStdout {
		t.Errorf("active surface = %d after undo, want main buffer", got)
	}
	if got := ctx.ScreenTarget().Kind(); got != ScreenMain {
		t.Errorf("ScreenTarget().Kind() = %d, want ScreenMain", got)
	}
}

func TestAlternateScreenCommand_BufferAllocatedOnce(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	cmd := newAlternateScreenCommand(ctx)
	if !cmd.Execute() || !cmd.Undo() || !cmd.Execute() {
		t.Fatalf("execute/undo/execute cycle failed")
	}

	creates := 0
	for _, call := range mock.Calls() {
		if call == "CreateBuffer" {
			creates++
		}
	}
	if creates != 1 {
		t.Errorf("CreateBuffer called %d times, want 1", creates)
	}
}

func TestAlternateScreenCommand_NoOpWhenAlreadyThere(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	cmd := newAlternateScreenCommand(ctx)

	// undo before any execute: main is already active
	before := len(mock.Calls())
	if !cmd.Undo() {
		t.Fatalf("Undo() on main = false, want no-op success")
	}
	if got := len(mock.Calls()); got != before {
		t.Errorf("no-op undo made %d console calls", got-before)
	}

	if !cmd.Execute() {
		t.Fatalf("Execute() = false")
	}
	calls := len(mock.Calls())
	if !cmd.Execute() {
		t.Fatalf("second Execute() = false, want no-op success")
	}
	if got := len(mock.Calls()); got != calls {
		t.Errorf("no-op execute made %d extra console calls", got-calls)
	}
}

func TestAlternateScreenCommand_FailureKeepsMain(t *testing.T) {
	type tc struct {
		setup func(m *MockConsole)
	}

	tests := map[string]tc{
		"buffer creation fails": {
			setup: func(m *MockConsole) { m.FailCreateBuffer = true },
		},
		"activation fails": {
			setup: func(m *MockConsole) { m.FailActivate = true },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, mock := newTestContext(t, 80, 24)
			tt.setup(mock)

			cmd := newAlternateScreenCommand(ctx)
			if cmd.Execute() {
				t.Fatalf("Execute() = true with injected failure")
			}
			if got := mock.ActiveSurface(); got != mockStdout {
				t.Errorf("active surface = %d, want main buffer", got)
			}
			if got := ctx.ScreenTarget().Kind(); got != ScreenMain {
				t.Errorf("ScreenTarget().Kind() = %d, want ScreenMain", got)
			}
		})
	}
}
