package crossterm

import (
	"errors"
	"sync"
	"testing"
)

func TestStateRegistry_IDsAreSequential(t *testing.T) {
	ctx, _ := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	for want := ChangeID(0); want < 5; want++ {
		id, ok := reg.RegisterAndExecute(func(ChangeID) Command {
			return newRawModeCommand(ctx)
		})
		if !ok {
			t.Fatalf("RegisterAndExecute() reported failure")
		}
		if id != want {
			t.Errorf("RegisterAndExecute() id = %d, want %d", id, want)
		}
	}
	if got := reg.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestStateRegistry_BuildReceivesAssignedID(t *testing.T) {
	ctx, _ := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	var seen ChangeID
	id, _ := reg.RegisterAndExecute(func(assigned ChangeID) Command {
		seen = assigned
		return newRawModeCommand(ctx)
	})
	if seen != id {
		t.Errorf("build saw id %d, registry returned %d", seen, id)
	}
}

func TestStateRegistry_UnknownID(t *testing.T) {
	ctx, _ := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	if _, err := reg.Get(42); !errors.Is(err, ErrUnknownChangeID) {
		t.Errorf("Get(42) error = %v, want ErrUnknownChangeID", err)
	}
	if _, err := reg.Execute(42); !errors.Is(err, ErrUnknownChangeID) {
		t.Errorf("Execute(42) error = %v, want ErrUnknownChangeID", err)
	}
	if _, err := reg.Undo(42); !errors.Is(err, ErrUnknownChangeID) {
		t.Errorf("Undo(42) error = %v, want ErrUnknownChangeID", err)
	}
}

func TestStateRegistry_EntrySurvivesUndo(t *testing.T) {
	ctx, _ := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	id, ok := reg.RegisterAndExecute(func(ChangeID) Command {
		return newRawModeCommand(ctx)
	})
	if !ok {
		t.Fatalf("RegisterAndExecute() reported failure")
	}

	if ok, err := reg.Undo(id); err != nil || !ok {
		t.Fatalf("Undo() = %t, %v", ok, err)
	}
	if _, err := reg.Get(id); err != nil {
		t.Errorf("Get() after undo error = %v, want entry retained", err)
	}

	// re-execute through the same id
	if ok, err := reg.Execute(id); err != nil || !ok {
		t.Errorf("Execute() after undo = %t, %v", ok, err)
	}
}

func TestStateRegistry_FailedExecuteStillRegisters(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	mock.FailSetMode = true
	id, ok := reg.RegisterAndExecute(func(ChangeID) Command {
		return newRawModeCommand(ctx)
	})
	if ok {
		t.Fatalf("RegisterAndExecute() = true, want failure")
	}

	// the id stays usable once the fault clears
	mock.FailSetMode = false
	if ok, err := reg.Execute(id); err != nil || !ok {
		t.Errorf("Execute() after fault cleared = %t, %v", ok, err)
	}
}

func TestStateRegistry_ConcurrentRegistration(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)
	reg := ctx.StateRegistry()

	const workers = 8
	ids := make(chan ChangeID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _ := reg.RegisterAndExecute(func(ChangeID) Command {
				if i%2 == 0 {
					return newRawModeCommand(ctx)
				}
				return newNonCanonicalModeCommand(ctx)
			})
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[ChangeID]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate ChangeID %d", id)
		}
		seen[id] = true
	}
	if len(seen) != workers {
		t.Fatalf("got %d distinct ids, want %d", len(seen), workers)
	}

	// each command's primitive calls must form a contiguous block: a mode
	// read is immediately followed by its own mode write
	calls := mock.Calls()
	for i, call := range calls {
		if call == "Mode(1)" {
			if i+1 >= len(calls) || calls[i+1] != "SetMode(1)" {
				t.Fatalf("Mode at call %d not followed by SetMode: %v", i, calls)
			}
		}
	}
}
