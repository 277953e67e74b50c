package crossterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlternateScreen_ScopedUse(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	_, err := ctx.Write([]byte("shell prompt"))
	require.NoError(t, err)

	screen, err := NewAlternateScreen(ctx)
	require.NoError(t, err)

	_, err = screen.Write([]byte("full screen ui"))
	require.NoError(t, err)
	require.NoError(t, screen.Flush())

	// the write landed on the alternate surface only
	assert.Equal(t, "shell prompt", mock.Row(mockStdout, 0))
	assert.NotEqual(t, mockStdout, mock.ActiveSurface())
	assert.Equal(t, "full screen ui", mock.Row(mock.ActiveSurface(), 0))

	require.NoError(t, screen.Close())
	assert.Equal(t, mockStdout, mock.ActiveSurface())
	assert.Equal(t, ScreenMain, ctx.ScreenTarget().Kind())
	assert.Equal(t, "shell prompt", mock.Row(mockStdout, 0))
}

func TestAlternateScreen_CloseIdempotent(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	screen, err := NewAlternateScreen(ctx)
	require.NoError(t, err)

	require.NoError(t, screen.Close())
	activations := countCalls(mock, "ActivateMain(2)")

	// a second close must not touch the console again
	require.NoError(t, screen.Close())
	assert.Equal(t, activations, countCalls(mock, "ActivateMain(2)"))
}

func TestAlternateScreen_CloseAfterManualSwitch(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	screen, err := NewAlternateScreen(ctx)
	require.NoError(t, err)

	require.True(t, screen.ToMain())
	assert.Equal(t, mockStdout, mock.ActiveSurface())

	// already back on main; Close degrades to the command's no-op undo
	require.NoError(t, screen.Close())
	assert.Equal(t, mockStdout, mock.ActiveSurface())
}

func TestAlternateScreen_ManualRoundTrips(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)

	screen, err := NewAlternateScreen(ctx)
	require.NoError(t, err)
	defer screen.Close()

	alt := mock.ActiveSurface()
	require.NotEqual(t, mockStdout, alt)

	require.True(t, screen.ToMain())
	assert.Equal(t, mockStdout, mock.ActiveSurface())

	require.True(t, screen.ToAlternate())
	assert.Equal(t, alt, mock.ActiveSurface())

	// the surface resource is reused, not reallocated
	assert.Equal(t, 1, countCalls(mock, "CreateBuffer"))
}

func TestAlternateScreen_CreationFailure(t *testing.T) {
	ctx, mock := newTestContext(t, 80, 24)
	mock.FailCreateBuffer = true

	_, err := NewAlternateScreen(ctx)
	require.Error(t, err)
	assert.Equal(t, mockStdout, mock.ActiveSurface())
	assert.Equal(t, ScreenMain, ctx.ScreenTarget().Kind())

	// the failed command is still registered for later inspection
	assert.Equal(t, 1, ctx.StateRegistry().Len())
}

func countCalls(m *MockConsole, call string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == call {
			n++
		}
	}
	return n
}
