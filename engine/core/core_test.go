package core

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubsystems(t *testing.T) {
	t.Helper()
	SetLogOutput(io.Discard)
	_ = EventSystemShutdown()
	require.True(t, EventSystemInitialize())
	require.NoError(t, InputInitialize())
	t.Cleanup(func() {
		_ = InputShutdown()
		_ = EventSystemShutdown()
	})
}

func TestEventRegisterFireUnregister(t *testing.T) {
	setupSubsystems(t)

	var got []EventCode
	onKey := func(ctx EventContext) { got = append(got, ctx.Type) }

	require.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, onKey))
	assert.False(t, EventRegister(EVENT_CODE_KEY_PRESSED, onKey), "duplicate registration")

	assert.True(t, EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}))
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_RESIZED}), "nobody listens")
	assert.Equal(t, []EventCode{EVENT_CODE_KEY_PRESSED}, got)

	require.True(t, EventUnregister(EVENT_CODE_KEY_PRESSED, onKey))
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}))
	assert.Len(t, got, 1)
}

func TestEventsBeforeInitialize(t *testing.T) {
	_ = EventSystemShutdown()
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, func(EventContext) {}))
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))
}

func TestInputKeysFireEventsOnChange(t *testing.T) {
	setupSubsystems(t)

	pressed := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, func(ctx EventContext) {
		ke, ok := ctx.Data.(*KeyEvent)
		require.True(t, ok)
		assert.Equal(t, KEY_W, ke.KeyCode)
		pressed++
	})

	require.NoError(t, InputProcessKey(KEY_W, true))
	require.NoError(t, InputProcessKey(KEY_W, true))
	assert.Equal(t, 1, pressed, "repeat presses don't fire")
	assert.True(t, InputIsKeyDown(KEY_W))
	assert.False(t, InputWasKeyDown(KEY_W))

	require.NoError(t, InputUpdate(0.016))
	assert.True(t, InputWasKeyDown(KEY_W))

	require.NoError(t, InputProcessKey(KEY_W, false))
	assert.True(t, InputIsKeyUp(KEY_W))
}

func TestKeyboardShiftAlias(t *testing.T) {
	setupSubsystems(t)

	kb := Keyboard()
	assert.False(t, kb.IsKeyDown(KEY_SHIFT))
	require.NoError(t, InputProcessKey(KEY_LSHIFT, true))
	assert.True(t, kb.IsKeyDown(KEY_SHIFT))
	assert.True(t, kb.IsKeyDown(KEY_LSHIFT))
}

func TestInputMouse(t *testing.T) {
	setupSubsystems(t)

	var clicks []*MouseEvent
	EventRegister(EVENT_CODE_BUTTON_PRESSED, func(ctx EventContext) {
		clicks = append(clicks, ctx.Data.(*MouseEvent))
	})

	require.NoError(t, InputProcessMouseMove(120, 45))
	require.NoError(t, InputProcessButton(BUTTON_LEFT, true))

	x, y := InputGetMousePosition()
	assert.Equal(t, int32(120), x)
	assert.Equal(t, int32(45), y)
	require.Len(t, clicks, 1)
	assert.Equal(t, int32(120), clicks[0].PosX)
	assert.True(t, InputIsButtonDown(BUTTON_LEFT))
}

func TestInputNotInitialized(t *testing.T) {
	_ = InputShutdown()
	assert.ErrorIs(t, InputProcessKey(KEY_A, true), ErrNotInitialized)
	assert.False(t, InputIsKeyDown(KEY_A))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)

	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 100.0, m.FPS(), 1)
}

func TestParseLogLevel(t *testing.T) {
	l, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, l)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed(), "not started")
	c.Start()
	c.Update()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.0)
}
