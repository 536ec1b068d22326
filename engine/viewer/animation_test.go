package viewer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAnimation struct {
	frame  float32
	length float32
}

func (a *fakeAnimation) ID() uuid.UUID          { return uuid.Nil }
func (a *fakeAnimation) SetFrame(frame float32) { a.frame = frame }
func (a *fakeAnimation) Frame() float32         { return a.frame }
func (a *fakeAnimation) Length() float32        { return a.length }

func TestPlayerLoops(t *testing.T) {
	anim := &fakeAnimation{length: 60}
	p := NewPlayer(30, true)
	p.Attach(anim)
	assert.True(t, p.Playing())

	p.Advance(1)
	assert.InDelta(t, 30, anim.Frame(), 1e-4)
	p.Advance(1.5)
	assert.InDelta(t, 15, anim.Frame(), 1e-3, "wrapped past the end")
	assert.True(t, p.Playing())
}

func TestPlayerStopsAtEndWithoutLoop(t *testing.T) {
	anim := &fakeAnimation{length: 60}
	p := NewPlayer(30, false)
	p.Attach(anim)

	p.Advance(10)
	assert.Equal(t, float32(59), anim.Frame())
	assert.False(t, p.Playing())

	p.Advance(1)
	assert.Equal(t, float32(59), anim.Frame())
}

func TestPlayerPauseAndSeek(t *testing.T) {
	anim := &fakeAnimation{length: 100}
	p := NewPlayer(0, true)
	p.Attach(anim)

	p.Pause()
	p.Advance(1)
	assert.Zero(t, anim.Frame())

	p.Toggle()
	p.Advance(0.5)
	assert.InDelta(t, DefaultFrameRate/2, anim.Frame(), 1e-4)

	p.SetFrame(-10)
	assert.InDelta(t, 90, p.Frame(), 1e-4)
	p.SetFrame(250)
	assert.InDelta(t, 50, p.Frame(), 1e-4)
}

func TestPlayerWithoutAnimation(t *testing.T) {
	p := NewPlayer(30, true)
	p.Play()
	assert.False(t, p.Playing())
	p.Advance(1)
	assert.Zero(t, p.Frame())
	assert.Zero(t, p.Length())

	p.Attach(&fakeAnimation{})
	p.Advance(1)
	assert.Zero(t, p.Frame(), "zero length animations stay on frame 0")
	p.Detach()
	assert.Nil(t, p.Animation())
}
