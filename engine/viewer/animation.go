package viewer

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer"
)

const DefaultFrameRate float32 = 30

// Player drives a color animation from frame time. Frames run over
// [0, length); with looping off playback stops on the last frame.
type Player struct {
	anim      renderer.ColorAnimation
	frame     float32
	frameRate float32
	loop      bool
	playing   bool
}

func NewPlayer(frameRate float32, loop bool) *Player {
	if frameRate <= 0 || !math.IsFinite(frameRate) {
		frameRate = DefaultFrameRate
	}
	return &Player{frameRate: frameRate, loop: loop}
}

// Attach starts playing anim from frame 0.
func (p *Player) Attach(anim renderer.ColorAnimation) {
	p.anim = anim
	p.playing = anim != nil
	p.SetFrame(0)
}

func (p *Player) Detach() {
	p.anim = nil
	p.frame = 0
	p.playing = false
}

func (p *Player) Animation() renderer.ColorAnimation {
	return p.anim
}

func (p *Player) Play() {
	if p.anim != nil {
		p.playing = true
	}
}

func (p *Player) Pause() {
	p.playing = false
}

func (p *Player) Toggle() {
	if p.playing {
		p.Pause()
	} else {
		p.Play()
	}
}

func (p *Player) Playing() bool {
	return p.playing
}

func (p *Player) Frame() float32 {
	return p.frame
}

func (p *Player) Length() float32 {
	if p.anim == nil {
		return 0
	}
	return p.anim.Length()
}

// SetFrame seeks, wrapping or clamping the frame into range.
func (p *Player) SetFrame(frame float32) {
	if !math.IsFinite(frame) {
		return
	}
	p.frame = p.normalize(frame)
	if p.anim != nil {
		p.anim.SetFrame(p.frame)
	}
}

// Advance moves playback forward by dt seconds.
func (p *Player) Advance(dt float32) {
	if !p.playing || p.anim == nil || dt <= 0 {
		return
	}
	next := p.frame + dt*p.frameRate
	length := p.Length()
	if !p.loop && length > 0 && next >= length {
		p.playing = false
	}
	p.SetFrame(next)
}

func (p *Player) normalize(frame float32) float32 {
	length := p.Length()
	if length <= 0 {
		return 0
	}
	if p.loop {
		frame = math32.Mod(frame, length)
		if frame < 0 {
			frame += length
		}
		return frame
	}
	last := length - 1
	if last < 0 {
		last = 0
	}
	return math.Clamp(frame, 0, last)
}
