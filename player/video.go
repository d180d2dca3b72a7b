package player

import (
	"errors"
	"sync/atomic"

	"ausar/gbm"
	"ausar/hal"
)

// Frame pacing: a 60 Hz vblank tick releases one presented frame every 6
// ticks, and one I-frame is recorded per minute of video.
const (
	FramesPerMinute = 600
	vblanksPerFrame = 6
	maxIFrameTable  = 256
)

// VideoState tracks the driver lifecycle.
type VideoState uint32

const (
	VideoIdle VideoState = iota
	VideoRunning
	VideoSeeking
)

type videoCommand uint8

const (
	cmdRestart videoCommand = iota
	cmdSeekNext
	cmdSeekPrev
)

// Video runs the foreground playback loop: it decodes one frame ahead
// into an off-screen buffer, waits for the pacing tick, presents, and
// re-syncs to the audio engine's minute signal. Seeks are handled inside
// the loop, so no decode is ever concurrent with a seek.
type Video struct {
	dec   *gbm.Decoder
	audio *Audio
	fb    hal.Framebuffer

	data []byte

	frames  [2][gbm.FramePixels]uint16
	back    int
	haveRef bool

	offset        uint32
	currentFrame  uint32
	currentMinute uint32

	targetFrame atomic.Uint32
	vblankCount uint32

	state    atomic.Uint32
	pace     chan struct{}
	commands chan videoCommand

	iframes []uint32
}

// NewVideo returns a driver presenting into fb and following audio.
func NewVideo(fb hal.Framebuffer, audio *Audio) *Video {
	return &Video{
		dec:      gbm.NewDecoder(),
		audio:    audio,
		fb:       fb,
		pace:     make(chan struct{}, 1),
		commands: make(chan videoCommand, 4),
	}
}

// Init loads a container, selects the version key and builds the I-frame
// table by a forward scan of the frame headers.
func (v *Video) Init(data []byte, versionKey uint16) error {
	if len(data) < gbm.HeaderSize+6 {
		return errors.New("player: short video container")
	}
	v.data = data
	v.dec.SetVersionKey(versionKey)
	v.buildIFrameTable()

	v.offset = gbm.HeaderSize
	v.currentFrame = 0
	v.currentMinute = 0
	v.targetFrame.Store(0)
	v.haveRef = false
	v.state.Store(uint32(VideoIdle))
	return nil
}

// State returns the driver state.
func (v *Video) State() VideoState { return VideoState(v.state.Load()) }

// CurrentFrame returns the frame counter: the stream index of the next
// frame to present. A seek sets it to the first frame of the target
// minute; a wrap resets it to 0.
func (v *Video) CurrentFrame() uint32 { return v.currentFrame }

// CurrentMinute returns the minute derived from the frame counter.
func (v *Video) CurrentMinute() uint32 { return v.currentMinute }

// TargetFrame returns the pacing counter.
func (v *Video) TargetFrame() uint32 { return v.targetFrame.Load() }

// IFrameCount returns the number of minute entry points found.
func (v *Video) IFrameCount() int { return len(v.iframes) }

// OnVBlank is the 60 Hz frame-pacing tick: every sixth invocation
// releases one frame.
func (v *Video) OnVBlank() {
	v.vblankCount++
	if v.vblankCount >= vblanksPerFrame {
		v.vblankCount = 0
		v.targetFrame.Add(1)
	}
	select {
	case v.pace <- struct{}{}:
	default:
	}
}

// Restart queues a rewind of both streams to minute 0.
func (v *Video) Restart() { v.command(cmdRestart) }

// SeekNextMinute queues a seek forward one minute, wrapping at the end.
func (v *Video) SeekNextMinute() { v.command(cmdSeekNext) }

// SeekPreviousMinute queues a seek back one minute, clamped at zero.
func (v *Video) SeekPreviousMinute() { v.command(cmdSeekPrev) }

func (v *Video) command(c videoCommand) {
	select {
	case v.commands <- c:
	default:
	}
}

// Run is the foreground loop. It returns when stop is closed.
func (v *Video) Run(stop <-chan struct{}) {
	if v.data == nil {
		return
	}
	v.state.Store(uint32(VideoRunning))
	defer v.state.Store(uint32(VideoIdle))

	wrapped := false
	for {
		select {
		case <-stop:
			return
		case c := <-v.commands:
			v.handleCommand(c)
			continue
		default:
		}

		// Decode the next frame ahead of its presentation slot.
		if int(v.offset)+6 > len(v.data) {
			if wrapped {
				return
			}
			v.wrap()
			wrapped = true
			continue
		}
		var ref []uint16
		if v.haveRef {
			ref = v.frames[v.back^1][:]
		}
		next := v.dec.DecodeFrame(v.data, v.offset, v.frames[v.back][:], ref)
		if next == 0 || int(next) > len(v.data) {
			// A stream whose first frame is already an end marker has
			// nothing to play.
			if wrapped {
				return
			}
			v.wrap()
			wrapped = true
			continue
		}
		wrapped = false

		// Await the pacing tick.
		for v.currentFrame >= v.targetFrame.Load() {
			select {
			case <-stop:
				return
			case <-v.pace:
			}
		}

		v.present(v.frames[v.back][:])
		v.currentFrame++
		v.currentMinute = v.currentFrame / FramesPerMinute
		v.back ^= 1
		v.haveRef = true
		v.offset = next

		// Coarse resync: audio leads, video follows at I-frame
		// granularity. A minute beyond the table is ignored.
		if minute, ok := v.audio.CheckMinuteSync(); ok {
			if int(minute) < len(v.iframes) {
				v.seekToMinute(minute)
			}
		}
	}
}

func (v *Video) handleCommand(c videoCommand) {
	v.state.Store(uint32(VideoSeeking))
	defer v.state.Store(uint32(VideoRunning))

	switch c {
	case cmdRestart:
		v.audio.Restart()
		v.seekToMinute(0)
	case cmdSeekNext:
		minute := v.audio.CurrentMinute() + 1
		v.seekBoth(minute)
	case cmdSeekPrev:
		minute := v.audio.CurrentMinute()
		if minute > 0 {
			minute--
		}
		v.seekBoth(minute)
	}
}

// seekBoth seeks audio first (which wraps past-the-end targets), then
// follows with the video cursor.
func (v *Video) seekBoth(minute uint32) {
	v.audio.SeekMinute(minute)
	minute = v.audio.CurrentMinute()
	if int(minute) >= len(v.iframes) {
		minute = 0
	}
	v.seekToMinute(minute)
}

func (v *Video) seekToMinute(minute uint32) {
	if int(minute) >= len(v.iframes) {
		return
	}
	v.offset = v.iframes[minute]
	v.currentFrame = minute * FramesPerMinute
	v.currentMinute = minute
	v.targetFrame.Store(v.currentFrame)
	v.haveRef = false
}

func (v *Video) wrap() {
	v.offset = gbm.HeaderSize
	v.currentFrame = 0
	v.currentMinute = 0
	v.targetFrame.Store(0)
	v.haveRef = false
}

// present blits the off-screen frame into the framebuffer, little-endian.
func (v *Video) present(frame []uint16) {
	buf := v.fb.Buffer()
	for i, p := range frame {
		buf[i*2] = byte(p)
		buf[i*2+1] = byte(p >> 8)
	}
	_ = v.fb.Present()
}

// buildIFrameTable records the offset of the first frame of each minute,
// bounded to maxIFrameTable minutes.
func (v *Video) buildIFrameTable() {
	v.iframes = v.iframes[:0]
	v.iframes = append(v.iframes, gbm.HeaderSize)

	offset := uint32(gbm.HeaderSize)
	frame := uint32(0)
	for int(offset)+6 <= len(v.data) && len(v.iframes) < maxIFrameTable {
		frameLen := uint32(v.data[offset]) | uint32(v.data[offset+1])<<8
		if frameLen == 0 || frameLen == 0xFFFF {
			break
		}
		next := offset + 2 + frameLen
		if int(next) > len(v.data) {
			break
		}
		frame++
		if frame%FramesPerMinute == 0 {
			v.iframes = append(v.iframes, next)
		}
		offset = next
	}
}
