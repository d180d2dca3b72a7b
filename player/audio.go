package player

import (
	"sync/atomic"

	"ausar/gbs"
	"ausar/hal"
)

// BufferSamples is the double-buffer swap granularity in samples per
// channel. It must be a multiple of 8 so a mode-1 sample group never
// straddles a swap. 1024 at 22050 Hz gives a ~21.5 Hz swap rate.
const BufferSamples = 1024

// AudioState tracks the engine lifecycle.
type AudioState uint32

const (
	AudioUninitialized AudioState = iota
	AudioReady
	AudioPlaying
	AudioPaused
	AudioFinished
)

// Audio is the double-buffered streaming engine. The sink drains the
// active buffer at the container rate and calls OnBufferConsumed once per
// drained buffer; the handler flips buffers, refills the drained one and
// tracks minute boundaries for A/V sync.
//
// The handler runs in the sink's tick context. Everything it shares with
// the foreground (state, active buffer, sample counters, the sync slot)
// is a single word accessed atomically; foreground mutators stop the sink
// first so no callback is in flight while they reshape decoder state.
type Audio struct {
	sink hal.SampleSink
	dec  *gbs.Decoder

	bufLeft  [2][BufferSamples]int8
	bufRight [2][BufferSamples]int8

	state  atomic.Uint32
	active atomic.Uint32

	samplesDecoded atomic.Uint32
	currentMinute  atomic.Uint32
	finished       atomic.Bool

	// syncMinute is the hand-off slot to the video driver: the refill
	// handler writes a crossed minute, CheckMinuteSync reads and clears.
	syncMinute atomic.Int32

	samplesPerMinute uint32
	nextMinuteSample uint32
}

// NewAudio returns an engine bound to a sample sink.
func NewAudio(sink hal.SampleSink) *Audio {
	a := &Audio{sink: sink}
	a.syncMinute.Store(-1)
	return a
}

// Init parses the container and arms the engine. On failure the engine
// stays uninitialized and every other operation is a no-op.
func (a *Audio) Init(data []byte) error {
	a.Shutdown()

	dec, err := gbs.NewDecoder(data)
	if err != nil {
		return err
	}
	a.dec = dec

	info := dec.Info()
	a.samplesPerMinute = info.SampleRate * 60
	a.nextMinuteSample = a.samplesPerMinute
	a.samplesDecoded.Store(0)
	a.currentMinute.Store(0)
	a.syncMinute.Store(-1)
	a.finished.Store(false)
	a.state.Store(uint32(AudioReady))
	return nil
}

// Info returns the container description, or nil before Init.
func (a *Audio) Info() *gbs.Info {
	if a.dec == nil {
		return nil
	}
	return a.dec.Info()
}

// State returns the engine state.
func (a *Audio) State() AudioState { return AudioState(a.state.Load()) }

// IsPlaying reports whether playback is underway; it stays true across a
// pause/resume cycle.
func (a *Audio) IsPlaying() bool {
	s := a.State()
	return s == AudioPlaying || s == AudioPaused
}

// IsPaused reports whether playback is paused.
func (a *Audio) IsPaused() bool { return a.State() == AudioPaused }

// IsFinished reports whether the container has been fully decoded.
func (a *Audio) IsFinished() bool {
	return a.State() == AudioFinished || a.finished.Load()
}

// Start begins playback from the current cursor. Both buffers are
// preloaded before the sink starts so the first swap finds buffer 1
// ready.
func (a *Audio) Start() {
	if a.State() != AudioReady {
		return
	}
	info := a.dec.Info()

	a.fill(0)
	a.fill(1)
	a.active.Store(0)

	if a.sink != nil {
		format := hal.PCMFormat{SampleRate: info.SampleRate, Channels: info.Channels}
		if err := a.sink.Start(format, a.OnBufferConsumed); err != nil {
			return
		}
	}
	a.state.Store(uint32(AudioPlaying))
	a.submit(0)
}

// Stop halts the sink and returns to Ready without moving the cursor.
func (a *Audio) Stop() {
	s := a.State()
	if s != AudioPlaying && s != AudioPaused && s != AudioFinished {
		return
	}
	if a.sink != nil {
		_ = a.sink.Stop()
	}
	a.state.Store(uint32(AudioReady))
}

// Pause stops the sink's clock without touching buffers or decoder state.
func (a *Audio) Pause() {
	if a.State() != AudioPlaying {
		return
	}
	if a.sink != nil {
		a.sink.Pause()
	}
	a.state.Store(uint32(AudioPaused))
}

// Resume restarts the sink on the same active buffer.
func (a *Audio) Resume() {
	if a.State() != AudioPaused {
		return
	}
	if a.sink != nil {
		a.sink.Resume()
	}
	a.state.Store(uint32(AudioPlaying))
}

// Restart rewinds to the first block and starts playing.
func (a *Audio) Restart() {
	if a.State() == AudioUninitialized {
		return
	}
	a.Stop()

	a.dec.Reset()
	a.samplesDecoded.Store(0)
	a.currentMinute.Store(0)
	a.nextMinuteSample = a.samplesPerMinute
	a.syncMinute.Store(-1)
	a.finished.Store(false)
	a.state.Store(uint32(AudioReady))

	a.Start()
}

// SeekMinute restarts playback at the block containing the given minute.
// A minute at or past the end wraps to the beginning.
func (a *Audio) SeekMinute(minute uint32) {
	if a.State() == AudioUninitialized {
		return
	}
	a.Stop()

	info := a.dec.Info()
	targetSample := minute * a.samplesPerMinute
	if targetSample >= info.TotalSamples {
		targetSample = 0
		minute = 0
	}

	targetBlock := targetSample / info.SamplesPerBlock
	if targetBlock >= info.TotalBlocks {
		targetBlock = 0
	}

	a.dec.SeekToBlock(targetBlock)
	a.samplesDecoded.Store(targetBlock * info.SamplesPerBlock)
	a.currentMinute.Store(minute)
	a.nextMinuteSample = (minute + 1) * a.samplesPerMinute
	a.syncMinute.Store(-1)
	a.finished.Store(false)
	a.state.Store(uint32(AudioReady))

	a.Start()
}

// Shutdown stops the sink and drops all decoder state.
func (a *Audio) Shutdown() {
	if a.State() == AudioUninitialized {
		return
	}
	a.Stop()
	a.dec = nil
	a.samplesDecoded.Store(0)
	a.currentMinute.Store(0)
	a.syncMinute.Store(-1)
	a.finished.Store(false)
	a.state.Store(uint32(AudioUninitialized))
}

// Progress returns playback progress as a percentage.
func (a *Audio) Progress() uint32 {
	if a.dec == nil || a.dec.Info().TotalSamples == 0 {
		return 0
	}
	return a.samplesDecoded.Load() * 100 / a.dec.Info().TotalSamples
}

// CurrentMinute returns the minute the decode cursor is in.
func (a *Audio) CurrentMinute() uint32 { return a.currentMinute.Load() }

// TotalMinutes returns the container length rounded up to whole minutes.
func (a *Audio) TotalMinutes() uint32 {
	if a.dec == nil || a.samplesPerMinute == 0 {
		return 0
	}
	total := a.dec.Info().TotalSamples
	return (total + a.samplesPerMinute - 1) / a.samplesPerMinute
}

// CheckMinuteSync returns the minute crossed since the last call, with
// read-and-clear semantics, or ok=false when no crossing is pending.
func (a *Audio) CheckMinuteSync() (minute uint32, ok bool) {
	m := a.syncMinute.Load()
	if m < 0 {
		return 0, false
	}
	a.syncMinute.Store(-1)
	return uint32(m), true
}

// OnBufferConsumed is the buffer-consumed tick: the sink has drained the
// given buffer. The other buffer is already full, so it is flipped active
// and handed over before the drained one is refilled.
func (a *Audio) OnBufferConsumed(buffer int) {
	if a.State() != AudioPlaying {
		return
	}
	if a.finished.Load() {
		if a.sink != nil {
			_ = a.sink.Stop()
		}
		a.state.Store(uint32(AudioFinished))
		return
	}

	play := a.active.Load()
	next := play ^ 1
	a.active.Store(next)
	a.submit(int(next))

	a.fill(int(play))
}

func (a *Audio) submit(buffer int) {
	if a.sink == nil {
		return
	}
	info := a.dec.Info()
	if info.Channels == 2 {
		a.sink.Submit(buffer, a.bufLeft[buffer][:], a.bufRight[buffer][:])
	} else {
		a.sink.Submit(buffer, a.bufLeft[buffer][:], nil)
	}
}

// fill decodes one buffer's worth of PCM and advances the sample and
// minute accounting.
func (a *Audio) fill(buffer int) {
	n := a.dec.Decode(a.bufLeft[buffer][:], a.bufRight[buffer][:])
	if a.dec.Finished() {
		a.finished.Store(true)
	}
	if n == 0 {
		return
	}

	decoded := a.samplesDecoded.Add(uint32(n))
	if decoded >= a.nextMinuteSample {
		minute := a.currentMinute.Add(1)
		a.nextMinuteSample += a.samplesPerMinute
		a.syncMinute.Store(int32(minute))
	}
}
