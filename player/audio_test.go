package player

import (
	"encoding/binary"
	"testing"

	"ausar/gbs"
	"ausar/hal"
)

// fakeSink records engine interactions; tests drive OnBufferConsumed
// directly instead of running a clock.
type fakeSink struct {
	started    bool
	format     hal.PCMFormat
	onConsumed func(buffer int)

	submitted []int
	paused    bool
	resumed   int
	stopped   int
}

func (s *fakeSink) Start(format hal.PCMFormat, onConsumed func(buffer int)) error {
	s.started = true
	s.format = format
	s.onConsumed = onConsumed
	return nil
}

func (s *fakeSink) Submit(buffer int, left, right []int8) {
	s.submitted = append(s.submitted, buffer)
}

func (s *fakeSink) Pause() { s.paused = true }

func (s *fakeSink) Resume() {
	s.paused = false
	s.resumed++
}

func (s *fakeSink) Stop() error {
	s.started = false
	s.stopped++
	return nil
}

// makeMode3Container builds a mode-3 GBS container with the given number
// of blocks (2032 samples each at 22050 Hz).
func makeMode3Container(blocks int) []byte {
	data := make([]byte, gbs.HeaderSize+blocks*0x200)
	copy(data[0:4], "GBAL")
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)))
	copy(data[8:12], "MUSI")
	binary.LittleEndian.PutUint32(data[16:20], 3)
	for b := 0; b < blocks; b++ {
		off := gbs.HeaderSize + b*0x200
		binary.LittleEndian.PutUint16(data[off:], 0x8000) // predictor
		binary.LittleEndian.PutUint16(data[off+2:], 0)    // step index
	}
	return data
}

func TestAudioInitRejectsBadContainers(t *testing.T) {
	a := NewAudio(&fakeSink{})

	if err := a.Init(make([]byte, 16)); err == nil {
		t.Error("short container should fail")
	}
	if a.State() != AudioUninitialized {
		t.Errorf("state %d, want uninitialized", a.State())
	}

	// Operations are no-ops while uninitialized.
	a.Start()
	a.Pause()
	a.Restart()
	a.SeekMinute(1)
	if a.State() != AudioUninitialized {
		t.Errorf("state %d after no-ops, want uninitialized", a.State())
	}
}

func TestAudioStartPreloadsBothBuffers(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(8)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if a.State() != AudioReady {
		t.Fatalf("state %d, want ready", a.State())
	}

	a.Start()
	if a.State() != AudioPlaying {
		t.Fatalf("state %d, want playing", a.State())
	}
	if !sink.started || sink.format.SampleRate != 22050 || sink.format.Channels != 1 {
		t.Errorf("sink format %+v", sink.format)
	}
	if len(sink.submitted) != 1 || sink.submitted[0] != 0 {
		t.Errorf("submitted %v, want [0]", sink.submitted)
	}
	if got := a.samplesDecoded.Load(); got != 2*BufferSamples {
		t.Errorf("preloaded %d samples, want %d", got, 2*BufferSamples)
	}
}

func TestBufferSwapAccounting(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(32)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Start()

	for i := 0; i < 16; i++ {
		before := a.samplesDecoded.Load()
		play := int(a.active.Load())
		sink.onConsumed(play)

		if got := a.active.Load(); got != uint32(play^1) {
			t.Fatalf("swap %d: active %d, want %d", i, got, play^1)
		}
		if got := sink.submitted[len(sink.submitted)-1]; got != play^1 {
			t.Fatalf("swap %d: submitted %d, want %d", i, got, play^1)
		}
		if got := a.samplesDecoded.Load() - before; got != BufferSamples {
			t.Fatalf("swap %d: decoded %d, want %d", i, got, BufferSamples)
		}
	}
}

func TestMinuteSyncSignalsOnceAndClears(t *testing.T) {
	// Two minutes of audio: 22050*60 samples per minute, 2032 per block.
	blocks := (2*22050*60)/2032 + 2
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(blocks)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Start()

	if _, ok := a.CheckMinuteSync(); ok {
		t.Fatal("no sync should be pending at start")
	}

	swaps := 0
	limit := 22050*60/BufferSamples + 4
	for {
		sink.onConsumed(int(a.active.Load()))
		swaps++
		if minute, ok := a.CheckMinuteSync(); ok {
			if minute != 1 {
				t.Fatalf("sync minute %d, want 1", minute)
			}
			break
		}
		if swaps > limit {
			t.Fatalf("no sync after %d swaps", swaps)
		}
	}

	if _, ok := a.CheckMinuteSync(); ok {
		t.Error("sync slot must clear after one read")
	}
	if a.CurrentMinute() != 1 {
		t.Errorf("current minute %d, want 1", a.CurrentMinute())
	}
}

func TestPauseResumeKeepsPlaying(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(8)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Start()

	a.Pause()
	if !a.IsPaused() || !a.IsPlaying() {
		t.Error("pause: want paused and still playing")
	}
	if !sink.paused {
		t.Error("pause must reach the sink")
	}

	// The tick is inert while paused.
	before := a.samplesDecoded.Load()
	sink.onConsumed(int(a.active.Load()))
	if a.samplesDecoded.Load() != before {
		t.Error("paused engine must not refill")
	}

	a.Resume()
	if a.IsPaused() || !a.IsPlaying() {
		t.Error("resume: want playing, not paused")
	}
	if sink.resumed != 1 {
		t.Error("resume must reach the sink")
	}
}

func TestSeekMinuteWrapsPastEnd(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(8)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	a.SeekMinute(99)
	if a.CurrentMinute() != 0 {
		t.Errorf("minute %d, want 0 after wrap", a.CurrentMinute())
	}
	if a.State() != AudioPlaying {
		t.Errorf("state %d, want playing after seek", a.State())
	}
}

func TestSeekZeroEqualsRestart(t *testing.T) {
	mk := func() (*Audio, *fakeSink) {
		sink := &fakeSink{}
		a := NewAudio(sink)
		if err := a.Init(makeMode3Container(64)); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		a.Start()
		for i := 0; i < 8; i++ {
			sink.onConsumed(int(a.active.Load()))
		}
		return a, sink
	}

	seek, _ := mk()
	seek.SeekMinute(0)

	restart, _ := mk()
	restart.Restart()

	if seek.samplesDecoded.Load() != restart.samplesDecoded.Load() {
		t.Errorf("samples: seek %d, restart %d",
			seek.samplesDecoded.Load(), restart.samplesDecoded.Load())
	}
	if seek.dec.BlockIndex() != restart.dec.BlockIndex() {
		t.Errorf("block: seek %d, restart %d", seek.dec.BlockIndex(), restart.dec.BlockIndex())
	}
	if seek.State() != restart.State() || seek.State() != AudioPlaying {
		t.Errorf("states: seek %d, restart %d", seek.State(), restart.State())
	}
	if seek.CurrentMinute() != 0 || restart.CurrentMinute() != 0 {
		t.Error("both paths must land on minute 0")
	}
}

func TestNaturalEndReachesFinished(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(1)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Start()

	// One block (2032 samples) is exhausted during the preload of the
	// two 1024-sample buffers; the next tick lands in Finished.
	if !a.IsFinished() {
		t.Fatal("decode should have hit the end during preload")
	}
	sink.onConsumed(int(a.active.Load()))
	if a.State() != AudioFinished {
		t.Errorf("state %d, want finished", a.State())
	}
	if sink.stopped == 0 {
		t.Error("sink must stop at the natural end")
	}

	// Restart recovers from Finished.
	a.Restart()
	if a.State() != AudioPlaying {
		t.Errorf("state %d, want playing after restart", a.State())
	}
}

func TestProgressPercent(t *testing.T) {
	sink := &fakeSink{}
	a := NewAudio(sink)
	if err := a.Init(makeMode3Container(4)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a.Start()
	// 2048 of 8128 samples decoded.
	if got := a.Progress(); got != 2048*100/8128 {
		t.Errorf("progress %d, want %d", got, 2048*100/8128)
	}
}
