//go:build !tinygo && cgo

package hal

import (
	"errors"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// otoPCM feeds submitted sample buffers to the OS mixer through oto. The
// mixer pulls via Read; when a submitted buffer runs dry the consumed
// callback fires synchronously so the engine can hand over the successor
// before Read continues.
type otoPCM struct {
	mu sync.Mutex

	player *oto.Player

	format     PCMFormat
	onConsumed func(buffer int)

	buffer      int
	left, right []int8
	pos         int
	have        bool

	paused  bool
	started bool
}

func newHostPCM() SampleSink { return &otoPCM{} }

// The oto context is process-wide and its stream format is fixed at
// creation.
var (
	otoCtxMu    sync.Mutex
	otoCtx      *oto.Context
	otoCtxRate  uint32
	otoCtxChans uint8
)

func otoContext(format PCMFormat) (*oto.Context, error) {
	otoCtxMu.Lock()
	defer otoCtxMu.Unlock()

	if otoCtx != nil {
		if otoCtxRate != format.SampleRate || otoCtxChans != format.Channels {
			return nil, errors.New("host audio: stream format is fixed")
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(format.SampleRate),
		ChannelCount: int(format.Channels),
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	otoCtx = ctx
	otoCtxRate = format.SampleRate
	otoCtxChans = format.Channels
	return ctx, nil
}

func (a *otoPCM) Start(format PCMFormat, onConsumed func(buffer int)) error {
	if format.SampleRate == 0 || format.Channels == 0 || format.Channels > 2 {
		return errors.New("host audio: invalid format")
	}

	ctx, err := otoContext(format)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return errors.New("host audio: already started")
	}
	a.format = format
	a.onConsumed = onConsumed
	a.have = false
	a.pos = 0
	a.paused = false
	a.started = true
	a.mu.Unlock()

	a.player = ctx.NewPlayer(a)
	a.player.Play()
	return nil
}

func (a *otoPCM) Submit(buffer int, left, right []int8) {
	a.mu.Lock()
	a.buffer = buffer
	a.left = left
	a.right = right
	a.pos = 0
	a.have = true
	a.mu.Unlock()
}

func (a *otoPCM) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
}

func (a *otoPCM) Resume() {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
}

func (a *otoPCM) Stop() error {
	a.mu.Lock()
	a.started = false
	a.have = false
	a.pos = 0
	player := a.player
	a.player = nil
	a.mu.Unlock()

	// Stop may be reached from the consumed callback, i.e. from inside
	// the mixer's own Read; Close must not run on that call stack.
	if player != nil {
		go func() { _ = player.Close() }()
	}
	return nil
}

// Read converts the submitted signed 8-bit buffers into interleaved
// 16-bit PCM. It always satisfies the full request, padding silence when
// stopped, paused or starved.
func (a *otoPCM) Read(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := int(a.format.Channels)
	if ch == 0 {
		ch = 1
	}
	frameBytes := 2 * ch
	frames := len(p) / frameBytes

	w := 0
	for f := 0; f < frames; f++ {
		if !a.started || a.paused || !a.have {
			for i := 0; i < frameBytes; i++ {
				p[w+i] = 0
			}
			w += frameBytes
			continue
		}

		if a.pos >= len(a.left) {
			// Buffer drained: hand it back and pick up the successor
			// submitted by the callback.
			cb := a.onConsumed
			buf := a.buffer
			a.have = false
			a.mu.Unlock()
			if cb != nil {
				cb(buf)
			}
			a.mu.Lock()
			if !a.have {
				for i := 0; i < frameBytes; i++ {
					p[w+i] = 0
				}
				w += frameBytes
				continue
			}
		}

		l := int16(a.left[a.pos]) << 8
		p[w] = byte(uint16(l))
		p[w+1] = byte(uint16(l) >> 8)
		if ch == 2 {
			r := int16(a.right[a.pos]) << 8
			p[w+2] = byte(uint16(r))
			p[w+3] = byte(uint16(r) >> 8)
		}
		w += frameBytes
		a.pos++
	}

	return w, nil
}
