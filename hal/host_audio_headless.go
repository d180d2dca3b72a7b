//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"sync"
	"time"
)

// headlessPCM drains submitted buffers on a wall-clock timer without
// producing sound. It keeps the buffer-consumed callback firing at the
// real stream rate so playback logic behaves as on hardware.
type headlessPCM struct {
	mu sync.Mutex

	format     PCMFormat
	onConsumed func(buffer int)

	buffer int
	length int
	have   bool

	paused  bool
	started bool

	stop chan struct{}
}

func newHostPCM() SampleSink { return &headlessPCM{} }

func (a *headlessPCM) Start(format PCMFormat, onConsumed func(buffer int)) error {
	if format.SampleRate == 0 {
		return errors.New("headless audio: invalid sample rate")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return errors.New("headless audio: already started")
	}
	a.format = format
	a.onConsumed = onConsumed
	a.have = false
	a.paused = false
	a.started = true
	a.stop = make(chan struct{})

	go a.drainLoop(a.stop)
	return nil
}

func (a *headlessPCM) Submit(buffer int, left, right []int8) {
	a.mu.Lock()
	a.buffer = buffer
	a.length = len(left)
	a.have = true
	a.mu.Unlock()
}

func (a *headlessPCM) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
}

func (a *headlessPCM) Resume() {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
}

func (a *headlessPCM) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return nil
	}
	a.started = false
	a.have = false
	close(a.stop)
	return nil
}

func (a *headlessPCM) drainLoop(stop <-chan struct{}) {
	for {
		a.mu.Lock()
		rate := a.format.SampleRate
		length := a.length
		have := a.have && !a.paused
		cb := a.onConsumed
		buf := a.buffer
		a.mu.Unlock()

		if !have || length == 0 || rate == 0 {
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
			}
			continue
		}

		d := time.Duration(length) * time.Second / time.Duration(rate)
		select {
		case <-stop:
			return
		case <-time.After(d):
		}

		a.mu.Lock()
		if a.paused {
			// Paused mid-buffer: keep it and drain it again on resume.
			a.mu.Unlock()
			continue
		}
		a.have = false
		a.mu.Unlock()
		if cb != nil {
			cb(buf)
		}
	}
}
