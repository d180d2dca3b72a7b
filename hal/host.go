//go:build !tinygo

package hal

import (
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	pcm    SampleSink
	store  hostStorage
}

// New returns a host HAL implementation sized for the 240x160 target.
func New() HAL {
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(240, 160),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		pcm:    newHostPCM(),
		store:  hostStorage{},
	}
}

func (h *hostHAL) Logger() Logger    { return h.logger }
func (h *hostHAL) Display() Display  { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input      { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Audio() SampleSink { return h.pcm }
func (h *hostHAL) Time() Ticker      { return h.t }
func (h *hostHAL) Storage() Storage  { return h.store }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostStorage struct{}

func (hostStorage) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.WriteString(s + "\n")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}
