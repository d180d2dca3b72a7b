package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB555 is 15bpp: xbbbbbgggggrrrrr, bit 15 unused.
	PixelFormatRGB555 PixelFormat = iota + 1
)

// Framebuffer is a pixel buffer plus a "present" hook. The media engine
// blits one decoded frame into Buffer() and calls Present().
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// PCMFormat describes a PCM stream handed to a SampleSink.
type PCMFormat struct {
	SampleRate uint32
	Channels   uint8
}

// SampleSink drains one submitted buffer of signed 8-bit samples per
// channel at the stream rate, standing in for the sound FIFO + DMA.
//
// The sink invokes onConsumed(buffer) exactly once per fully drained
// buffer, synchronously from its own clock context; the handler is
// expected to submit the successor buffer before returning. Pause stops
// the sink's clock without discarding the partially drained buffer;
// Resume continues it.
type SampleSink interface {
	Start(format PCMFormat, onConsumed func(buffer int)) error
	Submit(buffer int, left, right []int8)
	Pause()
	Resume()
	Stop() error
}

// Ticker delivers 60 Hz vertical-blank ticks. The frame-pacing handler
// consumes one tick per callback invocation.
type Ticker interface {
	VBlanks() <-chan uint64
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeySpace
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Storage reads whole media files by name (archive images, containers).
type Storage interface {
	ReadFile(name string) ([]byte, error)
}

// HAL is the only contact point between the player and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Audio() SampleSink
	Time() Ticker
	Storage() Storage
}
