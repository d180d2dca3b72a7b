//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
	pcm    SampleSink
	store  Storage
}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Display: ILI9341 over
// SPI1. Audio: PWM on GP2. Media: SD card over SPI0.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	logger := &uartLogger{uart: uart}

	return &tinyGoHAL{
		logger: logger,
		fb:     newILI9341Framebuffer(),
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
		pcm:    newPWMSink(machine.GP2),
		store:  newSDStorage(logger),
	}
}

func (h *tinyGoHAL) Logger() Logger    { return h.logger }
func (h *tinyGoHAL) Display() Display  { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input      { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Audio() SampleSink { return h.pcm }
func (h *tinyGoHAL) Time() Ticker      { return h.t }
func (h *tinyGoHAL) Storage() Storage  { return h.store }

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

type stubKeyboard struct{}

func (k *stubKeyboard) Events() <-chan KeyEvent { return nil }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	_, _ = l.uart.Write([]byte(s))
	_, _ = l.uart.Write([]byte("\r\n"))
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	_, _ = l.uart.Write(b)
	_, _ = l.uart.Write([]byte("\r\n"))
}

// tinyGoTime emits 60 Hz vblank ticks from a timer goroutine.
type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) VBlanks() <-chan uint64 { return t.ch }
