//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"
	"time"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// pwmSink plays submitted buffers as PWM duty updates at the stream rate.
// A fixed ~62.5 kHz carrier is modulated by a sample-rate timer loop; when
// a buffer runs dry the consumed callback fires from that loop.
type pwmSink struct {
	pin machine.Pin
	pwm pwmDevice
	ch  uint8
	top uint32

	format     PCMFormat
	onConsumed func(buffer int)

	buffer      int
	left, right []int8
	pos         int
	have        bool

	paused  bool
	started bool
	stop    chan struct{}
}

func newPWMSink(pin machine.Pin) SampleSink {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	return &pwmSink{pin: pin, pwm: pwm}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (a *pwmSink) Start(format PCMFormat, onConsumed func(buffer int)) error {
	if a == nil || a.pwm == nil {
		return ErrNotImplemented
	}
	if format.SampleRate == 0 {
		return errors.New("pwm audio: invalid sample rate")
	}
	if a.started {
		return errors.New("pwm audio: already started")
	}

	const pwmCarrierHz = 62500
	if err := a.pwm.Configure(machine.PWMConfig{Period: 1e9 / pwmCarrierHz}); err != nil {
		return err
	}
	ch, err := a.pwm.Channel(a.pin)
	if err != nil {
		return err
	}
	a.ch = ch
	a.pwm.SetTop(0xFFFF)
	a.top = a.pwm.Top()
	a.pwm.Set(a.ch, a.top/2)
	a.pwm.Enable(true)

	a.format = format
	a.onConsumed = onConsumed
	a.have = false
	a.pos = 0
	a.paused = false
	a.started = true
	a.stop = make(chan struct{})

	go a.sampleLoop(a.stop)
	return nil
}

func (a *pwmSink) Submit(buffer int, left, right []int8) {
	a.buffer = buffer
	a.left = left
	a.right = right
	a.pos = 0
	a.have = true
}

func (a *pwmSink) Pause() { a.paused = true }

func (a *pwmSink) Resume() { a.paused = false }

func (a *pwmSink) Stop() error {
	if a == nil || a.pwm == nil || !a.started {
		return nil
	}
	a.started = false
	a.have = false
	close(a.stop)
	a.pwm.Set(a.ch, a.top/2)
	a.pwm.Enable(false)
	return nil
}

func (a *pwmSink) sampleLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(a.format.SampleRate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if a.paused || !a.have {
			continue
		}

		if a.pos >= len(a.left) {
			buf := a.buffer
			a.have = false
			if a.onConsumed != nil {
				a.onConsumed(buf)
			}
			if !a.have {
				continue
			}
		}

		// Mix stereo down to the single PWM channel.
		s := int32(a.left[a.pos]) << 8
		if a.format.Channels == 2 && a.right != nil {
			s = (s + int32(a.right[a.pos])<<8) / 2
		}
		a.pos++

		u := uint32(s + 32768)
		a.pwm.Set(a.ch, (u*a.top)/65535)
	}
}
