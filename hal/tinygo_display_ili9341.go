//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ili9341"
)

// ili9341Framebuffer renders the 240x160 frame into the middle of a
// 240x320 ILI9341 panel. Present converts RGB555 to the panel's RGB565
// and pushes one full frame over SPI.
type ili9341Framebuffer struct {
	display *ili9341.Device
	buf     []byte
	out     []byte
	yOff    int16
}

func newILI9341Framebuffer() Framebuffer {
	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	})

	display := ili9341.NewSPI(machine.SPI1, machine.GP14, machine.GP13, machine.GP15)
	display.Configure(ili9341.Config{})
	display.SetRotation(ili9341.Rotation0)
	display.FillScreen(color.RGBA{A: 255})

	const width, height = 240, 160
	return &ili9341Framebuffer{
		display: display,
		buf:     make([]byte, width*height*2),
		out:     make([]byte, width*height*2),
		yOff:    (320 - height) / 2,
	}
}

func (f *ili9341Framebuffer) Width() int          { return 240 }
func (f *ili9341Framebuffer) Height() int         { return 160 }
func (f *ili9341Framebuffer) Format() PixelFormat { return PixelFormatRGB555 }
func (f *ili9341Framebuffer) StrideBytes() int    { return 240 * 2 }
func (f *ili9341Framebuffer) Buffer() []byte      { return f.buf }

func (f *ili9341Framebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb555(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *ili9341Framebuffer) Present() error {
	if f.display == nil {
		return ErrNotImplemented
	}
	// The panel wants RGB565 big-endian.
	for i := 0; i+1 < len(f.buf); i += 2 {
		p := rgb565From555(uint16(f.buf[i]) | uint16(f.buf[i+1])<<8)
		f.out[i] = byte(p >> 8)
		f.out[i+1] = byte(p)
	}
	return f.display.DrawRGBBitmap8(0, f.yOff, f.out, 240, 160)
}
