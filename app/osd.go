package app

import (
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"

	"ausar/hal"
	"ausar/player"
)

// osd draws the one-line playback status over the bottom of the frame.
type osd struct {
	fb hal.Framebuffer
}

func newOSD(fb hal.Framebuffer) *osd {
	return &osd{fb: fb}
}

func (o *osd) draw(audio *player.Audio) {
	var status string
	switch {
	case audio.IsPaused():
		status = "paused"
	case audio.IsFinished():
		status = "finished"
	case audio.IsPlaying():
		status = "playing"
	default:
		status = "stopped"
	}

	line := fmt.Sprintf("%s  %d/%d min  %d%%",
		status, audio.CurrentMinute(), audio.TotalMinutes(), audio.Progress())

	d := &fbDisplayer{fb: o.fb}
	tinyfont.WriteLine(d, &tinyfont.Org01, 4, int16(o.fb.Height()-4),
		line, color.RGBA{R: 0xD6, G: 0xD6, B: 0xD6, A: 0xFF})
}

// fbDisplayer adapts the HAL framebuffer to tinyfont's target interface.
type fbDisplayer struct {
	fb hal.Framebuffer
}

func (d *fbDisplayer) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB555 {
		return
	}
	buf := d.fb.Buffer()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := rgb555From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplayer) Display() error { return nil }

func rgb555From888(r, g, b uint8) uint16 {
	return uint16(r>>3) | uint16(g>>3)<<5 | uint16(b>>3)<<10
}
