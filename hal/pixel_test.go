package hal

import "testing"

func TestRGB555RoundTrip(t *testing.T) {
	cases := []struct{ r, g, b uint8 }{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{0x12, 0x34, 0x56},
	}
	for _, c := range cases {
		p := rgb555(c.r, c.g, c.b)
		if p&0x8000 != 0 {
			t.Errorf("rgb555(%d,%d,%d) sets bit 15", c.r, c.g, c.b)
		}
		r, g, b := rgb888From555(p)
		// 5-bit quantization loses the low 3 bits.
		if r>>3 != c.r>>3 || g>>3 != c.g>>3 || b>>3 != c.b>>3 {
			t.Errorf("round trip (%d,%d,%d) -> (%d,%d,%d)", c.r, c.g, c.b, r, g, b)
		}
	}
}

func TestRGB565From555(t *testing.T) {
	// White fills every field; the 5-bit green lands in the top of the
	// 6-bit field, so its low bit stays clear.
	if got := rgb565From555(0x7FFF); got != 0xFFDF {
		t.Errorf("white: got %#04x", got)
	}
	// Pure red (low 5 bits) lands in the 565 red field.
	if got := rgb565From555(0x001F); got != 0xF800 {
		t.Errorf("red: got %#04x", got)
	}
}
