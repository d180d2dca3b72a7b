package gbm

// HeaderSize is the fixed GBM container header size; the first frame
// starts right after it.
const HeaderSize = 0x200

// Version keys for the obfuscated bit-encoding word in each frame header.
// The containing player selects the key for the container generation.
const (
	VersionKeyGen1 uint16 = 0xD669
	VersionKeyGen3 uint16 = 0xD6AC
	VersionKeyV130 uint16 = 0x0000
)

// Decoder decodes GBM frames against a reference frame.
type Decoder struct {
	versionKey uint16
}

// NewDecoder returns a decoder using the gen1 version key.
func NewDecoder() *Decoder {
	return &Decoder{versionKey: VersionKeyGen1}
}

// SetVersionKey selects the XOR key applied to the frame headers.
func (d *Decoder) SetVersionKey(key uint16) { d.versionKey = key }

// decodeContext carries the three stream cursors and the tile offset for
// one frame.
type decodeContext struct {
	flags bitReader

	palette    []byte
	palettePos int

	payload    []byte
	payloadPos int

	dst []uint16
	ref []uint16

	blockOffset int32
}

func (c *decodeContext) readPaletteColor() uint16 {
	color := readU16(c.palette, c.palettePos)
	c.palettePos += 2
	return color
}

func (c *decodeContext) readCode() uint8 {
	code := c.payload[c.payloadPos]
	c.payloadPos++
	return code
}

// DecodeFrame decodes one frame at offset into dst and returns the offset
// of the next frame, or 0 at end of stream. A nil ref uses dst as its own
// reference; the first frame of a stream is fully self-describing.
func (d *Decoder) DecodeFrame(data []byte, offset uint32, dst, ref []uint16) uint32 {
	frameLen := readU16(data, int(offset))
	bitEnc := readU16(data, int(offset)+2)
	paletteBytes := readU16(data, int(offset)+4)

	if frameLen == 0 || frameLen == 0xFFFF {
		return 0
	}

	nextOffset := offset + 2 + uint32(frameLen)
	flagBytes := bitEnc ^ d.versionKey

	flagStart := int(offset) + 6
	palStart := flagStart + int(flagBytes)

	ctx := decodeContext{
		flags:      newBitReader(data, flagStart),
		palette:    data,
		palettePos: palStart,
		payload:    data,
		payloadPos: palStart + int(paletteBytes),
		dst:        dst,
		ref:        ref,
	}
	if ctx.ref == nil {
		ctx.ref = dst
	}

	for yBlock := int32(0); yBlock < 20; yBlock++ {
		rowOffset := yBlock * 8 * rowBytes
		for xBlock := int32(0); xBlock < 30; xBlock++ {
			ctx.blockOffset = rowOffset + xBlock*8*2
			ctx.decode8x8()
		}
	}

	return nextOffset
}

// Each shape decoder consumes a two-bit opcode: 00 copy-same, 01
// copy-offset, 10 subdivide (with a direction bit where the shape splits
// both ways), 11 delta (inner bit 0) or fill (inner bit 1). Leaf
// operations advance blockOffset by the shape's tile stride; subdivide
// paths patch the offset between halves so the parent's sibling sees the
// right starting offset.

func (c *decodeContext) decode8x8() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 8, 8)
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 8)
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode8x4()
			c.decode8x4()
		} else {
			c.decode4x8()
			c.decode4x8()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 8, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 8, 8, c.readPaletteColor())
		}
	}
}

func (c *decodeContext) decode8x4() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 4, 8)
		c.blockOffset += 0x780
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 8)
		c.blockOffset += 0x780
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode8x2()
			c.decode8x2()
		} else {
			c.decode4x4()
			c.decode4x4()
			c.blockOffset += 0x770
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 8, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 4, 8, c.readPaletteColor())
		}
		c.blockOffset += 0x780
	}
}

func (c *decodeContext) decode4x8() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 8, 4)
		c.blockOffset += 8
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 4)
		c.blockOffset += 8
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode4x4()
			c.blockOffset += 0x778
			c.decode4x4()
			c.blockOffset -= 0x780
		} else {
			c.decode2x8()
			c.decode2x8()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 4, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 8, 4, c.readPaletteColor())
		}
		c.blockOffset += 8
	}
}

func (c *decodeContext) decode2x8() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 8, 2)
		c.blockOffset += 4
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 2)
		c.blockOffset += 4
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode2x4()
			c.blockOffset += 0x77C
			c.decode2x4()
			c.blockOffset -= 0x780
		} else {
			c.decode1x8()
			c.decode1x8()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 2, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 8, 2, c.readPaletteColor())
		}
		c.blockOffset += 4
	}
}

func (c *decodeContext) decode1x8() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 8, 1)
		c.blockOffset += 2
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 1)
		c.blockOffset += 2
	case 2:
		// Single-column shape: the split direction is implicit.
		c.decode1x4()
		c.blockOffset += 0x77E
		c.decode1x4()
		c.blockOffset -= 0x780
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 8, 1, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 8, 1, c.readPaletteColor())
		}
		c.blockOffset += 2
	}
}

func (c *decodeContext) decode4x4() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 4, 4)
		c.blockOffset += 8
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 4)
		c.blockOffset += 8
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode4x2()
			c.blockOffset += 0x3B8
			c.decode4x2()
			c.blockOffset -= 0x3C0
		} else {
			c.decode2x4()
			c.decode2x4()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 4, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 4, 4, c.readPaletteColor())
		}
		c.blockOffset += 8
	}
}

func (c *decodeContext) decode8x2() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 2, 8)
		c.blockOffset += 0x3C0
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 8)
		c.blockOffset += 0x3C0
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode8x1()
			c.decode8x1()
		} else {
			c.decode4x2()
			c.decode4x2()
			c.blockOffset += 0x3B0
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 8, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 2, 8, c.readPaletteColor())
		}
		c.blockOffset += 0x3C0
	}
}

func (c *decodeContext) decode2x4() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 4, 2)
		c.blockOffset += 4
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 2)
		c.blockOffset += 4
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode2x2()
			c.blockOffset += 0x3BC
			c.decode2x2()
			c.blockOffset -= 0x3C0
		} else {
			c.decode1x4()
			c.decode1x4()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 2, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 4, 2, c.readPaletteColor())
		}
		c.blockOffset += 4
	}
}

func (c *decodeContext) decode4x2() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 2, 4)
		c.blockOffset += 8
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 4)
		c.blockOffset += 8
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode4x1()
			c.blockOffset += 0x1D8
			c.decode4x1()
			c.blockOffset -= 0x1E0
		} else {
			c.decode2x2()
			c.decode2x2()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 4, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 2, 4, c.readPaletteColor())
		}
		c.blockOffset += 8
	}
}

func (c *decodeContext) decode8x1() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 1, 8)
		c.blockOffset += 0x1E0
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 8)
		c.blockOffset += 0x1E0
	case 2:
		c.decode4x1()
		c.decode4x1()
		c.blockOffset += 0x1D0
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 8, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 1, 8, c.readPaletteColor())
		}
		c.blockOffset += 0x1E0
	}
}

func (c *decodeContext) decode1x4() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 4, 1)
		c.blockOffset += 2
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 1)
		c.blockOffset += 2
	case 2:
		c.decode1x2()
		c.blockOffset += 0x3BE
		c.decode1x2()
		c.blockOffset -= 0x3C0
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 4, 1, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 4, 1, c.readPaletteColor())
		}
		c.blockOffset += 2
	}
}

func (c *decodeContext) decode2x2() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 2, 2)
		c.blockOffset += 4
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 2)
		c.blockOffset += 4
	case 2:
		if c.flags.nextBit() == 0 {
			c.decode2x1()
			c.blockOffset += 0x1DC
			c.decode2x1()
			c.blockOffset -= 0x1E0
		} else {
			c.decode1x2()
			c.decode1x2()
		}
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 2, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 2, 2, c.readPaletteColor())
		}
		c.blockOffset += 4
	}
}

func (c *decodeContext) decode4x1() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 1, 4)
		c.blockOffset += 8
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 4)
		c.blockOffset += 8
	case 2:
		c.decode2x1()
		c.decode2x1()
	case 3:
		if c.flags.nextBit() == 0 {
			code := c.readCode()
			delta := int16(c.readPaletteColor())
			deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 4, delta)
		} else {
			fillBlock(c.dst, c.blockOffset, 1, 4, c.readPaletteColor())
		}
		c.blockOffset += 8
	}
}

// The 1x2 and 2x1 leaves encode differently: 10 is delta directly, and 11
// selects single-color fill or a pair of distinct palette colors.

func (c *decodeContext) decode1x2() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 2, 1)
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 1)
	case 2:
		code := c.readCode()
		delta := int16(c.readPaletteColor())
		deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 2, 1, delta)
	case 3:
		if c.flags.nextBit() == 0 {
			fillBlock(c.dst, c.blockOffset, 2, 1, c.readPaletteColor())
		} else {
			color0 := c.readPaletteColor()
			color1 := c.readPaletteColor()
			c.dst[c.blockOffset>>1] = color0
			c.dst[(c.blockOffset+rowBytes)>>1] = color1
		}
	}
	c.blockOffset += 2
}

func (c *decodeContext) decode2x1() {
	switch c.flags.nextTwoBits() {
	case 0:
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset, 1, 2)
	case 1:
		code := c.readCode()
		copyBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 2)
	case 2:
		code := c.readCode()
		delta := int16(c.readPaletteColor())
		deltaBlock(c.dst, c.ref, c.blockOffset, c.blockOffset+codebook[code], 1, 2, delta)
	case 3:
		if c.flags.nextBit() == 0 {
			color0 := c.readPaletteColor()
			c.dst[c.blockOffset>>1] = color0
			c.dst[(c.blockOffset>>1)+1] = color0
		} else {
			color0 := c.readPaletteColor()
			color1 := c.readPaletteColor()
			c.dst[c.blockOffset>>1] = color0
			c.dst[(c.blockOffset>>1)+1] = color1
		}
	}
	c.blockOffset += 4
}
