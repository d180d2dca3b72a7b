package gbm

// Frame geometry. Offsets into frame buffers are byte offsets (always
// even); buffers are []uint16 pixels in RGB555.
const (
	FrameWidth  = 240
	FrameHeight = 160
	FramePixels = FrameWidth * FrameHeight

	rowBytes = FrameWidth * 2
	rowWords = FrameWidth
)

func copyBlock(dst []uint16, ref []uint16, dstOff, refOff int32, rows, cols int) {
	d := int(dstOff >> 1)
	s := int(refOff >> 1)
	for r := 0; r < rows; r++ {
		copy(dst[d:d+cols], ref[s:s+cols])
		d += rowWords
		s += rowWords
	}
}

func fillBlock(dst []uint16, dstOff int32, rows, cols int, color uint16) {
	d := int(dstOff >> 1)
	for r := 0; r < rows; r++ {
		for i := 0; i < cols; i++ {
			dst[d+i] = color
		}
		d += rowWords
	}
}

// deltaBlock adds delta to every reference pixel modulo 2^16. Bit 15 is
// unused by the pixel format, so carries into it are harmless.
func deltaBlock(dst []uint16, ref []uint16, dstOff, refOff int32, rows, cols int, delta int16) {
	d := int(dstOff >> 1)
	s := int(refOff >> 1)
	for r := 0; r < rows; r++ {
		for i := 0; i < cols; i++ {
			dst[d+i] = ref[s+i] + uint16(delta)
		}
		d += rowWords
		s += rowWords
	}
}
