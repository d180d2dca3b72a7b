package gbs

import "fmt"

// Decoder streams signed 8-bit PCM out of a GBS container held in memory.
//
// Decode performs no heap allocations; all sub-byte sample queues live in
// the Decoder itself so partially consumed groups survive across calls.
type Decoder struct {
	data []byte
	info Info

	left  ChannelState
	right ChannelState // stereo only

	blockIndex  uint32
	byteInBlock uint32
	blockOff    uint32 // offset of the current block within data

	// Mode 1 decodes 8 samples per 3-byte group; modes 3/4 decode 4 per
	// byte. The first sample of a group is emitted immediately and the
	// rest queue here.
	buffered        [8]int16
	samplesBuffered uint8

	// Mode 2 high-nibble cache.
	highNibbleSample int16
	haveHighNibble   bool

	finished bool
}

// NewDecoder parses the container header and seeds the first block.
func NewDecoder(data []byte) (*Decoder, error) {
	info, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("gbs decoder: %w", err)
	}

	d := &Decoder{data: data, info: *info}
	d.Reset()
	return d, nil
}

// Info returns the parsed container description.
func (d *Decoder) Info() *Info { return &d.info }

// Finished reports whether the block cursor has run off the container.
func (d *Decoder) Finished() bool { return d.finished }

// BlockIndex returns the current block cursor.
func (d *Decoder) BlockIndex() uint32 { return d.blockIndex }

// Reset rewinds to the first block and reseeds the channel state.
func (d *Decoder) Reset() {
	d.SeekToBlock(0)
}

// SeekToBlock positions the cursor at the start of the given block,
// clears the sub-byte sample queues and reseeds the channel state from
// that block's header. Out-of-range blocks wrap to block 0.
func (d *Decoder) SeekToBlock(block uint32) {
	if block >= d.info.TotalBlocks {
		block = 0
	}
	d.blockIndex = block
	d.byteInBlock = 0
	d.blockOff = HeaderSize + block*d.info.BlockSize
	d.samplesBuffered = 0
	d.haveHighNibble = false
	d.finished = false
	d.parseBlockHeader()
}

func (d *Decoder) parseBlockHeader() {
	block := d.data[d.blockOff:]
	if d.info.Channels == 2 {
		d.parseBlockHeaderStereo(block)
	} else {
		d.parseBlockHeaderMono(block, &d.left)
	}
}

func (d *Decoder) parseBlockHeaderMono(block []byte, ch *ChannelState) {
	predictor := uint16(block[0]) | uint16(block[1])<<8
	stepIdx := uint16(block[2]) | uint16(block[3])<<8

	// Mode 2 is IMA ADPCM with a signed predictor; the other mono modes
	// keep the unsigned range and recenter at output time.
	if d.info.Mode == ModeMono4Bit {
		ch.Predictor = int32(int16(predictor - 0x8000))
	} else {
		ch.Predictor = int32(predictor)
	}
	ch.StepIndex = int32(stepIdx)

	if d.info.Mode == ModeMono2Bit || d.info.Mode == ModeMono2BitSm {
		if ch.StepIndex > 0x160 {
			ch.StepIndex = 0x160
		}
	} else if ch.StepIndex > 88 {
		ch.StepIndex = 88
	}
}

func (d *Decoder) parseBlockHeaderStereo(block []byte) {
	predL := uint16(block[0]) | uint16(block[1])<<8
	stepL := uint16(block[2]) | uint16(block[3])<<8
	d.left.Predictor = int32(int16(predL - 0x8000))
	d.left.StepIndex = int32(stepL)
	if d.left.StepIndex > 88 {
		d.left.StepIndex = 88
	}

	predR := uint16(block[4]) | uint16(block[5])<<8
	stepR := uint16(block[6]) | uint16(block[7])<<8
	d.right.Predictor = int32(int16(predR - 0x8000))
	d.right.StepIndex = int32(stepR)
	if d.right.StepIndex > 88 {
		d.right.StepIndex = 88
	}
}

func (d *Decoder) advanceToNextBlock() {
	d.blockIndex++
	d.byteInBlock = 0
	d.blockOff += d.info.BlockSize

	if d.blockIndex >= d.info.TotalBlocks {
		d.finished = true
		return
	}
	d.parseBlockHeader()
}

// Decode fills left (and right, for stereo) with signed 8-bit samples.
// Once the container is exhausted the remainder is zero-padded. It
// returns the number of real samples decoded.
func (d *Decoder) Decode(left, right []int8) int {
	if d.finished {
		// The block cursor is past the container; only silence remains.
		for i := range left {
			left[i] = 0
		}
		if d.info.Channels == 2 {
			for i := range right {
				right[i] = 0
			}
		}
		return 0
	}

	switch d.info.Mode {
	case ModeStereo4Bit:
		return d.decodeStereo4Bit(left, right)
	case ModeMono3Bit:
		return d.decodeMono3Bit(left)
	case ModeMono4Bit:
		return d.decodeMono4Bit(left)
	case ModeMono2Bit, ModeMono2BitSm:
		return d.decodeMono2Bit(left)
	}
	for i := range left {
		left[i] = 0
	}
	return 0
}

func (d *Decoder) decodeStereo4Bit(left, right []int8) int {
	body := d.data[d.blockOff+d.info.BlockHeaderSize:]
	dataPerBlock := d.info.BlockSize - d.info.BlockHeaderSize
	bytePos := d.byteInBlock
	decoded := 0

	for i := range left {
		if d.finished {
			left[i] = 0
			right[i] = 0
			continue
		}

		if bytePos >= dataPerBlock {
			d.byteInBlock = bytePos
			d.advanceToNextBlock()
			if d.finished {
				left[i] = 0
				right[i] = 0
				continue
			}
			body = d.data[d.blockOff+d.info.BlockHeaderSize:]
			bytePos = 0
		}

		b := body[bytePos]
		bytePos++

		// Low nibble is left, high nibble is right.
		left[i] = int8(d.left.decodeIMA4(b&0x0F) >> 8)
		right[i] = int8(d.right.decodeIMA4(b>>4) >> 8)
		decoded++
	}
	d.byteInBlock = bytePos
	return decoded
}

func (d *Decoder) decodeMono3Bit(dest []int8) int {
	body := d.data[d.blockOff+d.info.BlockHeaderSize:]
	dataPerBlock := d.info.BlockSize - d.info.BlockHeaderSize
	bytePos := d.byteInBlock
	decoded := 0

	for i := range dest {
		if d.finished {
			dest[i] = 0
			continue
		}

		if d.samplesBuffered > 0 {
			dest[i] = int8(d.buffered[8-d.samplesBuffered] >> 8)
			d.samplesBuffered--
			decoded++
			continue
		}

		// A group needs three whole bytes.
		if bytePos+3 > dataPerBlock {
			d.byteInBlock = bytePos
			d.advanceToNextBlock()
			if d.finished {
				dest[i] = 0
				continue
			}
			body = d.data[d.blockOff+d.info.BlockHeaderSize:]
			bytePos = 0
		}

		packed := uint32(body[bytePos]) | uint32(body[bytePos+1])<<8 | uint32(body[bytePos+2])<<16
		bytePos += 3

		for j := 0; j < 8; j++ {
			d.buffered[j] = d.left.decode3Bit(uint8(packed & 0x07))
			packed >>= 3
		}

		dest[i] = int8(d.buffered[0] >> 8)
		d.samplesBuffered = 7
		decoded++
	}
	d.byteInBlock = bytePos
	return decoded
}

func (d *Decoder) decodeMono4Bit(dest []int8) int {
	body := d.data[d.blockOff+d.info.BlockHeaderSize:]
	dataPerBlock := d.info.BlockSize - d.info.BlockHeaderSize
	bytePos := d.byteInBlock
	decoded := 0

	for i := range dest {
		if d.finished {
			dest[i] = 0
			continue
		}

		if d.haveHighNibble {
			dest[i] = int8(d.highNibbleSample >> 8)
			d.haveHighNibble = false
			decoded++
			continue
		}

		if bytePos >= dataPerBlock {
			d.byteInBlock = bytePos
			d.advanceToNextBlock()
			if d.finished {
				dest[i] = 0
				continue
			}
			body = d.data[d.blockOff+d.info.BlockHeaderSize:]
			bytePos = 0
		}

		b := body[bytePos]
		bytePos++

		dest[i] = int8(d.left.decodeIMA4(b&0x0F) >> 8)
		decoded++

		d.highNibbleSample = d.left.decodeIMA4(b >> 4)
		d.haveHighNibble = true
	}
	d.byteInBlock = bytePos
	return decoded
}

func (d *Decoder) decodeMono2Bit(dest []int8) int {
	body := d.data[d.blockOff+d.info.BlockHeaderSize:]
	dataPerBlock := d.info.BlockSize - d.info.BlockHeaderSize
	bytePos := d.byteInBlock
	decoded := 0

	for i := range dest {
		if d.finished {
			dest[i] = 0
			continue
		}

		if d.samplesBuffered > 0 {
			dest[i] = int8(d.buffered[4-d.samplesBuffered] >> 8)
			d.samplesBuffered--
			decoded++
			continue
		}

		if bytePos >= dataPerBlock {
			d.byteInBlock = bytePos
			d.advanceToNextBlock()
			if d.finished {
				dest[i] = 0
				continue
			}
			body = d.data[d.blockOff+d.info.BlockHeaderSize:]
			bytePos = 0
		}

		b := body[bytePos]
		bytePos++

		for j := 0; j < 4; j++ {
			d.buffered[j] = d.left.decode2Bit(b & 0x03)
			b >>= 2
		}

		dest[i] = int8(d.buffered[0] >> 8)
		d.samplesBuffered = 3
		decoded++
	}
	d.byteInBlock = bytePos
	return decoded
}
