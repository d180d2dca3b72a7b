package gbs

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the fixed GBS container header size.
const HeaderSize = 0x200

// Magic bytes at offset 0 ("GBAL") and 8 ("MUSI").
var (
	magic  = [4]byte{'G', 'B', 'A', 'L'}
	marker = [4]byte{'M', 'U', 'S', 'I'}
)

// Mode selects the wire format of the block bodies.
type Mode uint8

const (
	ModeStereo4Bit Mode = 0 // stereo 4-bit IMA ADPCM, 22050 Hz, block 0x400
	ModeMono3Bit   Mode = 1 // mono 3-bit ADPCM, 11025 Hz, block 0x400
	ModeMono4Bit   Mode = 2 // mono 4-bit IMA ADPCM, 22050 Hz, block 0x200
	ModeMono2Bit   Mode = 3 // mono 2-bit ADPCM, 22050 Hz, block 0x200
	ModeMono2BitSm Mode = 4 // mono 2-bit ADPCM, 11025 Hz, block 0x100
)

var (
	ErrBadMagic        = errors.New("gbs: bad magic")
	ErrUnsupportedMode = errors.New("gbs: unsupported mode")
	ErrShortContainer  = errors.New("gbs: short container")
)

// Info describes a parsed GBS container.
type Info struct {
	Mode            Mode
	SampleRate      uint32
	Channels        uint8
	BlockSize       uint32
	BlockHeaderSize uint32
	TotalBlocks     uint32
	SamplesPerBlock uint32
	TotalSamples    uint32 // per channel for stereo
}

// ParseHeader validates the 512-byte container header and derives the
// per-mode layout for the block stream that follows it.
func ParseHeader(data []byte) (*Info, error) {
	if len(data) < HeaderSize {
		return nil, ErrShortContainer
	}
	if [4]byte(data[0:4]) != magic || [4]byte(data[8:12]) != marker {
		return nil, ErrBadMagic
	}

	mode := binary.LittleEndian.Uint32(data[16:20])
	if mode > 4 {
		return nil, ErrUnsupportedMode
	}

	info := &Info{Mode: Mode(mode)}
	switch info.Mode {
	case ModeStereo4Bit:
		info.SampleRate = 22050
		info.Channels = 2
		info.BlockSize = 0x400
		info.BlockHeaderSize = 8 // 4 bytes per channel
	case ModeMono3Bit:
		info.SampleRate = 11025
		info.Channels = 1
		info.BlockSize = 0x400
		info.BlockHeaderSize = 4
	case ModeMono4Bit:
		info.SampleRate = 22050
		info.Channels = 1
		info.BlockSize = 0x200
		info.BlockHeaderSize = 4
	case ModeMono2Bit:
		info.SampleRate = 22050
		info.Channels = 1
		info.BlockSize = 0x200
		info.BlockHeaderSize = 4
	case ModeMono2BitSm:
		info.SampleRate = 11025
		info.Channels = 1
		info.BlockSize = 0x100
		info.BlockHeaderSize = 4
	}

	dataPerBlock := info.BlockSize - info.BlockHeaderSize
	switch info.Mode {
	case ModeStereo4Bit:
		info.SamplesPerBlock = dataPerBlock // one L/R pair per byte
	case ModeMono3Bit:
		info.SamplesPerBlock = (dataPerBlock / 3) * 8 // 8 samples per 3 bytes
	case ModeMono4Bit:
		info.SamplesPerBlock = dataPerBlock * 2
	case ModeMono2Bit, ModeMono2BitSm:
		info.SamplesPerBlock = dataPerBlock * 4
	}

	info.TotalBlocks = (uint32(len(data)) - HeaderSize) / info.BlockSize
	info.TotalSamples = info.TotalBlocks * info.SamplesPerBlock
	if info.TotalBlocks == 0 {
		return nil, ErrShortContainer
	}
	return info, nil
}
