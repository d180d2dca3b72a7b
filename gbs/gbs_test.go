package gbs

import (
	"encoding/binary"
	"errors"
	"testing"
)

// makeContainer builds a GBS container with the given mode and block
// payload bytes (header plus body per block).
func makeContainer(mode uint32, blocks ...[]byte) []byte {
	data := make([]byte, HeaderSize)
	copy(data[0:4], "GBAL")
	binary.LittleEndian.PutUint32(data[4:8], uint32(HeaderSize))
	copy(data[8:12], "MUSI")
	binary.LittleEndian.PutUint32(data[16:20], mode)
	for _, b := range blocks {
		data = append(data, b...)
	}
	return data
}

// makeBlock returns a block of the given size starting with header bytes.
func makeBlock(size int, header []byte) []byte {
	b := make([]byte, size)
	copy(b, header)
	return b
}

func TestParseHeaderModes(t *testing.T) {
	cases := []struct {
		mode       uint32
		rate       uint32
		channels   uint8
		blockSize  uint32
		headerSize uint32
		perBlock   uint32
	}{
		{0, 22050, 2, 0x400, 8, 1016},
		{1, 11025, 1, 0x400, 4, 2720},
		{2, 22050, 1, 0x200, 4, 1016},
		{3, 22050, 1, 0x200, 4, 2032},
		{4, 11025, 1, 0x100, 4, 1008},
	}

	for _, c := range cases {
		data := makeContainer(c.mode, make([]byte, c.blockSize))
		info, err := ParseHeader(data)
		if err != nil {
			t.Fatalf("mode %d: ParseHeader failed: %v", c.mode, err)
		}
		if info.SampleRate != c.rate {
			t.Errorf("mode %d: rate %d, want %d", c.mode, info.SampleRate, c.rate)
		}
		if info.Channels != c.channels {
			t.Errorf("mode %d: channels %d, want %d", c.mode, info.Channels, c.channels)
		}
		if info.BlockSize != c.blockSize {
			t.Errorf("mode %d: block size %d, want %d", c.mode, info.BlockSize, c.blockSize)
		}
		if info.BlockHeaderSize != c.headerSize {
			t.Errorf("mode %d: header size %d, want %d", c.mode, info.BlockHeaderSize, c.headerSize)
		}
		if info.SamplesPerBlock != c.perBlock {
			t.Errorf("mode %d: samples per block %d, want %d", c.mode, info.SamplesPerBlock, c.perBlock)
		}
		if info.TotalBlocks != 1 || info.TotalSamples != c.perBlock {
			t.Errorf("mode %d: totals %d/%d", c.mode, info.TotalBlocks, info.TotalSamples)
		}
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 64)); !errors.Is(err, ErrShortContainer) {
		t.Errorf("short header: got %v", err)
	}

	bad := makeContainer(3, make([]byte, 0x200))
	bad[0] = 'X'
	if _, err := ParseHeader(bad); !errors.Is(err, ErrBadMagic) {
		t.Errorf("bad magic: got %v", err)
	}

	bad = makeContainer(3, make([]byte, 0x200))
	copy(bad[8:12], "XXXX")
	if _, err := ParseHeader(bad); !errors.Is(err, ErrBadMagic) {
		t.Errorf("bad marker: got %v", err)
	}

	if _, err := ParseHeader(makeContainer(5, make([]byte, 0x200))); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("mode 5: got %v", err)
	}

	// Header only, zero blocks.
	if _, err := ParseHeader(makeContainer(3)); !errors.Is(err, ErrShortContainer) {
		t.Errorf("zero blocks: got %v", err)
	}
}
