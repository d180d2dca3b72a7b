package gbs

import "testing"

func TestDecodeMode3Golden(t *testing.T) {
	// One mode-3 block whose header seeds predictor 0x8000 and step
	// index 0, with an all-zero body: the predictor creeps up by the
	// smallest table delta, so the 8-bit output stays at zero for far
	// more than the first 16 samples.
	block := makeBlock(0x200, []byte{0x00, 0x80, 0x00, 0x00})
	data := makeContainer(3, block)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	if d.Info().SamplesPerBlock != 2032 {
		t.Fatalf("samples per block %d, want 2032", d.Info().SamplesPerBlock)
	}

	out := make([]int8, 2033)
	n := d.Decode(out, nil)
	if n != 2032 {
		t.Fatalf("decoded %d samples, want 2032", n)
	}
	if !d.Finished() {
		t.Fatal("decoder should be finished past the last block")
	}

	for i := 0; i < 16; i++ {
		if out[i] != 0 {
			t.Errorf("sample %d: got %d, want 0", i, out[i])
		}
	}
	if out[2032] != 0 {
		t.Errorf("padding sample: got %d, want 0", out[2032])
	}
}

func TestDecodeMode0Stereo(t *testing.T) {
	// Stereo header: left predictor 0x8000 / step 10, right predictor
	// 0x8000 / step 20; single body byte 0x2F (left nibble 0xF, right
	// nibble 0x2).
	header := []byte{0x00, 0x80, 0x0A, 0x00, 0x00, 0x80, 0x14, 0x00}
	block := makeBlock(0x400, header)
	block[8] = 0x2F
	data := makeContainer(0, block)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	left := make([]int8, 1)
	right := make([]int8, 1)
	if n := d.Decode(left, right); n != 1 {
		t.Fatalf("decoded %d, want 1", n)
	}

	wantL := ChannelState{StepIndex: 10}
	wantR := ChannelState{StepIndex: 20}
	if got, want := left[0], int8(wantL.decodeIMA4(0x0F)>>8); got != want {
		t.Errorf("left: got %d, want %d", got, want)
	}
	if got, want := right[0], int8(wantR.decodeIMA4(0x02)>>8); got != want {
		t.Errorf("right: got %d, want %d", got, want)
	}
}

func TestDecodeCrossesBlockBoundary(t *testing.T) {
	// Two mode-4 blocks with different headers. The second block's
	// header must reseed the channel state mid-decode.
	b1 := makeBlock(0x100, []byte{0x00, 0x80, 0x00, 0x00})
	b2 := makeBlock(0x100, []byte{0x00, 0x40, 0x60, 0x01})
	data := makeContainer(4, b1, b2)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	if d.Info().TotalBlocks != 2 {
		t.Fatalf("total blocks %d, want 2", d.Info().TotalBlocks)
	}
	perBlock := int(d.Info().SamplesPerBlock)

	out := make([]int8, perBlock+1)
	if n := d.Decode(out, nil); n != perBlock+1 {
		t.Fatalf("decoded %d, want %d", n, perBlock+1)
	}
	if d.BlockIndex() != 1 {
		t.Errorf("block index %d, want 1", d.BlockIndex())
	}

	// First sample of block 2: predictor 0x4000, step index 0x160,
	// code 0 lands in the zero tail, so the output is the recentered
	// predictor alone.
	want := int8(int16(0x4000-0x8000) >> 8)
	if out[perBlock] != want {
		t.Errorf("first sample of block 2: got %d, want %d", out[perBlock], want)
	}
}

func TestSeekClearsSubByteQueues(t *testing.T) {
	b1 := makeBlock(0x400, []byte{0x00, 0x80, 0x05, 0x00})
	b2 := makeBlock(0x400, []byte{0x00, 0x80, 0x07, 0x00})
	data := makeContainer(1, b1, b2)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	// Consume three samples so five of the group stay queued.
	out := make([]int8, 3)
	d.Decode(out, nil)
	if d.samplesBuffered == 0 {
		t.Fatal("expected queued samples mid-group")
	}

	d.SeekToBlock(1)
	if d.samplesBuffered != 0 || d.haveHighNibble {
		t.Error("seek must clear the sub-byte queues")
	}
	if d.BlockIndex() != 1 {
		t.Errorf("block index %d, want 1", d.BlockIndex())
	}
	if d.left.StepIndex != 7 {
		t.Errorf("step index %d, want 7 from block 2 header", d.left.StepIndex)
	}

	// Out-of-range target wraps to the start.
	d.SeekToBlock(99)
	if d.BlockIndex() != 0 {
		t.Errorf("block index %d, want 0 after wrap", d.BlockIndex())
	}
	if d.left.StepIndex != 5 {
		t.Errorf("step index %d, want 5 from block 1 header", d.left.StepIndex)
	}
}

func TestMode2HighNibblePersistsAcrossCalls(t *testing.T) {
	block := makeBlock(0x200, []byte{0x00, 0x80, 0x00, 0x00})
	block[4] = 0x4C // low nibble 0xC, high nibble 0x4
	data := makeContainer(2, block)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	// Reference decode of both nibbles in one call.
	ref := ChannelState{}
	refLo := ref.decodeIMA4(0x0C)
	refHi := ref.decodeIMA4(0x04)

	one := make([]int8, 1)
	d.Decode(one, nil)
	if got, want := one[0], int8(refLo>>8); got != want {
		t.Errorf("low nibble: got %d, want %d", got, want)
	}
	if !d.haveHighNibble {
		t.Fatal("high nibble should be cached between calls")
	}
	d.Decode(one, nil)
	if got, want := one[0], int8(refHi>>8); got != want {
		t.Errorf("high nibble: got %d, want %d", got, want)
	}
}

func TestMode1EmitsGroupsLSBFirst(t *testing.T) {
	block := makeBlock(0x400, []byte{0x00, 0x80, 0x00, 0x00})
	// One 3-byte group: codes 0..7 packed LSB-first.
	// code k occupies bits [3k+2 : 3k].
	packed := uint32(0)
	for k := uint32(0); k < 8; k++ {
		packed |= k << (3 * k)
	}
	block[4] = byte(packed)
	block[5] = byte(packed >> 8)
	block[6] = byte(packed >> 16)
	data := makeContainer(1, block)

	d, err := NewDecoder(data)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	ref := ChannelState{Predictor: 0x8000}
	want := make([]int8, 8)
	for k := uint8(0); k < 8; k++ {
		want[k] = int8(ref.decode3Bit(k) >> 8)
	}

	got := make([]int8, 8)
	for i := range got {
		one := got[i : i+1]
		d.Decode(one, nil)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
