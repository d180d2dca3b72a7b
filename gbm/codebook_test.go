package gbm

import "testing"

func TestCodebookLayout(t *testing.T) {
	// 16 rows of 16 entries: rows step by one row stride, columns by one
	// pixel, centered at entry 0x88.
	for i := 0; i < 256; i++ {
		want := int32(i/16-8)*480 + int32(i%16-8)*2
		if codebook[i] != want {
			t.Fatalf("codebook[%#02x] = %d, want %d", i, codebook[i], want)
		}
	}

	if codebook[0x88] != 0 {
		t.Errorf("center entry: got %d, want 0", codebook[0x88])
	}
	if codebook[0] != -8*480-16 {
		t.Errorf("first entry: got %d, want %d", codebook[0], -8*480-16)
	}
	if codebook[255] != 7*480+14 {
		t.Errorf("last entry: got %d, want %d", codebook[255], 7*480+14)
	}
}
