package gbm

// codebook maps a payload byte to a signed byte-offset into the reference
// frame: 16 rows of 16 columns, rows stepping by one full row stride and
// columns by one pixel, both centered at entry 0x88.
var codebook [256]int32

func init() {
	for i := range codebook {
		codebook[i] = int32(i/16-8)*rowBytes + int32(i%16-8)*2
	}
}
