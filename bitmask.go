package rowecs

// Bit helpers over a raw byte buffer. Bit i lives in byte i>>3 at position
// i&7. Callers bounds-check i against len(buf)*8.

// testBit reports whether bit i is set.
func testBit(buf []byte, i int) bool {
	return buf[i>>3]&(byte(1)<<uint(i&7)) != 0
}

// setBit sets bit i and returns its previous value.
func setBit(buf []byte, i int) bool {
	b := &buf[i>>3]
	m := byte(1) << uint(i&7)
	prev := *b&m != 0
	*b |= m
	return prev
}

// clearBit clears bit i and returns its previous value.
func clearBit(buf []byte, i int) bool {
	b := &buf[i>>3]
	m := byte(1) << uint(i&7)
	prev := *b&m != 0
	*b &^= m
	return prev
}

// bitmapWidth returns the number of bytes needed to hold n bits.
func bitmapWidth(n int) int {
	return (n + 7) >> 3
}
