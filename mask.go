package rowecs

// mask is a set of component ids laid out like a row's presence bitmap, so
// it can be compared against a row byte by byte.
type mask []byte

// makeMask creates a mask of width bytes holding ids.
func makeMask(width int, ids []ComponentID) mask {
	m := make(mask, width)
	for _, id := range ids {
		_ = setBit(m, int(id))
	}
	return m
}

// includedBy checks if bitmap has every bit of the mask.
func (m mask) includedBy(bitmap []byte) bool {
	for i, b := range m {
		if bitmap[i]&b != b {
			return false
		}
	}
	return true
}

// intersects checks if bitmap has any bit in common with the mask.
func (m mask) intersects(bitmap []byte) bool {
	for i, b := range m {
		if bitmap[i]&b != 0 {
			return true
		}
	}
	return false
}
