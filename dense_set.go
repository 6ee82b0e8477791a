package rowecs

import (
	"math/bits"

	"github.com/rotisserie/eris"
)

// DenseSet is a growable bitset over uint32 values. Membership is one bit
// per value, so it suits small dense ranges such as live entity ids. A nil
// *DenseSet reads as empty.
type DenseSet struct {
	bytes []byte
	limit uint32 // values must be < limit
}

// NewDenseSet returns an empty bitset that can grow to hold values below
// limit. A limit of 0 means every value except InvalidID.
func NewDenseSet(limit uint32) *DenseSet {
	if limit == 0 {
		limit = InvalidID
	}
	return &DenseSet{limit: limit}
}

// Capacity returns the number of values addressable without growing.
func (d *DenseSet) Capacity() int {
	if d == nil {
		return 0
	}
	return len(d.bytes) << 3
}

// Insert sets v and returns its previous state. Values past the current
// capacity grow the buffer to ceil((v+1)*1.5/8) bytes; values beyond the
// limit return ErrAllocation and leave the set unchanged.
func (d *DenseSet) Insert(v uint32) (bool, error) {
	if d.limit == 0 {
		d.limit = InvalidID
	}
	if v >= d.limit {
		return false, eris.Wrapf(ErrAllocation, "dense set: value %d exceeds limit %d", v, d.limit)
	}
	if int(v) >= d.Capacity() {
		d.grow(v)
	}
	return setBit(d.bytes, int(v)), nil
}

func (d *DenseSet) grow(v uint32) {
	n := (uint64(v)+1)*3/2 + 7
	n >>= 3
	if maxBytes := (uint64(d.limit) + 7) >> 3; n > maxBytes {
		n = maxBytes
	}
	buf := make([]byte, n)
	copy(buf, d.bytes)
	d.bytes = buf
}

// Remove clears v and returns its previous state.
func (d *DenseSet) Remove(v uint32) bool {
	if int(v) >= d.Capacity() {
		return false
	}
	return clearBit(d.bytes, int(v))
}

// Contains reports whether v is set.
func (d *DenseSet) Contains(v uint32) bool {
	if int(v) >= d.Capacity() {
		return false
	}
	return testBit(d.bytes, int(v))
}

// Clear unsets every bit. Capacity is kept.
func (d *DenseSet) Clear() {
	clear(d.bytes)
}

// IsEmpty reports whether no bit is set. It scans the whole buffer.
func (d *DenseSet) IsEmpty() bool {
	if d == nil {
		return true
	}
	for _, b := range d.bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of set bits.
func (d *DenseSet) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, b := range d.bytes {
		n += bits.OnesCount8(b)
	}
	return n
}

// Next returns the smallest member >= from.
//
// Example:
//
//	for v, ok := set.Next(0); ok; v, ok = set.Next(v + 1) {
//	    // ...
//	}
func (d *DenseSet) Next(from uint32) (uint32, bool) {
	i := int(from)
	for i < d.Capacity() {
		b := d.bytes[i>>3] >> uint(i&7)
		if b != 0 {
			return uint32(i + bits.TrailingZeros8(b)), true
		}
		i = (i | 7) + 1
	}
	return 0, false
}

func (d *DenseSet) release() {
	d.bytes = nil
}
