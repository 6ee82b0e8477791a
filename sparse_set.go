package rowecs

import (
	"math"

	"github.com/rotisserie/eris"
)

// InvalidID is returned by SparseSet.Pop on an empty set and never names a
// member or an entity.
const InvalidID = math.MaxUint32

// SparseSet is a set of uint32 values with O(1) Insert, Remove, Contains
// and Pop. The zero value is an empty, unbounded set; a nil *SparseSet reads
// as empty.
//
// dense[0:size] holds the members; sparse[v] is the index of v in dense.
// v is a member iff sparse[v] < size && dense[sparse[v]] == v. Removal swaps
// the last member into the hole, so iteration order is not insertion order.
type SparseSet struct {
	dense    []uint32
	sparse   []uint32
	size     uint32
	capacity uint32
	limit    uint32 // values must be < limit
}

// NewSparseSet returns an empty set that can grow to hold values below
// limit. A limit of 0 means every value except InvalidID.
func NewSparseSet(limit uint32) *SparseSet {
	if limit == 0 {
		limit = InvalidID
	}
	return &SparseSet{limit: limit}
}

// Insert adds v. Inserting a member is a no-op. If v is beyond the set's
// limit it returns ErrAllocation and the set is unchanged.
func (s *SparseSet) Insert(v uint32) error {
	if s.limit == 0 {
		s.limit = InvalidID
	}
	if v >= s.limit {
		return eris.Wrapf(ErrAllocation, "sparse set: value %d exceeds limit %d", v, s.limit)
	}
	if v >= s.capacity {
		s.grow(v)
	}
	if s.Contains(v) {
		return nil
	}
	s.sparse[v] = s.size
	s.dense[s.size] = v
	s.size++
	return nil
}

// grow resizes both arrays to max(capacity*1.5, v+1), clamped to the limit.
func (s *SparseSet) grow(v uint32) {
	newCap := uint64(s.capacity) * 3 / 2
	if need := uint64(v) + 1; newCap < need {
		newCap = need
	}
	if newCap > uint64(s.limit) {
		newCap = uint64(s.limit)
	}
	dense := make([]uint32, newCap)
	sparse := make([]uint32, newCap)
	copy(dense, s.dense[:s.size])
	copy(sparse, s.sparse)
	s.dense = dense
	s.sparse = sparse
	s.capacity = uint32(newCap)
}

// Remove deletes v and reports whether it was a member.
func (s *SparseSet) Remove(v uint32) bool {
	if !s.Contains(v) {
		return false
	}
	idx := s.sparse[v]
	s.size--
	if idx < s.size {
		last := s.dense[s.size]
		s.dense[idx] = last
		s.sparse[last] = idx
	}
	return true
}

// Contains reports whether v is a member. Values the set never grew to
// cover are not members.
func (s *SparseSet) Contains(v uint32) bool {
	if s == nil || v >= s.capacity {
		return false
	}
	idx := s.sparse[v]
	return idx < s.size && s.dense[idx] == v
}

// Pop removes and returns the most recently placed member, or InvalidID if
// the set is empty.
func (s *SparseSet) Pop() uint32 {
	if s.size == 0 {
		return InvalidID
	}
	s.size--
	return s.dense[s.size]
}

// Clear removes every member in O(1). Capacity is kept.
func (s *SparseSet) Clear() {
	if s == nil {
		return
	}
	s.size = 0
}

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool {
	return s == nil || s.size == 0
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return int(s.size)
}

// Values returns the members. The slice aliases the set and is valid until
// the next mutation.
func (s *SparseSet) Values() []uint32 {
	if s == nil {
		return nil
	}
	return s.dense[:s.size]
}

// release drops the backing arrays.
func (s *SparseSet) release() {
	s.dense = nil
	s.sparse = nil
	s.size = 0
	s.capacity = 0
}
