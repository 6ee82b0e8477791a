package rowecs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// rowKind tells which storage an entity id currently occupies.
type rowKind uint8

const (
	rowNone rowKind = iota
	rowMain
	rowSide
)

// rowRef is the resolved location of an entity's row.
type rowRef struct {
	kind  rowKind
	index int // row in data for rowMain, slot in side for rowSide
}

// rowTable is a contiguous entity x width byte table plus the side buffer
// used during a processing window.
type rowTable struct {
	data       []byte
	side       [][]byte // independently allocated rows, never relocated
	width      int
	bitmap     int // leading presence-bitmap bytes of each row
	capacity   int
	count      int // rows in data that have been handed out
	processing bool
}

// resolve maps an entity id to its row. Ids below count live in the main
// table; while processing, the next len(side) ids live in the side buffer.
func (t *rowTable) resolve(e EntityID) rowRef {
	i := int(e)
	if i < t.count {
		return rowRef{kind: rowMain, index: i}
	}
	if t.processing && i-t.count < len(t.side) {
		return rowRef{kind: rowSide, index: i - t.count}
	}
	return rowRef{}
}

// row returns the bytes addressed by ref.
func (t *rowTable) row(ref rowRef) []byte {
	switch ref.kind {
	case rowMain:
		start := ref.index * t.width
		end := start + t.width
		return t.data[start:end:end]
	case rowSide:
		return t.side[ref.index]
	default:
		return nil
	}
}

// reserve makes room for n rows in data, growing capacity by 1.5x (or to n
// if that is larger), clamped to limit.
func (t *rowTable) reserve(n int, limit uint32) (grown bool, err error) {
	if n <= t.capacity {
		return false, nil
	}
	if uint64(n) > uint64(limit) {
		return false, eris.Wrapf(ErrAllocation, "row table: %d rows exceeds limit %d", n, limit)
	}
	newCap := t.capacity * 3 / 2
	if newCap < n {
		newCap = n
	}
	if uint64(newCap) > uint64(limit) {
		newCap = int(limit)
	}
	data := make([]byte, newCap*t.width)
	copy(data, t.data[:t.count*t.width])
	t.data = data
	t.capacity = newCap
	return true, nil
}

func (t *rowTable) release() {
	t.data = nil
	for i := range t.side {
		t.side[i] = nil
	}
	t.side = nil
	t.capacity = 0
	t.count = 0
	t.processing = false
}

// Initialize freezes the row layout: it prepends a presence bitmap of
// ceil(components/8) bytes to every row, shifts each component's offset past
// it and allocates the initial table. Calling it twice fails with
// ErrAlreadyInitialized and changes nothing.
func (s *Store) Initialize() error {
	s.lazyInit()
	if s.initialized {
		return eris.Wrap(ErrAlreadyInitialized, "initialize")
	}
	bw := bitmapWidth(len(s.components))
	width := s.runningWidth + bw
	capacity := s.initialCapacity
	if limit := s.entityLimit(); uint64(capacity) > uint64(limit) {
		capacity = int(limit)
	}
	s.table = rowTable{
		data:     make([]byte, width*capacity),
		width:    width,
		bitmap:   bw,
		capacity: capacity,
	}
	for i := range s.components {
		s.components[i].Offset += bw
	}
	s.runningWidth = width
	s.initialized = true
	s.logger.Debug("store initialized",
		zap.Int("components", len(s.components)),
		zap.Int("bitmap_width", bw),
		zap.Int("row_width", width),
		zap.Int("capacity", capacity),
	)
	return nil
}

// EntityData returns the full row of entity e: the presence bitmap followed
// by every component slot. Rows in the main table alias it and are
// invalidated by growth; rows created during a processing window are
// separate allocations until FixData copies them into the table.
func (s *Store) EntityData(e EntityID) ([]byte, error) {
	row, err := s.entityRow(e)
	if err != nil {
		return nil, eris.Wrapf(err, "entity data %d", e)
	}
	return row, nil
}

// entityRow resolves e or returns an unwrapped sentinel.
func (s *Store) entityRow(e EntityID) ([]byte, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	ref := s.table.resolve(e)
	if ref.kind == rowNone {
		return nil, ErrOutOfRange
	}
	return s.table.row(ref), nil
}

// RowWidth returns the byte width of one row, bitmap included.
func (s *Store) RowWidth() int {
	return s.table.width
}

// RowCount returns the number of rows committed to the main table.
func (s *Store) RowCount() int {
	return s.table.count
}

// Capacity returns the number of rows the main table holds without growing.
func (s *Store) Capacity() int {
	return s.table.capacity
}

// EntityCount returns the number of ids ever handed out, including rows
// still waiting in the side buffer.
func (s *Store) EntityCount() int {
	return s.table.count + len(s.table.side)
}
