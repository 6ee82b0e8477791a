package rowecs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BeginProcessing opens a processing window. Until FixData, CreateEntity
// never reallocates the main table, so row slices taken before the window
// keep pointing at live data. New rows are allocated one by one in a side
// buffer and are reachable through EntityData, GetComponent and
// SetComponent like any other row.
func (s *Store) BeginProcessing() error {
	if !s.initialized {
		return eris.Wrap(ErrNotInitialized, "begin processing")
	}
	if s.table.processing {
		return eris.Wrap(ErrAlreadyProcessing, "begin processing")
	}
	s.table.processing = true
	s.logger.Debug("processing started", zap.Int("rows", s.table.count))
	return nil
}

// IsProcessing reports whether a processing window is open.
func (s *Store) IsProcessing() bool {
	return s.table.processing
}

// FixData closes the processing window. It grows the main table to cover
// the side buffer, copies each side row into the slot matching its id,
// releases the side rows and adds them to the row count. Row slices taken
// before the call may be invalidated by the growth. Calling it outside a
// window does nothing.
//
// Slices of side rows obtained during the window (EntityData,
// GetComponent, Filter.Row) are detached by the merge: their bytes are
// zeroed, so a stale read sees no components, and writes through them never
// reach the table. Fetch the row again after FixData.
//
// If the table cannot grow, FixData returns ErrAllocation and the store
// stays in the processing window with the side buffer intact.
func (s *Store) FixData() error {
	t := &s.table
	if !t.processing {
		return nil
	}
	n := len(t.side)
	oldCap := t.capacity
	grown, err := t.reserve(t.count+n, s.entityLimit())
	if err != nil {
		return eris.Wrap(err, "fix data")
	}
	for j, row := range t.side {
		start := (t.count + j) * t.width
		copy(t.data[start:start+t.width], row)
		clear(row)
		t.side[j] = nil
	}
	t.count += n
	t.side = nil
	t.processing = false
	s.logger.Debug("processing merged",
		zap.Int("merged_rows", n),
		zap.Int("rows", t.count),
		zap.Bool("grown", grown),
		zap.Int("old_capacity", oldCap),
		zap.Int("capacity", t.capacity),
	)
	return nil
}

// Process runs fn over every active entity whose id is below the row count
// at the time of the call, inside a processing window. fn may create
// entities; they are merged by the FixData that Process always runs before
// returning. Iteration stops at the first error from fn, which is returned
// ahead of any merge error.
//
// Parameters:
//   - fn: Called once per active entity, in ascending id order.
//
// Returns:
//   - The first error from fn, else any error from opening or merging the
//     window.
func (s *Store) Process(fn func(e EntityID) error) error {
	if err := s.BeginProcessing(); err != nil {
		return err
	}
	end := uint32(s.table.count)
	var err error
	for v, ok := s.active.Next(0); ok && v < end; v, ok = s.active.Next(v + 1) {
		if err = fn(EntityID(v)); err != nil {
			break
		}
	}
	if ferr := s.FixData(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
