package rowecs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// EntityID identifies an entity by its row index. Ids carry no generation:
// once recycled, an id names whichever entity next reuses it.
type EntityID uint32

// CreateEntity reserves a row and returns its id. Recycled ids are reused
// LIFO before new ids are issued. The new row's presence bitmap is zeroed
// and the entity starts active.
//
// Outside a processing window a new id may grow the main table, which
// invalidates row slices obtained earlier. Inside one, new rows go to the
// side buffer instead.
func (s *Store) CreateEntity() (EntityID, error) {
	if !s.initialized {
		return 0, eris.Wrap(ErrNotInitialized, "create entity")
	}
	var e EntityID
	if !s.free.IsEmpty() {
		e = EntityID(s.free.Pop())
	} else {
		next, err := s.appendRow()
		if err != nil {
			return 0, err
		}
		e = next
	}
	row := s.table.row(s.table.resolve(e))
	clear(row[:s.table.bitmap])
	if err := s.track(e); err != nil {
		return 0, err
	}
	return e, nil
}

// appendRow issues the next sequential id, placing its row in the main table
// or, while processing, in a fresh side-buffer row.
func (s *Store) appendRow() (EntityID, error) {
	t := &s.table
	next := t.count + len(t.side)
	if uint64(next) >= uint64(s.entityLimit()) {
		return 0, eris.Wrapf(ErrAllocation, "create entity: id %d exceeds limit %d", next, s.entityLimit())
	}
	if t.processing {
		t.side = append(t.side, make([]byte, t.width))
		return EntityID(next), nil
	}
	oldCap := t.capacity
	grown, err := t.reserve(t.count+1, s.entityLimit())
	if err != nil {
		return 0, eris.Wrap(err, "create entity")
	}
	if grown {
		s.logger.Debug("row table grown",
			zap.Int("old_capacity", oldCap),
			zap.Int("new_capacity", t.capacity),
		)
	}
	t.count++
	return EntityID(next), nil
}

// track marks a new entity active and records it as added.
func (s *Store) track(e EntityID) error {
	if _, err := s.active.Insert(uint32(e)); err != nil {
		return eris.Wrapf(err, "activate entity %d", e)
	}
	if err := s.added.Insert(uint32(e)); err != nil {
		return eris.Wrapf(err, "record added entity %d", e)
	}
	return nil
}

// RecycleEntity returns e to the free set so a later CreateEntity can reuse
// it, deactivates it and records it as removed. It does not clear component
// presence; see DestroyEntity. Recycling a free id is a no-op.
func (s *Store) RecycleEntity(e EntityID) error {
	if _, err := s.entityRow(e); err != nil {
		return eris.Wrapf(err, "recycle entity %d", e)
	}
	if s.free.Contains(uint32(e)) {
		return nil
	}
	if err := s.free.Insert(uint32(e)); err != nil {
		return eris.Wrapf(err, "recycle entity %d", e)
	}
	s.active.Remove(uint32(e))
	if err := s.removed.Insert(uint32(e)); err != nil {
		return eris.Wrapf(err, "record removed entity %d", e)
	}
	return nil
}

// DestroyEntity clears every registered component of e and recycles its id.
func DestroyEntity(s *Store, e EntityID) error {
	for c := range s.NumComponents() {
		if err := s.RemoveComponents(e, ComponentID(c)); err != nil {
			return err
		}
	}
	return s.RecycleEntity(e)
}

// IsFree reports whether e is waiting in the free set.
func (s *Store) IsFree(e EntityID) bool {
	return s.free.Contains(uint32(e))
}

// liveEntity fails for ids outside the table and for recycled ids.
func (s *Store) liveEntity(e EntityID) error {
	if _, err := s.entityRow(e); err != nil {
		return err
	}
	if s.free.Contains(uint32(e)) {
		return ErrOutOfRange
	}
	return nil
}

// EnableEntity marks e active. Enabling an inactive entity records it as
// enabled. Recycled ids fail with ErrOutOfRange.
func (s *Store) EnableEntity(e EntityID) error {
	if err := s.liveEntity(e); err != nil {
		return eris.Wrapf(err, "enable entity %d", e)
	}
	prev, err := s.active.Insert(uint32(e))
	if err != nil {
		return eris.Wrapf(err, "enable entity %d", e)
	}
	if !prev {
		if err := s.enabled.Insert(uint32(e)); err != nil {
			return eris.Wrapf(err, "record enabled entity %d", e)
		}
	}
	return nil
}

// DisableEntity marks e inactive. Disabling an active entity records it as
// disabled. Recycled ids fail with ErrOutOfRange.
func (s *Store) DisableEntity(e EntityID) error {
	if err := s.liveEntity(e); err != nil {
		return eris.Wrapf(err, "disable entity %d", e)
	}
	if s.active.Remove(uint32(e)) {
		if err := s.disabled.Insert(uint32(e)); err != nil {
			return eris.Wrapf(err, "record disabled entity %d", e)
		}
	}
	return nil
}

// IsActive reports whether e is in the active set.
func (s *Store) IsActive(e EntityID) bool {
	return s.active.Contains(uint32(e))
}

// ActiveCount returns the number of active entities.
func (s *Store) ActiveCount() int {
	return s.active.Len()
}
