package rowecs

import (
	"github.com/rotisserie/eris"
)

// Filter iterates the active entities whose rows carry every included
// component and none of the excluded ones. It reads the presence bitmaps
// directly, so matches reflect the table at the moment Next is called. A
// filter is bound to the layout it was created for and must be rebuilt after
// the store is closed.
//
// Example:
//
//	f, _ := rowecs.NewFilter(store, pos.ID(), vel.ID())
//	for f.Next() {
//	    row := f.Row()
//	    // ... process entity f.Entity()
//	}
type Filter struct {
	store   *Store
	include mask
	exclude mask
	buf     []EntityID
	end     uint32 // ids at or past end were created after Reset
	cur     uint32
	started bool
	ent     EntityID
	row     []byte
}

// NewFilter creates a filter over entities that have all of include. The
// store must be initialized and every id registered.
//
// Parameters:
//   - s: The Store to query.
//   - include: Component ids every match must carry. None matches every
//     active entity.
//
// Returns:
//   - A pointer to the new `Filter`, rewound to the first match.
//   - An error wrapping ErrNotInitialized or ErrOutOfRange.
func NewFilter(s *Store, include ...ComponentID) (*Filter, error) {
	if !s.initialized {
		return nil, eris.Wrap(ErrNotInitialized, "new filter")
	}
	if err := s.checkComponents(include); err != nil {
		return nil, eris.Wrap(err, "new filter")
	}
	f := &Filter{
		store:   s,
		include: makeMask(s.table.bitmap, include),
		exclude: makeMask(s.table.bitmap, nil),
	}
	f.Reset()
	return f, nil
}

// Without narrows the filter to entities lacking every one of exclude.
func (f *Filter) Without(exclude ...ComponentID) (*Filter, error) {
	if err := f.store.checkComponents(exclude); err != nil {
		return nil, eris.Wrap(err, "filter without")
	}
	for _, id := range exclude {
		_ = setBit(f.exclude, int(id))
	}
	f.Reset()
	return f, nil
}

// Reset rewinds the filter. Entities created after Reset are not visited
// until the next Reset.
func (f *Filter) Reset() {
	f.end = uint32(f.store.EntityCount())
	f.cur = 0
	f.started = false
	f.row = nil
}

// Next advances to the next matching entity. It returns false once the
// iteration is complete.
func (f *Filter) Next() bool {
	s := f.store
	from := f.cur
	if f.started {
		from++
	}
	f.started = true
	for v, ok := s.active.Next(from); ok && v < f.end; v, ok = s.active.Next(v + 1) {
		row, err := s.entityRow(EntityID(v))
		if err != nil {
			continue
		}
		bitmap := row[:s.table.bitmap]
		if !f.include.includedBy(bitmap) || f.exclude.intersects(bitmap) {
			continue
		}
		f.cur = v
		f.ent = EntityID(v)
		f.row = row
		return true
	}
	f.cur = f.end
	f.row = nil
	return false
}

// Entity returns the current entity. Only valid after Next returned true.
func (f *Filter) Entity() EntityID {
	return f.ent
}

// Row returns the current entity's row, bitmap included.
func (f *Filter) Row() []byte {
	return f.row
}

// Entities returns every matching entity and rewinds the filter.
// Note: the slice is owned by the Filter and reused by the next call.
func (f *Filter) Entities() []EntityID {
	f.Reset()
	f.buf = f.buf[:0]
	for f.Next() {
		f.buf = append(f.buf, f.ent)
	}
	f.Reset()
	return f.buf
}

// RemoveEntities destroys every matching entity and returns how many were
// removed. After this operation, the filter will be empty.
func (f *Filter) RemoveEntities() (int, error) {
	ids := f.Entities()
	for i, e := range ids {
		if err := DestroyEntity(f.store, e); err != nil {
			return i, err
		}
	}
	f.Reset()
	return len(ids), nil
}

// checkComponents fails with ErrOutOfRange for unregistered ids.
func (s *Store) checkComponents(ids []ComponentID) error {
	for _, id := range ids {
		if int(id) >= len(s.components) {
			return eris.Wrapf(ErrOutOfRange, "component %d", id)
		}
	}
	return nil
}
