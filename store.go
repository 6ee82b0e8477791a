// Package rowecs implements an entity/component store that keeps every
// entity's components in one packed, row-major byte table.
//
// Features:
//   - Components are fixed-size byte slots at offsets computed at registration.
//   - Each row starts with a presence bitmap, one bit per registered component.
//   - Free entity ids are recycled LIFO through a sparse set.
//   - A processing window lets callers create entities while iterating without
//     reallocating the table; FixData merges the new rows afterwards.
//   - Typed handles (Register[T]) copy values in and out of the raw bytes.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines must serialize every call themselves.
package rowecs

import (
	"reflect"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultInitialCapacity = 64

// Option configures a Store.
type Option func(*Store)

// WithInitialCapacity sets the number of rows allocated by Initialize.
func WithInitialCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.initialCapacity = n
		}
	}
}

// WithMaxEntities bounds the number of entity ids the store may hand out.
// Growth past the bound fails with ErrAllocation. Zero means unbounded.
func WithMaxEntities(n uint32) Option {
	return func(s *Store) {
		s.maxEntities = n
	}
}

// WithLogger sets the logger used for lifecycle and growth events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store owns the component registry, the row table, the free-id set, the
// active-entity set and the change notification sets.
//
// Create stores with NewStore. A zero-value Store behaves like NewStore()
// with no options.
type Store struct {
	logger *zap.Logger

	components   []Component
	names        map[string]ComponentID
	types        map[reflect.Type]ComponentID
	runningWidth int
	initialized  bool

	table rowTable

	free     *SparseSet
	added    *SparseSet
	enabled  *SparseSet
	disabled *SparseSet
	removed  *SparseSet
	active   *DenseSet

	flushBuf []uint32

	initialCapacity int
	maxEntities     uint32
}

// NewStore returns an empty, uninitialized store. Register components with
// CreateComponent or Register, then call Initialize.
//
// Parameters:
//   - opts: Options applied in order, such as `WithInitialCapacity`.
//
// Returns:
//   - A pointer to the new `Store`.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger:          zap.NewNop(),
		initialCapacity: defaultInitialCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

// lazyInit gives a zero-value Store the defaults NewStore would.
func (s *Store) lazyInit() {
	if s.names != nil {
		return
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.initialCapacity <= 0 {
		s.initialCapacity = defaultInitialCapacity
	}
	s.reset()
}

// reset puts the store back into its freshly constructed state.
func (s *Store) reset() {
	limit := s.entityLimit()
	s.components = nil
	s.names = make(map[string]ComponentID)
	s.types = make(map[reflect.Type]ComponentID)
	s.runningWidth = 0
	s.initialized = false
	s.table = rowTable{}
	s.free = NewSparseSet(limit)
	s.added = NewSparseSet(limit)
	s.enabled = NewSparseSet(limit)
	s.disabled = NewSparseSet(limit)
	s.removed = NewSparseSet(limit)
	s.active = NewDenseSet(limit)
	s.flushBuf = nil
}

// entityLimit is the exclusive upper bound on entity ids.
func (s *Store) entityLimit() uint32 {
	if s.maxEntities == 0 {
		return InvalidID
	}
	return s.maxEntities
}

// Close releases the table, every set and the registry. The store returns
// to the uninitialized state and may be configured again.
func (s *Store) Close() {
	s.lazyInit()
	rows := s.table.count
	s.table.release()
	for _, set := range []*SparseSet{s.free, s.added, s.enabled, s.disabled, s.removed} {
		set.release()
	}
	s.active.release()
	s.reset()
	s.logger.Debug("store closed", zap.Int("rows", rows))
}

// IsInitialized reports whether the row layout is frozen.
func (s *Store) IsInitialized() bool {
	return s.initialized
}

// SetComponent marks component c present on entity e. When data is non-nil,
// exactly the component's size is copied from it into the row; a nil data
// only sets the presence bit so the caller can fill the bytes in place via
// GetComponent.
func (s *Store) SetComponent(e EntityID, c ComponentID, data []byte) error {
	row, err := s.entityRow(e)
	if err != nil {
		return eris.Wrapf(err, "set component %d on entity %d", c, e)
	}
	if int(c) >= len(s.components) {
		return eris.Wrapf(ErrOutOfRange, "set component %d on entity %d", c, e)
	}
	comp := &s.components[c]
	if data != nil && len(data) < comp.Size {
		return eris.Wrapf(ErrInvalidData, "component %q wants %d bytes, got %d", comp.Name, comp.Size, len(data))
	}
	_ = setBit(row, int(c))
	if data != nil {
		copy(row[comp.Offset:comp.Offset+comp.Size], data)
	}
	return nil
}

// GetComponent returns the bytes of component c for entity e. The slice is
// a view into the table: writes through it update the component in place.
// It stays valid until the table next grows (see BeginProcessing).
// ok is false if the entity or component is unknown or the component has not
// been set.
func (s *Store) GetComponent(e EntityID, c ComponentID) ([]byte, bool) {
	row, err := s.entityRow(e)
	if err != nil || int(c) >= len(s.components) {
		return nil, false
	}
	if !testBit(row, int(c)) {
		return nil, false
	}
	comp := &s.components[c]
	end := comp.Offset + comp.Size
	return row[comp.Offset:end:end], true
}

// HasComponent reports whether component c is present on entity e.
func (s *Store) HasComponent(e EntityID, c ComponentID) bool {
	_, ok := s.GetComponent(e, c)
	return ok
}

// RemoveComponents clears the presence bit of component c on entity e. The
// component's bytes are left as they are until next written.
func (s *Store) RemoveComponents(e EntityID, c ComponentID) error {
	row, err := s.entityRow(e)
	if err != nil {
		return eris.Wrapf(err, "remove component %d from entity %d", c, e)
	}
	if int(c) >= len(s.components) {
		return eris.Wrapf(ErrOutOfRange, "remove component %d from entity %d", c, e)
	}
	_ = clearBit(row, int(c))
	return nil
}

// Stats is a point-in-time summary of the store.
type Stats struct {
	Components int  `json:"components"`
	RowWidth   int  `json:"row_width"`
	Rows       int  `json:"rows"`
	SideRows   int  `json:"side_rows"`
	Capacity   int  `json:"capacity"`
	Active     int  `json:"active"`
	Free       int  `json:"free"`
	Processing bool `json:"processing"`
}

// Stats reports the current table and set sizes.
func (s *Store) Stats() Stats {
	return Stats{
		Components: len(s.components),
		RowWidth:   s.table.width,
		Rows:       s.table.count,
		SideRows:   len(s.table.side),
		Capacity:   s.table.capacity,
		Active:     s.active.Len(),
		Free:       s.free.Len(),
		Processing: s.table.processing,
	}
}
