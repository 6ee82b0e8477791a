package rowecs

// Events published by FlushChanges.
type (
	EntityAdded    struct{ ID EntityID }
	EntityEnabled  struct{ ID EntityID }
	EntityDisabled struct{ ID EntityID }
	EntityRemoved  struct{ ID EntityID }
)

// Changes lists the entity ids recorded since the last flush. The slices
// alias the store's sets and are valid until the next store mutation.
type Changes struct {
	Added    []uint32
	Enabled  []uint32
	Disabled []uint32
	Removed  []uint32
}

// Changes returns the pending change notifications.
func (s *Store) Changes() Changes {
	return Changes{
		Added:    s.added.Values(),
		Enabled:  s.enabled.Values(),
		Disabled: s.disabled.Values(),
		Removed:  s.removed.Values(),
	}
}

// FlushChanges publishes the pending notifications on bus, in the order
// added, enabled, disabled, removed, and clears them. Each set is cleared
// before its events go out, so handlers may mutate the store; their changes
// are kept for the next flush. A nil bus just clears the sets.
func (s *Store) FlushChanges(bus *EventBus) {
	s.flushBuf = drain(s.added, s.flushBuf)
	for _, v := range s.flushBuf {
		publishTo(bus, EntityAdded{ID: EntityID(v)})
	}
	s.flushBuf = drain(s.enabled, s.flushBuf)
	for _, v := range s.flushBuf {
		publishTo(bus, EntityEnabled{ID: EntityID(v)})
	}
	s.flushBuf = drain(s.disabled, s.flushBuf)
	for _, v := range s.flushBuf {
		publishTo(bus, EntityDisabled{ID: EntityID(v)})
	}
	s.flushBuf = drain(s.removed, s.flushBuf)
	for _, v := range s.flushBuf {
		publishTo(bus, EntityRemoved{ID: EntityID(v)})
	}
	s.flushBuf = s.flushBuf[:0]
}

// drain copies set's members into buf and clears set.
func drain(set *SparseSet, buf []uint32) []uint32 {
	buf = append(buf[:0], set.Values()...)
	set.Clear()
	return buf
}

func publishTo[T any](bus *EventBus, event T) {
	if bus != nil {
		Publish(bus, event)
	}
}
