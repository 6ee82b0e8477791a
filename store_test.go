package rowecs

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int32 }
type WithPointer struct{ Data *int }

// --- Test Suite Setup ---
func setupStore(t *testing.T, opts ...Option) (*Store, ComponentID, ComponentID) {
	t.Helper()
	s := NewStore(opts...)
	pos, err := s.CreateComponent("pos", 8)
	if err != nil {
		t.Fatal(err)
	}
	vel, err := s.CreateComponent("vel", 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	return s, pos, vel
}

func mustCreate(t *testing.T, s *Store) EntityID {
	t.Helper()
	e, err := s.CreateEntity()
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// go test -run ^TestComponentLifecycle$ . -count 1
func TestComponentLifecycle(t *testing.T) {
	s, pos, vel := setupStore(t)
	if pos != 0 || vel != 1 {
		t.Fatalf("expected component ids 0 and 1, got %d and %d", pos, vel)
	}
	if _, err := s.CreateComponent("late", 2); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}

	// one bitmap byte, then pos at 1 and vel at 9
	if s.RowWidth() != 13 {
		t.Errorf("expected row width 13, got %d", s.RowWidth())
	}
	if c, _ := s.Component(pos); c.Offset != 1 || c.Size != 8 || c.Name != "pos" {
		t.Errorf("unexpected pos layout %+v", c)
	}
	if c, _ := s.Component(vel); c.Offset != 9 {
		t.Errorf("expected vel offset 9, got %d", c.Offset)
	}

	e := mustCreate(t, s)
	if e != 0 {
		t.Fatalf("expected first entity 0, got %d", e)
	}
	if _, ok := s.GetComponent(e, pos); ok {
		t.Fatal("GetComponent found a component that was never set")
	}
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := s.SetComponent(e, pos, data); err != nil {
		t.Fatal(err)
	}
	got, ok := s.GetComponent(e, pos)
	if !ok || !bytes.Equal(got, data) {
		t.Fatalf("expected %v, got %v (ok=%v)", data, got, ok)
	}
	if s.HasComponent(e, vel) {
		t.Error("vel should not be present")
	}
}

// go test -run ^TestInPlaceMutation$ . -count 1
func TestInPlaceMutation(t *testing.T) {
	s, pos, _ := setupStore(t)
	e := mustCreate(t, s)
	if err := s.SetComponent(e, pos, nil); err != nil {
		t.Fatal(err)
	}
	view, ok := s.GetComponent(e, pos)
	if !ok || len(view) != 8 {
		t.Fatalf("expected an 8 byte view, got %d (ok=%v)", len(view), ok)
	}
	view[0] = 0xAB
	again, _ := s.GetComponent(e, pos)
	if again[0] != 0xAB {
		t.Error("write through the view did not reach the table")
	}
	if cap(view) != 8 {
		t.Errorf("view capacity should be clipped to the component, got %d", cap(view))
	}
}

// go test -run ^TestPresenceBitClearsOnRemove$ . -count 1
func TestPresenceBitClearsOnRemove(t *testing.T) {
	s, pos, vel := setupStore(t)
	e := mustCreate(t, s)
	data := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	_ = s.SetComponent(e, pos, data)
	_ = s.SetComponent(e, vel, []byte{1, 1, 1, 1})

	if err := s.RemoveComponents(e, pos); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetComponent(e, pos); ok {
		t.Fatal("component still readable after RemoveComponents")
	}
	if !s.HasComponent(e, vel) {
		t.Error("removing pos cleared vel")
	}
	row, _ := s.EntityData(e)
	c, _ := s.Component(pos)
	if !bytes.Equal(row[c.Offset:c.Offset+c.Size], data) {
		t.Error("RemoveComponents should leave the bytes untouched")
	}
}

// go test -run ^TestIDReuse$ . -count 1
func TestIDReuse(t *testing.T) {
	s, pos, _ := setupStore(t)
	for want := range EntityID(3) {
		if e := mustCreate(t, s); e != want {
			t.Fatalf("expected entity %d, got %d", want, e)
		}
	}
	_ = s.SetComponent(1, pos, make([]byte, 8))
	if err := DestroyEntity(s, 1); err != nil {
		t.Fatal(err)
	}
	if !s.IsFree(1) || s.IsActive(1) {
		t.Fatal("destroyed entity should be free and inactive")
	}
	e := mustCreate(t, s)
	if e != 1 {
		t.Fatalf("expected recycled id 1, got %d", e)
	}
	if s.HasComponent(e, pos) {
		t.Error("recycled entity kept a component")
	}
	if s.IsFree(1) || !s.IsActive(1) {
		t.Error("reused entity should be live and active")
	}
	if e := mustCreate(t, s); e != 3 {
		t.Errorf("expected fresh id 3 once the free set is empty, got %d", e)
	}
}

// go test -run ^TestRecycleOrder$ . -count 1
func TestRecycleOrder(t *testing.T) {
	s, _, _ := setupStore(t)
	for range 5 {
		mustCreate(t, s)
	}
	for _, e := range []EntityID{0, 2, 4} {
		if err := s.RecycleEntity(e); err != nil {
			t.Fatal(err)
		}
	}
	// recycling twice is a no-op
	if err := s.RecycleEntity(4); err != nil {
		t.Fatal(err)
	}
	for _, want := range []EntityID{4, 2, 0, 5} {
		if e := mustCreate(t, s); e != want {
			t.Errorf("expected %d, got %d", want, e)
		}
	}
}

// go test -run ^TestGrowth$ . -count 1
func TestGrowth(t *testing.T) {
	s, pos, _ := setupStore(t, WithInitialCapacity(2))
	for i := range 50 {
		e := mustCreate(t, s)
		_ = s.SetComponent(e, pos, []byte{byte(i), 0, 0, 0, 0, 0, 0, byte(i)})
	}
	if s.RowCount() != 50 || s.Capacity() < 50 {
		t.Fatalf("row count %d, capacity %d", s.RowCount(), s.Capacity())
	}
	for i := range 50 {
		got, ok := s.GetComponent(EntityID(i), pos)
		if !ok || got[0] != byte(i) || got[7] != byte(i) {
			t.Fatalf("entity %d lost its data across growth: %v", i, got)
		}
	}
}

// go test -run ^TestDeferredCommit$ . -count 1
func TestDeferredCommit(t *testing.T) {
	const n = 10
	s, pos, _ := setupStore(t, WithInitialCapacity(4))
	for range 4 {
		mustCreate(t, s)
	}
	held, err := s.EntityData(0)
	if err != nil {
		t.Fatal(err)
	}
	capBefore := s.Capacity()

	if err := s.BeginProcessing(); err != nil {
		t.Fatal(err)
	}
	if !s.IsProcessing() {
		t.Fatal("store should report processing")
	}
	created := make([]EntityID, 0, n)
	for i := range n {
		e := mustCreate(t, s)
		created = append(created, e)
		if int(e) != 4+i {
			t.Fatalf("expected id %d, got %d", 4+i, e)
		}
		row, err := s.EntityData(e)
		if err != nil {
			t.Fatalf("side row %d unreachable: %v", e, err)
		}
		if len(row) != s.RowWidth() {
			t.Fatalf("side row has width %d", len(row))
		}
		if err := s.SetComponent(e, pos, []byte{byte(e), 1, 2, 3, 4, 5, 6, 7}); err != nil {
			t.Fatal(err)
		}
	}
	if s.Capacity() != capBefore {
		t.Fatalf("main table grew during processing: %d -> %d", capBefore, s.Capacity())
	}
	if s.RowCount() != 4 || s.EntityCount() != 4+n {
		t.Fatalf("row count %d, entity count %d", s.RowCount(), s.EntityCount())
	}

	// the row taken before the window still aliases the live table
	c, _ := s.Component(pos)
	held[0] |= 1
	held[c.Offset] = 0x5A
	if got, ok := s.GetComponent(0, pos); !ok || got[0] != 0x5A {
		t.Fatal("row obtained before processing no longer aliases the table")
	}

	if err := s.FixData(); err != nil {
		t.Fatal(err)
	}
	if s.IsProcessing() {
		t.Fatal("FixData should close the window")
	}
	if s.RowCount() != 4+n {
		t.Fatalf("expected %d committed rows, got %d", 4+n, s.RowCount())
	}
	if s.Capacity() < s.RowCount() {
		t.Fatalf("capacity %d below row count %d", s.Capacity(), s.RowCount())
	}
	for _, e := range created {
		got, ok := s.GetComponent(e, pos)
		if !ok || got[0] != byte(e) || got[7] != 7 {
			t.Fatalf("entity %d lost its data in the merge: %v", e, got)
		}
	}
	// FixData outside a window is a no-op
	if err := s.FixData(); err != nil {
		t.Fatal(err)
	}
}

// go test -run ^TestSideRowDetachedAfterMerge$ . -count 1
func TestSideRowDetachedAfterMerge(t *testing.T) {
	s, pos, _ := setupStore(t, WithInitialCapacity(1))
	mustCreate(t, s)
	_ = s.BeginProcessing()
	e := mustCreate(t, s)
	_ = s.SetComponent(e, pos, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	stale, err := s.EntityData(e)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FixData(); err != nil {
		t.Fatal(err)
	}

	for i, b := range stale {
		if b != 0 {
			t.Fatalf("stale side row byte %d still holds %d", i, b)
		}
	}
	c, _ := s.Component(pos)
	stale[0] = 0
	stale[c.Offset] = 0xFF
	got, ok := s.GetComponent(e, pos)
	if !ok || got[0] != 1 || got[7] != 8 {
		t.Fatalf("merged row changed through a stale slice: %v (ok=%v)", got, ok)
	}
	fresh, _ := s.EntityData(e)
	fresh[c.Offset] = 0x42
	if got, _ := s.GetComponent(e, pos); got[0] != 0x42 {
		t.Error("row fetched after FixData should alias the table")
	}
}

// go test -run ^TestProcessingReusesFreeIDs$ . -count 1
func TestProcessingReusesFreeIDs(t *testing.T) {
	s, _, _ := setupStore(t)
	for range 3 {
		mustCreate(t, s)
	}
	_ = DestroyEntity(s, 1)
	_ = s.BeginProcessing()
	if e := mustCreate(t, s); e != 1 {
		t.Fatalf("expected free id 1 during processing, got %d", e)
	}
	if e := mustCreate(t, s); e != 3 {
		t.Fatalf("expected side id 3, got %d", e)
	}
	_ = s.FixData()
	if s.RowCount() != 4 {
		t.Errorf("expected 4 rows, got %d", s.RowCount())
	}
}

// go test -run ^TestProcess$ . -count 1
func TestProcess(t *testing.T) {
	s, pos, _ := setupStore(t, WithInitialCapacity(3))
	for range 3 {
		mustCreate(t, s)
	}
	_ = s.DisableEntity(1)

	var visited []EntityID
	err := s.Process(func(e EntityID) error {
		visited = append(visited, e)
		child, err := s.CreateEntity()
		if err != nil {
			return err
		}
		return s.SetComponent(child, pos, []byte{byte(e), 0, 0, 0, 0, 0, 0, 0})
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(visited) != 2 || visited[0] != 0 || visited[1] != 2 {
		t.Fatalf("expected to visit [0 2], got %v", visited)
	}
	if s.IsProcessing() || s.RowCount() != 5 {
		t.Fatalf("expected merged rows, processing=%v rows=%d", s.IsProcessing(), s.RowCount())
	}
	if got, ok := s.GetComponent(4, pos); !ok || got[0] != 2 {
		t.Errorf("child of entity 2 not merged: %v", got)
	}

	stop := errors.New("stop")
	calls := 0
	err = s.Process(func(EntityID) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("expected the callback error after one call, got %v after %d", err, calls)
	}
	if s.IsProcessing() {
		t.Error("Process must close the window on error")
	}
}

// go test -run ^TestErrors$ . -count 1
func TestErrors(t *testing.T) {
	t.Run("NotInitialized", func(t *testing.T) {
		s := NewStore()
		pos, _ := s.CreateComponent("pos", 8)
		if _, err := s.CreateEntity(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("CreateEntity: %v", err)
		}
		if err := s.SetComponent(0, pos, nil); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("SetComponent: %v", err)
		}
		if err := s.RemoveComponents(0, pos); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("RemoveComponents: %v", err)
		}
		if _, err := s.EntityData(0); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("EntityData: %v", err)
		}
		if err := s.BeginProcessing(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("BeginProcessing: %v", err)
		}
		if _, ok := s.GetComponent(0, pos); ok {
			t.Error("GetComponent succeeded before Initialize")
		}
	})

	t.Run("AlreadyInitialized", func(t *testing.T) {
		s, _, _ := setupStore(t)
		width := s.RowWidth()
		if err := s.Initialize(); !errors.Is(err, ErrAlreadyInitialized) {
			t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
		}
		if s.RowWidth() != width {
			t.Error("second Initialize changed the layout")
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		s, pos, _ := setupStore(t)
		e := mustCreate(t, s)
		if err := s.SetComponent(e+1, pos, nil); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("bad entity: %v", err)
		}
		if err := s.SetComponent(e, 7, nil); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("bad component: %v", err)
		}
		if err := s.RemoveComponents(e, 7); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("bad component: %v", err)
		}
		if err := s.RecycleEntity(e + 5); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("bad recycle: %v", err)
		}
		if _, ok := s.GetComponent(e, 7); ok {
			t.Error("GetComponent accepted an unregistered component")
		}
	})

	t.Run("InvalidComponent", func(t *testing.T) {
		s := NewStore()
		if _, err := s.CreateComponent("", 4); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("empty name: %v", err)
		}
		if _, err := s.CreateComponent("neg", -1); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("negative size: %v", err)
		}
		_, _ = s.CreateComponent("dup", 1)
		if _, err := s.CreateComponent("dup", 1); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("duplicate: %v", err)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		s, pos, _ := setupStore(t)
		e := mustCreate(t, s)
		if err := s.SetComponent(e, pos, []byte{1, 2}); !errors.Is(err, ErrInvalidData) {
			t.Fatalf("expected ErrInvalidData, got %v", err)
		}
		if s.HasComponent(e, pos) {
			t.Error("failed SetComponent marked the component present")
		}
	})

	t.Run("AlreadyProcessing", func(t *testing.T) {
		s, _, _ := setupStore(t)
		_ = s.BeginProcessing()
		if err := s.BeginProcessing(); !errors.Is(err, ErrAlreadyProcessing) {
			t.Errorf("expected ErrAlreadyProcessing, got %v", err)
		}
	})

	t.Run("Allocation", func(t *testing.T) {
		s, pos, _ := setupStore(t, WithInitialCapacity(2), WithMaxEntities(3))
		for range 3 {
			e := mustCreate(t, s)
			_ = s.SetComponent(e, pos, []byte{7, 7, 7, 7, 7, 7, 7, 7})
		}
		if _, err := s.CreateEntity(); !errors.Is(err, ErrAllocation) {
			t.Fatalf("expected ErrAllocation, got %v", err)
		}
		if s.RowCount() != 3 || s.Capacity() != 3 {
			t.Errorf("failed growth changed the table: rows %d capacity %d", s.RowCount(), s.Capacity())
		}
		if got, ok := s.GetComponent(2, pos); !ok || got[0] != 7 {
			t.Error("failed growth corrupted existing rows")
		}
	})
}

// go test -run ^TestActiveSet$ . -count 1
func TestActiveSet(t *testing.T) {
	s, _, _ := setupStore(t)
	e := mustCreate(t, s)
	if !s.IsActive(e) || s.ActiveCount() != 1 {
		t.Fatal("new entities start active")
	}
	_ = s.DisableEntity(e)
	if s.IsActive(e) || s.ActiveCount() != 0 {
		t.Fatal("DisableEntity left the entity active")
	}
	_ = s.EnableEntity(e)
	if !s.IsActive(e) {
		t.Fatal("EnableEntity did not reactivate")
	}
	if err := s.EnableEntity(e + 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

// go test -run ^TestActiveSetRejectsRecycled$ . -count 1
func TestActiveSetRejectsRecycled(t *testing.T) {
	s, _, _ := setupStore(t)
	for range 3 {
		mustCreate(t, s)
	}
	if err := DestroyEntity(s, 1); err != nil {
		t.Fatal(err)
	}
	s.FlushChanges(nil)

	if err := s.EnableEntity(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange enabling a recycled id, got %v", err)
	}
	if err := s.DisableEntity(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange disabling a recycled id, got %v", err)
	}
	if s.IsActive(1) || !s.IsFree(1) {
		t.Fatal("recycled id must stay free and inactive")
	}
	if ch := s.Changes(); len(ch.Enabled)+len(ch.Disabled) != 0 {
		t.Errorf("recycled id produced notifications %+v", ch)
	}

	var visited []EntityID
	_ = s.Process(func(e EntityID) error {
		visited = append(visited, e)
		return nil
	})
	if !equalIDs(visited, []EntityID{0, 2}) {
		t.Errorf("Process visited %v", visited)
	}
	f, err := NewFilter(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Entities(); !equalIDs(got, []EntityID{0, 2}) {
		t.Errorf("filter matched %v", got)
	}
}

// go test -run ^TestChangeNotifications$ . -count 1
func TestChangeNotifications(t *testing.T) {
	s, _, _ := setupStore(t)
	a := mustCreate(t, s)
	b := mustCreate(t, s)
	_ = s.DisableEntity(a)
	_ = s.DisableEntity(a) // no transition, no second record
	_ = s.EnableEntity(a)
	_ = DestroyEntity(s, b)

	ch := s.Changes()
	if len(ch.Added) != 2 || len(ch.Enabled) != 1 || len(ch.Disabled) != 1 || len(ch.Removed) != 1 {
		t.Fatalf("unexpected pending changes %+v", ch)
	}

	bus := &EventBus{}
	var order []string
	Subscribe(bus, func(ev EntityAdded) { order = append(order, "added") })
	Subscribe(bus, func(ev EntityEnabled) { order = append(order, "enabled") })
	Subscribe(bus, func(ev EntityDisabled) { order = append(order, "disabled") })
	Subscribe(bus, func(ev EntityRemoved) {
		order = append(order, "removed")
		if ev.ID != b {
			t.Errorf("expected removed %d, got %d", b, ev.ID)
		}
		// handlers may touch the store; the change lands in the next flush
		_, _ = s.CreateEntity()
	})

	s.FlushChanges(bus)
	want := []string{"added", "added", "enabled", "disabled", "removed"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}

	ch = s.Changes()
	if len(ch.Added) != 1 || len(ch.Removed) != 0 {
		t.Fatalf("expected only the handler's creation pending, got %+v", ch)
	}
	s.FlushChanges(nil)
	ch = s.Changes()
	if len(ch.Added)+len(ch.Enabled)+len(ch.Disabled)+len(ch.Removed) != 0 {
		t.Errorf("flush with a nil bus should still clear, got %+v", ch)
	}
}

// go test -run ^TestClose$ . -count 1
func TestClose(t *testing.T) {
	s, _, _ := setupStore(t)
	mustCreate(t, s)
	_ = s.BeginProcessing()
	mustCreate(t, s)
	s.Close()

	if s.IsInitialized() || s.IsProcessing() || s.NumComponents() != 0 || s.RowCount() != 0 {
		t.Fatal("Close should reset the store")
	}
	if _, err := s.CreateEntity(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized after Close, got %v", err)
	}
	if _, err := s.CreateComponent("pos", 8); err != nil {
		t.Fatalf("a closed store should accept new components: %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if e := mustCreate(t, s); e != 0 {
		t.Errorf("expected ids to restart at 0, got %d", e)
	}
}

// go test -run ^TestLogging$ . -count 1
func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, _, _ := setupStore(t, WithLogger(zap.New(core)), WithInitialCapacity(1))
	mustCreate(t, s)
	mustCreate(t, s)
	_ = s.BeginProcessing()
	mustCreate(t, s)
	_ = s.FixData()

	for _, msg := range []string{"store initialized", "row table grown", "processing started", "processing merged"} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("missing log %q", msg)
		}
	}
	entry := logs.FilterMessage("store initialized").All()[0]
	if entry.ContextMap()["row_width"] != int64(13) {
		t.Errorf("unexpected initialize fields %v", entry.ContextMap())
	}
}

// go test -run ^TestStats$ . -count 1
func TestStats(t *testing.T) {
	s, _, _ := setupStore(t, WithInitialCapacity(8))
	for range 3 {
		mustCreate(t, s)
	}
	_ = s.RecycleEntity(0)
	_ = s.BeginProcessing()
	mustCreate(t, s)
	mustCreate(t, s)

	want := Stats{
		Components: 2,
		RowWidth:   13,
		Rows:       3,
		SideRows:   1,
		Capacity:   8,
		Active:     4,
		Free:       0,
		Processing: true,
	}
	if got := s.Stats(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

// go test -run ^TestZeroValueStore$ . -count 1
func TestZeroValueStore(t *testing.T) {
	var s Store
	if s.IsFree(0) || s.IsActive(0) || s.ActiveCount() != 0 {
		t.Fatal("an empty store has no entities")
	}
	s.FlushChanges(nil)
	if _, err := s.CreateEntity(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	pos, err := s.CreateComponent("pos", 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if s.Capacity() != 64 {
		t.Errorf("expected the default capacity 64, got %d", s.Capacity())
	}
	e := mustCreate(t, &s)
	if err := s.SetComponent(e, pos, make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if err := DestroyEntity(&s, e); err != nil {
		t.Fatal(err)
	}
	if len(s.Changes().Removed) != 1 {
		t.Error("zero-value store did not record the removal")
	}
	s.Close()
	if s.IsInitialized() {
		t.Error("Close should reset a zero-value store")
	}
}
