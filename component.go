package rowecs

import (
	"github.com/rotisserie/eris"
)

// ComponentID is the dense, 0-based index of a registered component. It is
// also the component's bit in every row's presence bitmap.
type ComponentID uint32

// Component describes one fixed-size slot of an entity row.
type Component struct {
	Name string
	// Size is the number of payload bytes.
	Size int
	// Offset is the slot's byte offset inside a row. Before Initialize it is
	// relative to the payload area; afterwards it includes the bitmap.
	Offset int
	Flags  uint32
}

// CreateComponent registers a component of size bytes and returns its id.
// It fails with ErrAlreadyInitialized once Initialize has run.
func (s *Store) CreateComponent(name string, size int) (ComponentID, error) {
	s.lazyInit()
	if s.initialized {
		return 0, eris.Wrapf(ErrAlreadyInitialized, "create component %q", name)
	}
	if name == "" || size < 0 {
		return 0, eris.Wrapf(ErrInvalidComponent, "create component %q with size %d", name, size)
	}
	if _, ok := s.names[name]; ok {
		return 0, eris.Wrapf(ErrInvalidComponent, "component %q already registered", name)
	}
	id := ComponentID(len(s.components))
	s.components = append(s.components, Component{
		Name:   name,
		Size:   size,
		Offset: s.runningWidth,
	})
	s.names[name] = id
	s.runningWidth += size
	return id, nil
}

// Component returns the definition of component id.
func (s *Store) Component(id ComponentID) (Component, bool) {
	if int(id) >= len(s.components) {
		return Component{}, false
	}
	return s.components[id], true
}

// ComponentByName returns the id registered under name.
func (s *Store) ComponentByName(name string) (ComponentID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// NumComponents returns the number of registered components.
func (s *Store) NumComponents() int {
	return len(s.components)
}
