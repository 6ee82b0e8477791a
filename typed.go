package rowecs

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// ComponentOf is a typed handle to a component whose payload is a T. Values
// are copied between T and the row bytes, so callers never cast raw memory.
// A handle is only meaningful for the store that issued it.
type ComponentOf[T any] struct {
	id ComponentID
}

// Register registers T as a component named name (the type's name when
// empty) with size unsafe.Sizeof(T). T must be plain data: booleans,
// numbers, and arrays or structs of them. Anything holding a Go pointer is
// rejected with ErrUnsupportedType because the table is invisible to the
// garbage collector. Each type may be registered once per store.
//
// Parameters:
//   - s: The Store to register with. It must not be initialized yet.
//   - name: The component name, or "" for the type's name.
//
// Returns:
//   - A `ComponentOf[T]` handle for reading and writing T on entities.
//   - An error wrapping ErrUnsupportedType, ErrInvalidComponent or
//     ErrAlreadyInitialized.
func Register[T any](s *Store, name string) (ComponentOf[T], error) {
	t := reflect.TypeFor[T]()
	if name == "" {
		name = t.String()
	}
	if !isPlainType(t) {
		return ComponentOf[T]{}, eris.Wrapf(ErrUnsupportedType, "register %s", t)
	}
	if _, ok := s.types[t]; ok {
		return ComponentOf[T]{}, eris.Wrapf(ErrInvalidComponent, "type %s already registered", t)
	}
	id, err := s.CreateComponent(name, int(t.Size()))
	if err != nil {
		return ComponentOf[T]{}, err
	}
	s.types[t] = id
	return ComponentOf[T]{id: id}, nil
}

// Lookup returns the handle registered for T.
func Lookup[T any](s *Store) (ComponentOf[T], bool) {
	id, ok := s.types[reflect.TypeFor[T]()]
	return ComponentOf[T]{id: id}, ok
}

// isPlainType reports whether t holds no Go pointers.
func isPlainType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainType(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !isPlainType(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// bytesOf views *v as its raw bytes.
func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// ID returns the component id behind the handle.
func (c ComponentOf[T]) ID() ComponentID {
	return c.id
}

// Get copies the component out of e's row.
func (c ComponentOf[T]) Get(s *Store, e EntityID) (T, bool) {
	var v T
	b, ok := s.GetComponent(e, c.id)
	if !ok || len(b) != int(unsafe.Sizeof(v)) {
		return v, false
	}
	copy(bytesOf(&v), b)
	return v, true
}

// Set copies v into e's row and marks the component present.
func (c ComponentOf[T]) Set(s *Store, e EntityID, v T) error {
	if err := c.check(s); err != nil {
		return err
	}
	return s.SetComponent(e, c.id, bytesOf(&v))
}

// Update calls fn with the current value (the zero value if the component
// is absent) and stores the result, marking the component present.
func (c ComponentOf[T]) Update(s *Store, e EntityID, fn func(*T)) error {
	v, _ := c.Get(s, e)
	fn(&v)
	return c.Set(s, e, v)
}

// Has reports whether the component is present on e.
func (c ComponentOf[T]) Has(s *Store, e EntityID) bool {
	return s.HasComponent(e, c.id)
}

// Remove clears the component's presence bit on e.
func (c ComponentOf[T]) Remove(s *Store, e EntityID) error {
	return s.RemoveComponents(e, c.id)
}

// check guards against handles used with a store whose component c.id has a
// different size.
func (c ComponentOf[T]) check(s *Store) error {
	comp, ok := s.Component(c.id)
	if !ok {
		return eris.Wrapf(ErrOutOfRange, "component %d", c.id)
	}
	var zero T
	if comp.Size != int(unsafe.Sizeof(zero)) {
		return eris.Wrapf(ErrUnsupportedType, "component %q holds %d bytes, %T needs %d", comp.Name, comp.Size, zero, unsafe.Sizeof(zero))
	}
	return nil
}
