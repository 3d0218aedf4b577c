// Package methodid encodes callable references into fixed-width identities
// that can be compared and ordered without the callables supporting equality.
package methodid

import (
	"reflect"
	"runtime"
	"strings"
	"unsafe"
)

// Words is the width of an ID in machine words.
const Words = 2

// ID identifies a callable reference.
//
// Word 0 holds the code entry address of the callable, word 1 the address of
// its signature type descriptor. Unused words are zero. IDs are process-local
// values and must never be persisted or sent anywhere.
type ID [Words]uintptr

const methodValueSuffix = "-fm"

// Of returns the identity of a function value. A nil function or a value that
// is not a function yields the zero ID.
func Of(fn any) ID {
	return OfValue(reflect.ValueOf(fn))
}

// OfValue is Of for an already reflected value.
func OfValue(v reflect.Value) ID {
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ID{}
	}
	return encode(v.Pointer(), v.Type())
}

// OfMethod returns the identity of fn used as a method of the owner at
// address owner, of pointer type receiver. A method value taken on that
// owner (owner.M) and the matching method expression ((*T).M) yield the
// same ID.
func OfMethod(fn any, receiver reflect.Type, owner unsafe.Pointer) ID {
	return OfValue(Canonical(fn, receiver, owner))
}

// OfInvoker returns the identity of the method called name in the method set
// of receiver, or the zero ID when there is no such exported method.
func OfInvoker(receiver reflect.Type, name string) ID {
	if receiver == nil {
		return ID{}
	}
	m, ok := receiver.MethodByName(name)
	if !ok {
		return ID{}
	}
	return OfValue(m.Func)
}

// Canonical resolves fn to the function value that represents it as a method
// of the owner at address owner. A method value with a pointer receiver
// taken on that very owner is replaced by the method expression taking the
// receiver as first parameter. Anything else, including a method value
// taken on another object, is returned as is.
func Canonical(fn any, receiver reflect.Type, owner unsafe.Pointer) reflect.Value {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() || receiver == nil || owner == nil {
		return v
	}
	m, ok := resolveMethodValue(v.Pointer(), receiver)
	if !ok || boundReceiver(fn) != owner {
		return v
	}
	return m.Func
}

// boundReceiver returns the receiver captured by a pointer-receiver method
// value. The closure is laid out as the code pointer followed by the
// receiver.
func boundReceiver(fn any) unsafe.Pointer {
	closure := (*[2]unsafe.Pointer)(unsafe.Pointer(&fn))[1]
	return *(*unsafe.Pointer)(unsafe.Add(closure, unsafe.Sizeof(uintptr(0))))
}

func resolveMethodValue(pc uintptr, receiver reflect.Type) (reflect.Method, bool) {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return reflect.Method{}, false
	}
	target, ok := strings.CutSuffix(f.Name(), methodValueSuffix)
	// Value receivers capture a copy, which must keep running as is.
	if !ok || !strings.Contains(target, "(*") {
		return reflect.Method{}, false
	}
	name := target
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	m, ok := receiver.MethodByName(name)
	if !ok {
		return reflect.Method{}, false
	}
	// A same-named method of an unrelated or embedding type must not be
	// mistaken for the one the method value was taken from.
	mf := runtime.FuncForPC(m.Func.Pointer())
	if mf == nil || normalize(mf.Name()) != normalize(target) {
		return reflect.Method{}, false
	}
	return m, true
}

// normalize folds "pkg.(*T).M" and "pkg.T.M" into the same spelling.
func normalize(name string) string {
	return strings.NewReplacer("(*", "", ")", "").Replace(name)
}

func encode(pc uintptr, typ reflect.Type) ID {
	var id ID
	id[0] = pc
	if f := runtime.FuncForPC(pc); f != nil {
		id[0] = f.Entry()
	}
	id[1] = reflect.ValueOf(typ).Pointer()
	return id
}

// IsZero reports whether id identifies nothing.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Compare orders IDs lexicographically word by word. The order has no
// meaning beyond supporting an ordered index.
func (id ID) Compare(other ID) int {
	for i := range id {
		switch {
		case id[i] < other[i]:
			return -1
		case id[i] > other[i]:
			return 1
		}
	}
	return 0
}

// String returns the runtime name of the identified function.
func (id ID) String() string {
	if id.IsZero() {
		return "<nil>"
	}
	if f := runtime.FuncForPC(id[0]); f != nil {
		return f.Name()
	}
	return "<unknown>"
}
