// Package slot erases arbitrary callables into one calling shape,
// Result(owner, args), so a signal can store and invoke them uniformly.
//
// A is the argument pack of a signal. It is either the single argument, or a
// struct whose exported fields are the positional arguments. A callable is
// compatible with a pack when:
//
//   - it takes no parameters, or
//   - it takes one parameter the whole pack converts to, or
//   - its parameters convert pairwise from a prefix of the pack's exported fields;
//
// and it returns nothing, anything when R is Void, or one result converting
// to R. Conversions allowed are assignment, numeric conversion, and
// conversion between types of the same kind.
package slot

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/methodid"
)

// Void is the result type of signals whose slot results are discarded.
type Void = struct{}

// InvokeMethod is the name of the call method of functor objects.
const InvokeMethod = "Invoke"

var ErrIncompatible = errors.New("slot: incompatible callable")

// Func is an erased slot. owner is nil for ownerless slots.
type Func[A, R any] func(owner unsafe.Pointer, args A) R

// Invoker is a functor object.
type Invoker[A, R any] interface {
	Invoke(args A) R
}

// Adapt erases an ownerless callable.
func Adapt[A, R any](fn any) (Func[A, R], error) {
	switch f := fn.(type) {
	case func(A) R:
		if f != nil {
			return func(_ unsafe.Pointer, args A) R { return f(args) }, nil
		}
	case func(A):
		if f != nil {
			return func(_ unsafe.Pointer, args A) R {
				f(args)
				var zero R
				return zero
			}, nil
		}
	case func() R:
		if f != nil {
			return func(unsafe.Pointer, A) R { return f() }, nil
		}
	case func():
		if f != nil {
			return func(unsafe.Pointer, A) R {
				f()
				var zero R
				return zero
			}, nil
		}
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Wrapf(ErrIncompatible, "%T is not a function", fn)
	}
	call, err := newPlan[A, R](v.Type(), 0)
	if err != nil {
		return nil, err
	}
	return func(_ unsafe.Pointer, args A) R {
		return call(v, reflect.Value{}, args)
	}, nil
}

// AdaptMethod erases a callable registered on behalf of the owner at address
// owner, of type receiver, which must be a pointer type. It returns the
// erased slot, the method identity of the callable and whether the callable
// receives the owner as its first parameter.
//
// Method values taken on the owner itself are rewritten to the method
// expression, so the slot always runs against the owner it is invoked with.
// Method values taken on any other object, and callables that do not take
// the owner, are invoked with the arguments only.
func AdaptMethod[A, R any](fn any, receiver reflect.Type, owner unsafe.Pointer) (Func[A, R], methodid.ID, bool, error) {
	if receiver == nil || receiver.Kind() != reflect.Pointer {
		return nil, methodid.ID{}, false, errors.Wrapf(ErrIncompatible, "owner type %v is not a pointer", receiver)
	}
	v := methodid.Canonical(fn, receiver, owner)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, methodid.ID{}, false, errors.Wrapf(ErrIncompatible, "%T is not a function", fn)
	}
	id := methodid.OfValue(v)
	t := v.Type()
	if t.NumIn() > 0 && acceptsOwner(t.In(0), receiver) {
		call, err := newPlan[A, R](t, 1)
		if err != nil {
			return nil, methodid.ID{}, false, err
		}
		elem := receiver.Elem()
		return func(owner unsafe.Pointer, args A) R {
			return call(v, reflect.NewAt(elem, owner), args)
		}, id, true, nil
	}
	f, err := Adapt[A, R](v.Interface())
	if err != nil {
		return nil, methodid.ID{}, false, err
	}
	return f, id, false, nil
}

// Method erases a method expression, or any function taking the owner first.
func Method[T, A, R any](m func(*T, A) R) Func[A, R] {
	return func(owner unsafe.Pointer, args A) R {
		return m((*T)(owner), args)
	}
}

// Action is Method for owner functions without a result.
func Action[T, A, R any](m func(*T, A)) Func[A, R] {
	return func(owner unsafe.Pointer, args A) R {
		m((*T)(owner), args)
		var zero R
		return zero
	}
}

// Object erases a functor. When obj is a non-nil pointer, the returned owner
// is its address and the slot re-applies whatever owner it is invoked with,
// so the functor can be relocated. Otherwise owner is nil and the slot calls
// obj itself.
func Object[A, R any](obj Invoker[A, R]) (f Func[A, R], id methodid.ID, owner unsafe.Pointer) {
	v := reflect.ValueOf(obj)
	t := v.Type()
	id = methodid.OfInvoker(t, InvokeMethod)
	if t.Kind() == reflect.Pointer && !v.IsNil() {
		elem := t.Elem()
		return func(p unsafe.Pointer, args A) R {
			return reflect.NewAt(elem, p).Interface().(Invoker[A, R]).Invoke(args)
		}, id, v.UnsafePointer()
	}
	return func(_ unsafe.Pointer, args A) R {
		return obj.Invoke(args)
	}, id, nil
}

func acceptsOwner(param, receiver reflect.Type) bool {
	if param == receiver {
		return true
	}
	return param.Kind() == reflect.Interface && param.NumMethod() > 0 && receiver.Implements(param)
}
