package signals

import (
	"reflect"
	"unsafe"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/connection"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/methodid"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/slot"
)

// These are free functions because Go methods cannot have type parameters.
// They register a statically typed method without reflection on the call
// path, and share keys with ConnectMethod for the same owner and method.

// Bind registers method on behalf of owner.
func Bind[T, A, R any](p Port[A, R], owner *T, method func(*T, A) R) connection.Connection {
	return bind(p.sig, owner, methodid.Of(method), method == nil, slot.Method(method))
}

// BindAction is Bind for methods without a result.
func BindAction[T, A, R any](p Port[A, R], owner *T, method func(*T, A)) connection.Connection {
	return bind(p.sig, owner, methodid.Of(method), method == nil, slot.Action[T, A, R](method))
}

func ScopeBind[T, A, R any](p Port[A, R], owner *T, method func(*T, A) R) *ScopedConnection[A, R] {
	return newScopedConnection(p.sig, Bind(p, owner, method), reflect.TypeFor[*T]())
}

func ScopeBindAction[T, A, R any](p Port[A, R], owner *T, method func(*T, A)) *ScopedConnection[A, R] {
	return newScopedConnection(p.sig, BindAction(p, owner, method), reflect.TypeFor[*T]())
}

func bind[T, A, R any](s *Signal[A, R], owner *T, id methodid.ID, nilMethod bool, call slot.Func[A, R]) connection.Connection {
	if owner == nil {
		panic("signals: owner must be a non-nil pointer")
	}
	if nilMethod {
		panic("signals: nil method")
	}
	ptr := unsafe.Pointer(owner)
	return s.insert(connection.New(uintptr(ptr), id), ptr, call)
}
