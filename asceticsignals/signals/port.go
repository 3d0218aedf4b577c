package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/connection"
)

// Port exposes a signal to third parties without letting them emit, clear,
// swap or move it. The owning type keeps the Signal in an unexported field
// and hands out its Port:
//
//	type Counter struct {
//		valueChanged signals.Signal[int, signals.Void]
//	}
//
//	func (c *Counter) ValueChanged() signals.Port[int, signals.Void] {
//		return c.valueChanged.Port()
//	}
//
// A Port refers to the signal by address, so obtain a fresh one after the
// owner is relocated.
type Port[A, R any] struct {
	sig *Signal[A, R]
}

var _ Connector[int, Void] = Port[int, Void]{}
var _ Connector[int, Void] = (*Signal[int, Void])(nil)
var _ Emitter[int, Void] = (*Signal[int, Void])(nil)

func (p Port[A, R]) Connect(fn any) connection.Connection {
	return p.sig.Connect(fn)
}

func (p Port[A, R]) TryConnect(fn any) (connection.Connection, error) {
	return p.sig.TryConnect(fn)
}

func (p Port[A, R]) ConnectObject(obj Invoker[A, R]) connection.Connection {
	return p.sig.ConnectObject(obj)
}

func (p Port[A, R]) ConnectMethod(method, owner any) connection.Connection {
	return p.sig.ConnectMethod(method, owner)
}

func (p Port[A, R]) TryConnectMethod(method, owner any) (connection.Connection, error) {
	return p.sig.TryConnectMethod(method, owner)
}

func (p Port[A, R]) ScopeConnect(fn any) *ScopedConnection[A, R] {
	return p.sig.ScopeConnect(fn)
}

func (p Port[A, R]) ScopeConnectObject(obj Invoker[A, R]) *ScopedConnection[A, R] {
	return p.sig.ScopeConnectObject(obj)
}

func (p Port[A, R]) ScopeConnectMethod(method, owner any) *ScopedConnection[A, R] {
	return p.sig.ScopeConnectMethod(method, owner)
}

func (p Port[A, R]) Disconnect(c connection.Connection) {
	p.sig.Disconnect(c)
}

func (p Port[A, R]) DisconnectInstance(owner any) {
	p.sig.DisconnectInstance(owner)
}

func (p Port[A, R]) DisconnectFunc(fn any) {
	p.sig.DisconnectFunc(fn)
}

func (p Port[A, R]) DisconnectMethod(method, owner any) {
	p.sig.DisconnectMethod(method, owner)
}

func (p Port[A, R]) MoveInstance(dst, src any) {
	p.sig.MoveInstance(dst, src)
}
