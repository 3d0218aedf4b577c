package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/connection"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/slot"
)

type Void = slot.Void

type Invoker[A, R any] = slot.Invoker[A, R]

// Connector is the part of a signal third parties may use: registering,
// removing and relocating slots. Both *Signal and Port implement it.
type Connector[A, R any] interface {
	Connect(fn any) connection.Connection
	TryConnect(fn any) (connection.Connection, error)
	ConnectObject(obj Invoker[A, R]) connection.Connection
	ConnectMethod(method, owner any) connection.Connection
	TryConnectMethod(method, owner any) (connection.Connection, error)

	ScopeConnect(fn any) *ScopedConnection[A, R]
	ScopeConnectObject(obj Invoker[A, R]) *ScopedConnection[A, R]
	ScopeConnectMethod(method, owner any) *ScopedConnection[A, R]

	Disconnect(c connection.Connection)
	DisconnectInstance(owner any)
	DisconnectFunc(fn any)
	DisconnectMethod(method, owner any)

	MoveInstance(dst, src any)
}

// Emitter is the part of a signal reserved to its owner.
type Emitter[A, R any] interface {
	Emit(args A)
	EmitAccumulate(acc func(R), args A)
	Clear()
}
