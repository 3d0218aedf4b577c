package signals

import (
	"fmt"
	"reflect"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/connection"
)

// ScopedConnection owns one registration and removes it when disposed:
//
//	c := sig.ScopeConnect(fn)
//	defer c.Dispose()
//
// While a handle is active its connection is registered on its signal. The
// handle does not keep the signal alive and is not told when the signal is
// relocated or dropped: the holder must dispose the handle before abandoning
// the signal, and call Retarget after Signal.MoveFrom. Disposing a handle
// whose signal was abandoned is a contract violation that goes undetected.
//
// Released and moved-from handles are inert.
type ScopedConnection[A, R any] struct {
	sig       *Signal[A, R]
	conn      connection.Connection
	ownerType reflect.Type
}

func newScopedConnection[A, R any](sig *Signal[A, R], conn connection.Connection, ownerType reflect.Type) *ScopedConnection[A, R] {
	return &ScopedConnection[A, R]{sig: sig, conn: conn, ownerType: ownerType}
}

// Connection returns the owned key, and false once the handle is inert.
func (h *ScopedConnection[A, R]) Connection() (connection.Connection, bool) {
	return h.conn, h.sig != nil
}

func (h *ScopedConnection[A, R]) Signal() *Signal[A, R] {
	return h.sig
}

func (h *ScopedConnection[A, R]) Active() bool {
	return h.sig != nil
}

// Release disconnects the registration now and makes the handle inert.
func (h *ScopedConnection[A, R]) Release() {
	if h.sig == nil {
		return
	}
	h.sig.Disconnect(h.conn)
	h.reset()
}

func (h *ScopedConnection[A, R]) Dispose() {
	h.Release()
}

// Move transfers the registration to a new handle, leaving h inert.
func (h *ScopedConnection[A, R]) Move() *ScopedConnection[A, R] {
	moved := &ScopedConnection[A, R]{sig: h.sig, conn: h.conn, ownerType: h.ownerType}
	h.reset()
	return moved
}

// Assign is move assignment: h first disconnects its own registration, then
// adopts the one owned by other, which becomes inert. Assigning a handle to
// itself keeps its registration. A nil other only releases h, and so does an
// other owning the same key, since that registration is gone once h's own is
// disconnected.
func (h *ScopedConnection[A, R]) Assign(other *ScopedConnection[A, R]) {
	var incoming *ScopedConnection[A, R]
	if other != nil {
		incoming = other.Move()
	} else {
		incoming = &ScopedConnection[A, R]{}
	}
	sig, conn := h.sig, h.conn
	h.Release()
	if sig != nil && incoming.sig == sig && incoming.conn == conn {
		incoming.reset()
	}
	h.swap(incoming)
}

// MoveInstance re-keys the registrations of the current owner to dst, on the
// signal and in the handle alike. It does nothing for ownerless connections.
func (h *ScopedConnection[A, R]) MoveInstance(dst any) {
	if h.sig == nil || h.conn.IsSynthetic() {
		return
	}
	ptr, typ := instanceOf(dst)
	if h.ownerType != nil && typ != h.ownerType {
		panic(fmt.Sprintf("signals: cannot move %v registration to %v", h.ownerType, typ))
	}
	h.sig.moveInstance(ptr, h.conn.Instance())
	h.conn = connection.New(uintptr(ptr), h.conn.Method())
}

// Retarget points an active handle at the signal its registration was moved
// to with Signal.MoveFrom.
func (h *ScopedConnection[A, R]) Retarget(sig *Signal[A, R]) {
	if h.sig == nil {
		return
	}
	h.sig = sig
}

func (h *ScopedConnection[A, R]) swap(other *ScopedConnection[A, R]) {
	h.sig, other.sig = other.sig, h.sig
	h.conn, other.conn = other.conn, h.conn
	h.ownerType, other.ownerType = other.ownerType, h.ownerType
}

func (h *ScopedConnection[A, R]) reset() {
	h.sig = nil
	h.conn = connection.Connection{}
	h.ownerType = nil
}
