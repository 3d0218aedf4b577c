// Package signals implements an in-process signal/slot registry.
//
// A Signal[A, R] keeps its slots ordered by connection key and invokes all
// of them, synchronously and in key order, on Emit. A is the argument pack
// (see package slot for how callables are matched against it), R the slot
// result type, Void when results are discarded.
//
// Signals are not safe for concurrent use.
package signals

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/connection"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/methodid"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/slot"
)

// noCopy makes go vet reject copies of a Signal; relocate with MoveFrom.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type entry[A, R any] struct {
	conn  connection.Connection
	owner unsafe.Pointer
	call  slot.Func[A, R]

	// serial identifies the registration across re-keying by MoveInstance.
	serial uint64
}

var serials atomic.Uint64

// Signal is a registry of slots keyed by connection.Connection.
// The zero value is an empty signal ready to use.
//
// Owners are passed as non-nil pointers and identified by address, so two
// distinct zero-size owners may be indistinguishable. Passing anything other
// than a non-nil pointer as an owner panics.
type Signal[A, R any] struct {
	_ noCopy

	entries []entry[A, R]
	innerID uint64

	emitting int
	// shared is set while an emission iterates entries in place; the next
	// mutation copies the slice first.
	shared bool

	settings settings
}

var nopLogger = zerolog.Nop()

func New[A, R any](opts ...Option) *Signal[A, R] {
	s := &Signal[A, R]{}
	s.Configure(opts...)
	return s
}

// Configure applies options to an existing signal, typically one embedded by
// value in its owner.
func (s *Signal[A, R]) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(&s.settings)
	}
	if s.settings.logger != nil && s.settings.name == "" {
		s.settings.name = uuid.NewString()
	}
}

func (s *Signal[A, R]) Policy() EmitPolicy {
	return s.settings.policy
}

// Connect registers an ownerless callable under a fresh synthetic instance,
// so registering the same function twice yields two connections.
// It panics if fn is not compatible with the signal; see TryConnect.
func (s *Signal[A, R]) Connect(fn any) connection.Connection {
	c, err := s.TryConnect(fn)
	if err != nil {
		panic(errors.WithMessage(err, "signals: connect"))
	}
	return c
}

func (s *Signal[A, R]) TryConnect(fn any) (connection.Connection, error) {
	call, err := slot.Adapt[A, R](fn)
	if err != nil {
		return connection.Connection{}, err
	}
	return s.insert(s.nextSynthetic(methodid.Of(fn)), nil, call), nil
}

// ConnectObject registers a functor. A pointer functor is keyed by its own
// address and its Invoke method, so it can be disconnected as an instance
// and relocated with MoveInstance; a value functor gets a synthetic instance.
func (s *Signal[A, R]) ConnectObject(obj Invoker[A, R]) connection.Connection {
	if obj == nil {
		panic("signals: nil functor")
	}
	call, id, owner := slot.Object(obj)
	if owner == nil {
		return s.insert(s.nextSynthetic(id), nil, call)
	}
	return s.insert(connection.New(uintptr(owner), id), owner, call)
}

// ConnectMethod registers method on behalf of owner. method is either a
// method expression ((*T).M), a method value taken on a *T, a function
// taking *T first, or any other compatible callable that is merely keyed by
// owner. Registering the same (owner, method) pair again replaces the slot.
// It panics if method is not compatible with the signal; see TryConnectMethod.
func (s *Signal[A, R]) ConnectMethod(method, owner any) connection.Connection {
	c, err := s.TryConnectMethod(method, owner)
	if err != nil {
		panic(errors.WithMessage(err, "signals: connect method"))
	}
	return c
}

func (s *Signal[A, R]) TryConnectMethod(method, owner any) (connection.Connection, error) {
	ptr, typ := instanceOf(owner)
	call, id, _, err := slot.AdaptMethod[A, R](method, typ, ptr)
	if err != nil {
		return connection.Connection{}, err
	}
	return s.insert(connection.New(uintptr(ptr), id), ptr, call), nil
}

func (s *Signal[A, R]) ScopeConnect(fn any) *ScopedConnection[A, R] {
	return newScopedConnection(s, s.Connect(fn), nil)
}

func (s *Signal[A, R]) ScopeConnectObject(obj Invoker[A, R]) *ScopedConnection[A, R] {
	c := s.ConnectObject(obj)
	var ownerType reflect.Type
	if !c.IsSynthetic() {
		ownerType = reflect.TypeOf(obj)
	}
	return newScopedConnection(s, c, ownerType)
}

func (s *Signal[A, R]) ScopeConnectMethod(method, owner any) *ScopedConnection[A, R] {
	return newScopedConnection(s, s.ConnectMethod(method, owner), reflect.TypeOf(owner))
}

// Disconnect removes the slot registered under c, if any.
func (s *Signal[A, R]) Disconnect(c connection.Connection) {
	i, found := s.search(c)
	if !found {
		return
	}
	s.detach()
	s.entries = slices.Delete(s.entries, i, i+1)
	s.debug().Stringer("connection", c).Msg("disconnected")
}

// DisconnectInstance removes every slot registered on behalf of owner.
func (s *Signal[A, R]) DisconnectInstance(owner any) {
	ptr, _ := instanceOf(owner)
	lo, hi := s.span(uint64(uintptr(ptr)))
	if lo == hi {
		return
	}
	s.detach()
	s.entries = slices.Delete(s.entries, lo, hi)
	s.debug().Uint64("instance", uint64(uintptr(ptr))).Int("slots", hi-lo).Msg("instance disconnected")
}

// DisconnectFunc removes every slot registered with fn, whatever its owner.
// Bound registrations are matched by method expression, not method value.
func (s *Signal[A, R]) DisconnectFunc(fn any) {
	id := methodid.Of(fn)
	if id.IsZero() {
		return
	}
	s.removeWhere(func(e entry[A, R]) bool { return e.conn.Method() == id })
}

// DisconnectMethod removes the slot registered with method on behalf of owner.
func (s *Signal[A, R]) DisconnectMethod(method, owner any) {
	ptr, typ := instanceOf(owner)
	s.Disconnect(connection.New(uintptr(ptr), methodid.OfMethod(method, typ, ptr)))
}

// Emit invokes every slot in key order with args.
func (s *Signal[A, R]) Emit(args A) {
	s.emit(nil, args)
}

// EmitAccumulate is Emit passing each slot result to acc, in key order.
func (s *Signal[A, R]) EmitAccumulate(acc func(R), args A) {
	s.emit(acc, args)
}

func (s *Signal[A, R]) Clear() {
	s.entries = nil
	s.shared = false
	s.debug().Msg("cleared")
}

// MoveInstance re-keys every slot of src to dst and invokes them against dst
// from then on. Use it whenever an owner is copied to a new location and the
// old one is abandoned. dst and src must have the same type.
func (s *Signal[A, R]) MoveInstance(dst, src any) {
	dp, dt := instanceOf(dst)
	sp, st := instanceOf(src)
	if dt != st {
		panic(fmt.Sprintf("signals: cannot move %v registrations to %v", st, dt))
	}
	s.moveInstance(dp, uint64(uintptr(sp)))
}

// Swap exchanges the registrations and synthetic counters of two signals.
func (s *Signal[A, R]) Swap(other *Signal[A, R]) {
	if other == s {
		return
	}
	s.entries, other.entries = other.entries, s.entries
	s.innerID, other.innerID = other.innerID, s.innerID
	s.shared, other.shared = other.shared, s.shared
}

// MoveFrom takes over the registrations of other, leaving it empty. Scoped
// connections created on other must be moved along with Retarget.
func (s *Signal[A, R]) MoveFrom(other *Signal[A, R]) {
	if other == s {
		return
	}
	s.Clear()
	s.Swap(other)
}

func (s *Signal[A, R]) Len() int {
	return len(s.entries)
}

func (s *Signal[A, R]) Contains(c connection.Connection) bool {
	_, found := s.search(c)
	return found
}

// Connections returns the registered keys in emission order.
func (s *Signal[A, R]) Connections() []connection.Connection {
	result := make([]connection.Connection, len(s.entries))
	for i, e := range s.entries {
		result[i] = e.conn
	}
	return result
}

// Port returns the restricted view of s meant to be handed to third parties.
func (s *Signal[A, R]) Port() Port[A, R] {
	return Port[A, R]{sig: s}
}

func (s *Signal[A, R]) emit(acc func(R), args A) {
	s.emitting++
	trace := s.traceEmission()
	defer func() {
		s.emitting--
		if s.emitting == 0 {
			s.shared = false
		}
		if trace != nil {
			trace.Msg("emitted")
		}
	}()

	if s.settings.policy == Live {
		s.emitLive(acc, args)
		return
	}
	entries := s.entries
	s.shared = true
	for _, e := range entries {
		result := e.call(e.owner, args)
		if acc != nil {
			acc(result)
		}
	}
}

// emitLive invokes each registration at most once, even when a slot
// re-keys it past the cursor.
func (s *Signal[A, R]) emitLive(acc func(R), args A) {
	invoked := make(map[uint64]struct{}, len(s.entries))
	for i := 0; i < len(s.entries); {
		e := s.entries[i]
		if _, done := invoked[e.serial]; !done {
			invoked[e.serial] = struct{}{}
			result := e.call(e.owner, args)
			if acc != nil {
				acc(result)
			}
		}
		next, found := s.search(e.conn)
		if found {
			next++
		}
		i = next
	}
}

func (s *Signal[A, R]) moveInstance(dst unsafe.Pointer, src uint64) {
	to := uint64(uintptr(dst))
	if to == src {
		return
	}
	lo, hi := s.span(src)
	if lo == hi {
		return
	}
	s.detach()
	moved := slices.Clone(s.entries[lo:hi])
	s.entries = slices.Delete(s.entries, lo, hi)
	for _, e := range moved {
		e.conn = connection.New(uintptr(dst), e.conn.Method())
		e.owner = dst
		s.store(e)
	}
	s.debug().Uint64("from", src).Uint64("to", to).Int("slots", len(moved)).Msg("instance moved")
}

func (s *Signal[A, R]) insert(c connection.Connection, owner unsafe.Pointer, call slot.Func[A, R]) connection.Connection {
	if s.put(c, owner, call) {
		s.debug().Stringer("connection", c).Msg("slot replaced")
	} else {
		s.debug().Stringer("connection", c).Msg("connected")
	}
	return c
}

// put stores the slot under c and reports whether it replaced another one.
func (s *Signal[A, R]) put(c connection.Connection, owner unsafe.Pointer, call slot.Func[A, R]) bool {
	return s.store(entry[A, R]{conn: c, owner: owner, call: call, serial: serials.Add(1)})
}

// store inserts e, or overwrites the slot already registered under e.conn
// while keeping that registration's serial.
func (s *Signal[A, R]) store(e entry[A, R]) bool {
	i, found := s.search(e.conn)
	s.detach()
	if found {
		s.entries[i].owner = e.owner
		s.entries[i].call = e.call
		return true
	}
	s.entries = slices.Insert(s.entries, i, e)
	return false
}

func (s *Signal[A, R]) removeWhere(match func(entry[A, R]) bool) {
	if !slices.ContainsFunc(s.entries, match) {
		return
	}
	s.detach()
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, match)
	s.debug().Int("slots", before-len(s.entries)).Msg("method disconnected")
}

func (s *Signal[A, R]) nextSynthetic(id methodid.ID) connection.Connection {
	s.innerID++
	return connection.Synthetic(s.innerID, id)
}

func (s *Signal[A, R]) search(c connection.Connection) (int, bool) {
	return slices.BinarySearchFunc(s.entries, c, func(e entry[A, R], target connection.Connection) int {
		return e.conn.Compare(target)
	})
}

// span returns the index range of the slots registered on instance.
func (s *Signal[A, R]) span(instance uint64) (int, int) {
	lo := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].conn.Instance() >= instance
	})
	hi := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].conn.Instance() > instance
	})
	return lo, hi
}

func (s *Signal[A, R]) detach() {
	if s.shared {
		s.entries = slices.Clone(s.entries)
		s.shared = false
	}
}

func (s *Signal[A, R]) log() *zerolog.Logger {
	if s.settings.logger == nil {
		return &nopLogger
	}
	return s.settings.logger
}

// traceEmission logs the start of an emission and returns the event that
// closes it, or nil when tracing is off. Both carry the same emission ID so
// nested emissions can be told apart.
func (s *Signal[A, R]) traceEmission() *zerolog.Event {
	if s.log().GetLevel() > zerolog.TraceLevel || zerolog.GlobalLevel() > zerolog.TraceLevel {
		return nil
	}
	id := ulid.Make()
	s.log().Trace().
		Str("signal", s.settings.name).
		Stringer("emission", id).
		Int("depth", s.emitting).
		Int("slots", len(s.entries)).
		Msg("emit")
	return s.log().Trace().Str("signal", s.settings.name).Stringer("emission", id)
}

func (s *Signal[A, R]) debug() *zerolog.Event {
	return s.log().Debug().Str("signal", s.settings.name)
}

func instanceOf(owner any) (unsafe.Pointer, reflect.Type) {
	v := reflect.ValueOf(owner)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic(fmt.Sprintf("signals: owner must be a non-nil pointer, got %T", owner))
	}
	return v.UnsafePointer(), v.Type()
}
