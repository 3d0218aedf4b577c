package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/disposable"
)

// Composite fans registrations and emissions out to several signals.
type Composite[A, R any] struct {
	delegates []*Signal[A, R]
}

func NewComposite[A, R any](delegates ...*Signal[A, R]) *Composite[A, R] {
	return &Composite[A, R]{delegates: delegates}
}

// ScopeConnect registers fn on every delegate. Disposing the result removes
// all of those registrations.
func (c *Composite[A, R]) ScopeConnect(fn any) disposable.Disposable {
	disposables := disposable.NewCompositeDisposable()
	for _, delegate := range c.delegates {
		disposables.Add(delegate.ScopeConnect(fn))
	}
	return disposables
}

func (c *Composite[A, R]) ScopeConnectMethod(method, owner any) disposable.Disposable {
	disposables := disposable.NewCompositeDisposable()
	for _, delegate := range c.delegates {
		disposables.Add(delegate.ScopeConnectMethod(method, owner))
	}
	return disposables
}

func (c *Composite[A, R]) DisconnectInstance(owner any) {
	for _, delegate := range c.delegates {
		delegate.DisconnectInstance(owner)
	}
}

func (c *Composite[A, R]) DisconnectFunc(fn any) {
	for _, delegate := range c.delegates {
		delegate.DisconnectFunc(fn)
	}
}

func (c *Composite[A, R]) DisconnectMethod(method, owner any) {
	for _, delegate := range c.delegates {
		delegate.DisconnectMethod(method, owner)
	}
}

func (c *Composite[A, R]) MoveInstance(dst, src any) {
	for _, delegate := range c.delegates {
		delegate.MoveInstance(dst, src)
	}
}

// Emit emits on each delegate in turn.
func (c *Composite[A, R]) Emit(args A) {
	for _, delegate := range c.delegates {
		delegate.Emit(args)
	}
}

func (c *Composite[A, R]) EmitAccumulate(acc func(R), args A) {
	for _, delegate := range c.delegates {
		delegate.EmitAccumulate(acc, args)
	}
}
