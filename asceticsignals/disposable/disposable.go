package disposable

// Disposable releases whatever it stands for. Dispose must be safe to call
// more than once.
type Disposable interface {
	Dispose()
}

type callbackDisposable struct {
	callback func()
}

// NewDisposable returns a Disposable running callback on the first Dispose.
func NewDisposable(callback func()) Disposable {
	return &callbackDisposable{callback: callback}
}

func (d *callbackDisposable) Dispose() {
	if d.callback == nil {
		return
	}
	callback := d.callback
	d.callback = nil
	callback()
}

// CompositeDisposable disposes its members in reverse order of addition.
type CompositeDisposable struct {
	delegates []Disposable
}

func NewCompositeDisposable(delegates ...Disposable) *CompositeDisposable {
	return &CompositeDisposable{delegates: delegates}
}

func (d *CompositeDisposable) Add(delegate Disposable) {
	d.delegates = append(d.delegates, delegate)
}

func (d *CompositeDisposable) Len() int {
	return len(d.delegates)
}

func (d *CompositeDisposable) Dispose() {
	delegates := d.delegates
	d.delegates = nil
	for i := len(delegates) - 1; i >= 0; i-- {
		delegates[i].Dispose()
	}
}
