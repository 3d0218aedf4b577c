package methodid

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type sampleReceiver struct {
	hits int
}

func (r *sampleReceiver) Handle(int) { r.hits++ }

func (r *sampleReceiver) Other(int) { r.hits += 2 }

func (r *sampleReceiver) Invoke(int) {}

type otherReceiver struct{}

type valueReceiver struct {
	hits int
}

func (v valueReceiver) Handle(int) {}

func (otherReceiver) Handle(int) {}

func freeFunc(int) {}

func anotherFreeFunc(int) {}

func TestOf_SameFunctionSameID(t *testing.T) {
	assert.Equal(t, Of(freeFunc), Of(freeFunc))
}

func TestOf_DistinctFunctionsDistinctIDs(t *testing.T) {
	assert.NotEqual(t, Of(freeFunc), Of(anotherFreeFunc))
	assert.NotEqual(t, Of((*sampleReceiver).Handle), Of((*sampleReceiver).Other))
}

func TestOf_NilAndNonFunctionAreZero(t *testing.T) {
	var fn func(int)
	assert.True(t, Of(fn).IsZero())
	assert.True(t, Of(nil).IsZero())
	assert.True(t, Of(42).IsZero())
	assert.False(t, Of(freeFunc).IsZero())
}

func TestOf_WordsArePopulated(t *testing.T) {
	id := Of(freeFunc)
	assert.NotZero(t, id[0])
	assert.NotZero(t, id[1])
}

func TestOfMethod_MethodValueMatchesMethodExpression(t *testing.T) {
	r := &sampleReceiver{}
	receiver := reflect.TypeOf(r)
	owner := unsafe.Pointer(r)
	assert.Equal(t, Of((*sampleReceiver).Handle), OfMethod(r.Handle, receiver, owner))
	assert.Equal(t, OfMethod((*sampleReceiver).Handle, receiver, owner), OfMethod(r.Handle, receiver, owner))
}

func TestOfMethod_MethodValueOfOtherInstanceIsNotCanonicalised(t *testing.T) {
	owner := &sampleReceiver{}
	other := &sampleReceiver{}
	id := OfMethod(other.Handle, reflect.TypeOf(owner), unsafe.Pointer(owner))
	assert.NotEqual(t, Of((*sampleReceiver).Handle), id)
	assert.Equal(t, Of(other.Handle), id)
}

func TestOfMethod_MethodValueOfOtherTypeIsNotCanonicalised(t *testing.T) {
	o := otherReceiver{}
	r := &sampleReceiver{}
	id := OfMethod(o.Handle, reflect.TypeOf(r), unsafe.Pointer(r))
	assert.NotEqual(t, Of((*sampleReceiver).Handle), id)
	assert.Equal(t, Of(o.Handle), id)
}

func TestOfMethod_ValueReceiverMethodValueIsNotCanonicalised(t *testing.T) {
	v := &valueReceiver{}
	id := OfMethod(v.Handle, reflect.TypeOf(v), unsafe.Pointer(v))
	assert.NotEqual(t, Of((*valueReceiver).Handle), id)
}

func TestOfMethod_PlainFunctionUnchanged(t *testing.T) {
	r := &sampleReceiver{}
	assert.Equal(t, Of(freeFunc), OfMethod(freeFunc, reflect.TypeOf(r), unsafe.Pointer(r)))
}

func TestCanonical_ResolvesMethodValueToExpression(t *testing.T) {
	r := &sampleReceiver{}
	v := Canonical(r.Handle, reflect.TypeOf(r), unsafe.Pointer(r))
	assert.Equal(t, reflect.TypeOf((*sampleReceiver).Handle), v.Type())

	v.Call([]reflect.Value{reflect.ValueOf(r), reflect.ValueOf(1)})
	assert.Equal(t, 1, r.hits)
}

func TestCanonical_WithoutOwnerReturnsInput(t *testing.T) {
	r := &sampleReceiver{}
	v := Canonical(r.Handle, reflect.TypeOf(r), nil)
	assert.Equal(t, reflect.TypeOf(r.Handle), v.Type())
}

func TestOfInvoker(t *testing.T) {
	receiver := reflect.TypeOf(&sampleReceiver{})
	assert.Equal(t, Of((*sampleReceiver).Invoke), OfInvoker(receiver, "Invoke"))
	assert.True(t, OfInvoker(receiver, "Missing").IsZero())
	assert.True(t, OfInvoker(nil, "Invoke").IsZero())
}

func TestID_Compare(t *testing.T) {
	a := ID{1, 5}
	b := ID{1, 7}
	c := ID{2, 0}

	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "<nil>", ID{}.String())
	assert.Contains(t, Of(freeFunc).String(), "methodid.freeFunc")
}
