package connection

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/methodid"
)

func handlerA(int) {}

func handlerB(int) {}

func TestConnection_EqualityUsesBothComponents(t *testing.T) {
	a := methodid.Of(handlerA)
	b := methodid.Of(handlerB)

	assert.Equal(t, New(0x1000, a), New(0x1000, a))
	assert.NotEqual(t, New(0x1000, a), New(0x1000, b))
	assert.NotEqual(t, New(0x1000, a), New(0x2000, a))
}

func TestConnection_OrdersByInstanceThenMethod(t *testing.T) {
	low := methodid.ID{1, 0}
	high := methodid.ID{2, 0}

	keys := []Connection{
		New(0x2000, low),
		New(0x1000, high),
		Synthetic(1, low),
		New(0x1000, low),
	}
	slices.SortFunc(keys, Connection.Compare)

	assert.Equal(t, []Connection{
		New(0x1000, low),
		New(0x1000, high),
		New(0x2000, low),
		Synthetic(1, low),
	}, keys)
	assert.True(t, keys[0].Less(keys[1]))
	assert.False(t, keys[1].Less(keys[0]))
	assert.Equal(t, 0, keys[2].Compare(keys[2]))
}

func TestConnection_SyntheticInstances(t *testing.T) {
	id := methodid.Of(handlerA)
	first := Synthetic(1, id)
	second := Synthetic(2, id)

	assert.True(t, first.IsSynthetic())
	assert.False(t, New(0x1000, id).IsSynthetic())
	assert.NotEqual(t, first, second)
	assert.True(t, first.Less(second))
	assert.Equal(t, SyntheticBase|1, first.Instance())
	assert.Equal(t, id, first.Method())
}

func TestConnection_SyntheticExhaustionPanics(t *testing.T) {
	assert.Panics(t, func() { Synthetic(SyntheticBase, methodid.ID{}) })
	assert.NotPanics(t, func() { Synthetic(SyntheticBase-1, methodid.ID{}) })
}

func TestConnection_IsZero(t *testing.T) {
	assert.True(t, Connection{}.IsZero())
	assert.False(t, Synthetic(1, methodid.ID{}).IsZero())
}

func TestConnection_String(t *testing.T) {
	id := methodid.Of(handlerA)
	assert.Contains(t, Synthetic(3, id).String(), "#3/")
	assert.Contains(t, New(0x1000, id).String(), "0x1000/")
	assert.Contains(t, New(0x1000, id).String(), "handlerA")
}
