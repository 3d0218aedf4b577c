// Package connection defines the key that identifies one registration on a
// signal: an owner instance address paired with a method identity.
package connection

import (
	"fmt"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/methodid"
)

// SyntheticBase is the first instance value handed out to registrations that
// have no owning object. Go heap addresses never reach it, so synthetic and
// real instances cannot collide.
const SyntheticBase uint64 = 1 << 63

// Connection is an immutable registration key.
// Connections order by instance first, then by method identity.
type Connection struct {
	instance uint64
	method   methodid.ID
}

// New returns the key of method bound to the object at address instance.
func New(instance uintptr, method methodid.ID) Connection {
	return Connection{instance: uint64(instance), method: method}
}

// Synthetic returns the key of an ownerless registration numbered seq.
// It panics once seq leaves the synthetic range instead of wrapping around.
func Synthetic(seq uint64, method methodid.ID) Connection {
	if seq >= SyntheticBase {
		panic("connection: synthetic instance space exhausted")
	}
	return Connection{instance: SyntheticBase | seq, method: method}
}

// Instance returns the owner address, or the synthetic instance value.
func (c Connection) Instance() uint64 {
	return c.instance
}

func (c Connection) Method() methodid.ID {
	return c.method
}

// IsSynthetic reports whether the instance was generated rather than taken
// from an owning object.
func (c Connection) IsSynthetic() bool {
	return c.instance&SyntheticBase != 0
}

func (c Connection) IsZero() bool {
	return c == Connection{}
}

func (c Connection) Compare(other Connection) int {
	switch {
	case c.instance < other.instance:
		return -1
	case c.instance > other.instance:
		return 1
	}
	return c.method.Compare(other.method)
}

func (c Connection) Less(other Connection) bool {
	return c.Compare(other) < 0
}

func (c Connection) String() string {
	if c.IsSynthetic() {
		return fmt.Sprintf("#%d/%s", c.instance&^SyntheticBase, c.method)
	}
	return fmt.Sprintf("0x%x/%s", c.instance, c.method)
}
