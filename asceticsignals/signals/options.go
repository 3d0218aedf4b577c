package signals

import (
	"github.com/rs/zerolog"
)

// EmitPolicy decides what an emission sees of the changes slots make to the
// signal while it runs.
type EmitPolicy int

const (
	// Snapshot invokes exactly the slots registered when Emit was called.
	// Connects, disconnects and moves made by slots apply from the next Emit.
	Snapshot EmitPolicy = iota
	// Live walks the current registrations in key order, resuming after the
	// last invoked key. Slots added behind the cursor run in the same
	// emission; slots removed before their turn do not run. A registration
	// runs at most once per emission, even when MoveInstance re-keys it
	// past the cursor.
	Live
)

func (p EmitPolicy) String() string {
	switch p {
	case Snapshot:
		return "snapshot"
	case Live:
		return "live"
	default:
		return "unknown"
	}
}

type settings struct {
	policy EmitPolicy
	logger *zerolog.Logger
	name   string
}

type Option func(*settings)

func WithEmitPolicy(policy EmitPolicy) Option {
	return func(s *settings) { s.policy = policy }
}

// WithLogger enables debug logging of registration changes.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = &logger }
}

// WithName sets the value of the "signal" field in log events.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}
