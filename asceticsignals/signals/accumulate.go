package signals

import (
	"github.com/hashicorp/go-multierror"
)

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Collect returns an accumulator appending every slot result to dst.
func Collect[R any](dst *[]R) func(R) {
	return func(result R) {
		*dst = append(*dst, result)
	}
}

// Sum returns an accumulator adding every slot result to total.
func Sum[N Number](total *N) func(N) {
	return func(result N) {
		*total += result
	}
}

// ErrorCollector gathers the non-nil results of a signal whose slots return
// error. Pass its Add method to EmitAccumulate.
type ErrorCollector struct {
	errs *multierror.Error
}

func (c *ErrorCollector) Add(err error) {
	if err != nil {
		c.errs = multierror.Append(c.errs, err)
	}
}

// Err returns nil when no slot failed.
func (c *ErrorCollector) Err() error {
	return c.errs.ErrorOrNil()
}

func (c *ErrorCollector) Len() int {
	if c.errs == nil {
		return 0
	}
	return c.errs.Len()
}

// EmitErrors emits args on s and returns the errors its slots reported.
// Every slot runs, failing or not.
func EmitErrors[A any](s *Signal[A, error], args A) error {
	var collector ErrorCollector
	s.EmitAccumulate(collector.Add, args)
	return collector.Err()
}
