package slot

import (
	"reflect"

	"github.com/pkg/errors"
)

type argMode int

const (
	argsNone argMode = iota
	argsWhole
	argsSpread
)

// invocation calls fn with owner (when valid) followed by the unpacked args.
type invocation[A, R any] func(fn reflect.Value, owner reflect.Value, args A) R

type param struct {
	field int
	typ   reflect.Type
}

// newPlan checks the signature t against the pack A and result R, skipping
// the first offset parameters, and returns the invocation that bridges them.
func newPlan[A, R any](t reflect.Type, offset int) (invocation[A, R], error) {
	if t.IsVariadic() {
		return nil, errors.Wrapf(ErrIncompatible, "variadic %v", t)
	}
	packType := reflect.TypeFor[A]()
	resultType := reflect.TypeFor[R]()

	mode, params, err := matchParams(t, offset, packType)
	if err != nil {
		return nil, err
	}
	keepResult, err := matchResult(t, resultType)
	if err != nil {
		return nil, err
	}

	return func(fn reflect.Value, owner reflect.Value, args A) R {
		in := make([]reflect.Value, 0, t.NumIn())
		if owner.IsValid() {
			in = append(in, owner)
		}
		pack := reflect.ValueOf(&args).Elem()
		switch mode {
		case argsWhole:
			in = append(in, convert(pack, params[0].typ))
		case argsSpread:
			for _, p := range params {
				in = append(in, convert(pack.Field(p.field), p.typ))
			}
		}
		out := fn.Call(in)

		var result R
		if keepResult {
			reflect.ValueOf(&result).Elem().Set(convert(out[0], resultType))
		}
		return result
	}, nil
}

func matchParams(t reflect.Type, offset int, packType reflect.Type) (argMode, []param, error) {
	n := t.NumIn() - offset
	if n == 0 {
		return argsNone, nil, nil
	}
	if n == 1 && compatible(packType, t.In(offset)) {
		return argsWhole, []param{{field: -1, typ: t.In(offset)}}, nil
	}
	if packType.Kind() != reflect.Struct {
		return 0, nil, errors.Wrapf(ErrIncompatible, "%v does not accept %v", t, packType)
	}

	params := make([]param, 0, n)
	for i := 0; i < packType.NumField() && len(params) < n; i++ {
		f := packType.Field(i)
		if !f.IsExported() {
			continue
		}
		target := t.In(offset + len(params))
		if !compatible(f.Type, target) {
			return 0, nil, errors.Wrapf(ErrIncompatible, "%v: field %s of type %v does not convert to %v", t, f.Name, f.Type, target)
		}
		params = append(params, param{field: i, typ: target})
	}
	if len(params) < n {
		return 0, nil, errors.Wrapf(ErrIncompatible, "%v takes %d arguments, %v provides %d", t, n, packType, len(params))
	}
	return argsSpread, params, nil
}

func matchResult(t reflect.Type, resultType reflect.Type) (bool, error) {
	if resultType == reflect.TypeFor[Void]() || t.NumOut() == 0 {
		return false, nil
	}
	if t.NumOut() > 1 {
		return false, errors.Wrapf(ErrIncompatible, "%v returns %d results", t, t.NumOut())
	}
	if !compatible(t.Out(0), resultType) {
		return false, errors.Wrapf(ErrIncompatible, "%v result does not convert to %v", t, resultType)
	}
	return true, nil
}

func compatible(from, to reflect.Type) bool {
	switch {
	case from.AssignableTo(to):
		return true
	case numeric(from.Kind()) && numeric(to.Kind()):
		return true
	case from.Kind() == to.Kind() && from.ConvertibleTo(to):
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func convert(v reflect.Value, to reflect.Type) reflect.Value {
	if v.Type().AssignableTo(to) {
		return v
	}
	return v.Convert(to)
}
