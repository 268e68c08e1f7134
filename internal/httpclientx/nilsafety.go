package httpclientx

import (
	"errors"
	"reflect"
)

// ErrIsNil indicates a nil map, pointer, or slice where we need a value.
var ErrIsNil = errors.New("httpclientx: nil map, pointer, or slice")

// rejectNil returns [ErrIsNil] iff value is a nil map, pointer, or slice.
func rejectNil(value any) error {
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.IsNil() {
			return ErrIsNil
		}
	}
	return nil
}
