package template

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// valueState classifies a bound value.
type valueState int

const (
	resolved valueState = iota
	absent
	blank
	unsupportedKind
)

// format converts a bound value to its textual form.
func (r *Renderer) format(v any) (string, valueState) {
	switch val := v.(type) {
	case nil:
		return "", absent
	case string:
		if val == "" {
			return "", blank
		}
		return val, resolved
	case bool:
		return strconv.FormatBool(val), resolved
	case int:
		return strconv.Itoa(val), resolved
	case int64:
		return strconv.FormatInt(val, 10), resolved
	case int32:
		return strconv.FormatInt(int64(val), 10), resolved
	case uint:
		return strconv.FormatUint(uint64(val), 10), resolved
	case uint64:
		return strconv.FormatUint(val, 10), resolved
	case float64:
		return strconv.FormatFloat(val, 'f', r.floatPrecision, 64), resolved
	case float32:
		return strconv.FormatFloat(float64(val), 'f', r.floatPrecision, 32), resolved
	case time.Time:
		if val.IsZero() {
			return "", absent
		}
		return val.Format(r.dateLayout), resolved
	case *time.Time:
		if val == nil {
			return "", absent
		}
		return r.format(*val)
	case fmt.Stringer:
		return r.stringer(val)
	}
	return r.reflectFormat(reflect.ValueOf(v))
}

// stringer guards against typed nil pointers behind the interface.
func (r *Renderer) stringer(s fmt.Stringer) (string, valueState) {
	rv := reflect.ValueOf(s)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", absent
	}
	text := s.String()
	if text == "" {
		return "", blank
	}
	return text, resolved
}

// reflectFormat handles named types and pointers to supported kinds.
func (r *Renderer) reflectFormat(rv reflect.Value) (string, valueState) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", absent
		}
		return r.format(rv.Elem().Interface())
	case reflect.String:
		return r.format(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), resolved
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), resolved
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), resolved
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', r.floatPrecision, 32), resolved
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', r.floatPrecision, 64), resolved
	default:
		return "", unsupportedKind
	}
}
