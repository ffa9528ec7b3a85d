package rank

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// IDSet is a set of task ids compared by value: 3, 3.0 and json.Number("3")
// are the same id, while "3" is a different one.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids. nil and composite values are skipped.
func NewIDSet(ids ...any) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		if k, ok := idKey(id); ok {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id any) bool {
	k, ok := idKey(id)
	if !ok {
		return false
	}
	_, found := s[k]
	return found
}

// IDKey returns the key under which id is compared, or false when id cannot
// identify a task. Numerically equal ids share a key.
func IDKey(id any) (string, bool) {
	return idKey(id)
}

// idKey maps an id to a comparable key. Numbers share one namespace
// whatever their Go type; strings have their own. nil and composite values
// have no key.
func idKey(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return "s:" + id, true
	case bool:
		if id {
			return "n:1", true
		}
		return "n:0", true
	case float64:
		return "n:" + formatFloat(id), true
	case float32:
		return "n:" + formatFloat(float64(id)), true
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return "n:" + strconv.FormatInt(n, 10), true
		}
		if f, err := id.Float64(); err == nil {
			return "n:" + formatFloat(f), true
		}
		return "s:" + id.String(), true
	}
	if n, ok := integer(v); ok {
		return "n:" + strconv.FormatInt(n, 10), true
	}
	return "", false
}

// integer extracts a value of any Go integer kind.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(n), true
	}
	return 0, false
}

// toInt coerces v the way an integer conversion would: integers pass,
// floats truncate toward zero, booleans become 1 or 0, and numeric strings
// parse after trimming whitespace. Anything else fails.
func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float64:
		return truncate(x)
	case float32:
		return truncate(float64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return saturate(n), true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	if n, ok := integer(v); ok {
		return saturate(n), true
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

func saturate(n int64) int {
	switch {
	case n > math.MaxInt:
		return math.MaxInt
	case n < math.MinInt:
		return math.MinInt
	}
	return int(n)
}

// asList returns v as a list of ids. Only slices and arrays qualify.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, false
	case []any:
		return l, true
	case string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// truthy reports whether v counts as a supplied value: nil, zero numbers,
// false and empty strings or collections do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	if n, ok := integer(v); ok {
		return n != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}

// display renders a raw value for messages.
func display(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// round2 rounds to two decimal places, halves away from zero.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
