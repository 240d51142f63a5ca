package validators

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// isEmpty matches the form layer's notion of "no input": nil, the empty
// string, or an empty list.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	if items, ok := listItems(value); ok {
		return len(items) == 0
	}
	return false
}

// listItems returns the elements of slice and array values.
func listItems(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}, true
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// every applies check to each element of a list value, or to the value
// itself when it is not a list. The first failing result wins.
func every(value any, check func(any) Result) Result {
	items, ok := listItems(value)
	if !ok {
		return check(value)
	}
	for _, item := range items {
		if res := check(item); !res.OK() {
			return res
		}
	}
	return Valid
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		if items, ok := listItems(value); ok {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = toString(item)
			}
			return strings.Join(parts, ",")
		}
		return fmt.Sprint(v)
	}
}

// toNumber converts form input to a float. ok is false for anything that
// does not read as a finite number.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return finite(float64(v))
	case float64:
		return finite(v)
	default:
		s := strings.TrimSpace(toString(value))
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
