// internal/app/system/listview/sort.go
package listview

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SortBy sorts items in place by the value extracted with key.
//
// The sort is stable in both directions: items with equal keys keep the
// order the backend returned them in. Descending reverses the comparison,
// not the result, so ties are not flipped.
func SortBy[T any](items []T, key func(T) any, order Order) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := Compare(key(a), key(b))
		if order == Desc {
			return -c
		}
		return c
	})
}

// Compare orders two extracted sort values. Strings compare lower-cased,
// numbers numerically, false before true, and times chronologically.
// nil and zero times sort first. Mixed kinds fall back to their
// formatted text.
func Compare(a, b any) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(x), strings.ToLower(y))
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmpBool(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case fmt.Stringer:
		if y, ok := b.(fmt.Stringer); ok {
			return compareText(x.String(), y.String())
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

// compareText compares identifiers: numeric strings as numbers, the rest
// as case-insensitive text.
func compareText(x, y string) int {
	if fx, err := strconv.ParseFloat(x, 64); err == nil {
		if fy, err := strconv.ParseFloat(y, 64); err == nil {
			return cmp.Compare(fx, fy)
		}
	}
	return strings.Compare(strings.ToLower(x), strings.ToLower(y))
}

func cmpBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

func deref(v any) any {
	switch p := v.(type) {
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *int:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
