package row

import (
	"github.com/pkg/errors"
)

// typeRank orders the value kinds the row model supports so that values of
// different kinds still have a total order: Sort must be able to place any
// row ahead of or behind any other row, including rows with nulls.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int32, int64, float32, float64:
		return 2
	case string:
		return 3
	case []float64:
		return 4
	default:
		return 5
	}
}

// AsFloat coerces a numeric row value to float64, wrapping ErrNotNumeric for
// anything else. Used by mappers/reducers that do arithmetic over row
// columns (Product, Sum, TopN's comparison, AverageSpeed).
func AsFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, errors.Wrapf(ErrNotNumeric, "got %T", v)
	}
}

// Equal reports whether two row values represent the same group-key
// component. Numeric values compare by numeric value regardless of
// concrete int/float type, matching the Python original's untyped
// equality over dict values.
func Equal(a, b any) bool {
	cmp, err := Compare(a, b)
	return err == nil && cmp == 0
}

// KeysEqual reports whether two group-key tuples (as produced by Row.Key)
// are equal component-wise. Both tuples must be the same length (they are
// built from the same key-column list by construction).
func KeysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Compare gives a total order over row values: nil < bool < number <
// string < coordinate-list, with same-kind values compared natively and
// numeric kinds (int/int64/float64/...) compared by numeric value. It is
// the ordering ExternalSort and grouping rely on.
func Compare(a, b any) (int, error) {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1, nil
		}
		return 1, nil
	}
	switch ra {
	case 0: // nil == nil
		return 0, nil
	case 1:
		ba, bb := a.(bool), b.(bool)
		if ba == bb {
			return 0, nil
		}
		if !ba && bb {
			return -1, nil
		}
		return 1, nil
	case 2:
		fa, _ := AsFloat(a)
		fb, _ := AsFloat(b)
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	case 3:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1, nil
		case sa > sb:
			return 1, nil
		default:
			return 0, nil
		}
	case 4:
		la, lb := a.([]float64), b.([]float64)
		n := len(la)
		if len(lb) < n {
			n = len(lb)
		}
		for i := 0; i < n; i++ {
			switch {
			case la[i] < lb[i]:
				return -1, nil
			case la[i] > lb[i]:
				return 1, nil
			}
		}
		return len(la) - len(lb), nil
	default:
		return 0, errors.Errorf("compgraph: value of type %T is not orderable", a)
	}
}

// CompareKeys compares two group-key tuples lexicographically, component
// by component, in the order the key columns were given — ExternalSort's
// "reverse reverses the total order over the full key tuple (not
// per-column)" invariant falls directly out of negating this result.
func CompareKeys(a, b []any) (int, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		c, err := Compare(a[i], b[i])
		if err != nil {
			return 0, errors.Wrapf(err, "comparing key component %d", i)
		}
		if c != 0 {
			return c, nil
		}
	}
	return len(a) - len(b), nil
}
