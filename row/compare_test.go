package row_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compgraph/compgraph/row"
)

func TestCompareTypeOrdering(t *testing.T) {
	// nil < bool < number < string < coordinate list
	values := []any{nil, false, 1, "a", []float64{1, 2}}
	for i := 0; i < len(values)-1; i++ {
		c, err := row.Compare(values[i], values[i+1])
		require.NoError(t, err)
		require.Equal(t, -1, c, "expected %v < %v", values[i], values[i+1])
	}
}

func TestCompareNumericCrossKind(t *testing.T) {
	c, err := row.Compare(int64(3), float64(3))
	require.NoError(t, err)
	require.Equal(t, 0, c)
}

func TestCompareStrings(t *testing.T) {
	c, err := row.Compare("abc", "abd")
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestAsFloat(t *testing.T) {
	cases := []any{1, int32(1), int64(1), float32(1), float64(1)}
	for _, v := range cases {
		f, err := row.AsFloat(v)
		require.NoError(t, err)
		require.Equal(t, 1.0, f)
	}

	_, err := row.AsFloat("nope")
	require.ErrorIs(t, err, row.ErrNotNumeric)
}

func TestKeysEqual(t *testing.T) {
	require.True(t, row.KeysEqual([]any{1, "a"}, []any{int64(1), "a"}))
	require.False(t, row.KeysEqual([]any{1, "a"}, []any{1, "b"}))
	require.False(t, row.KeysEqual([]any{1}, []any{1, 2}))
}

func TestCompareKeysLexicographic(t *testing.T) {
	c, err := row.CompareKeys([]any{1, "a"}, []any{1, "b"})
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = row.CompareKeys([]any{2, "a"}, []any{1, "z"})
	require.NoError(t, err)
	require.Equal(t, 1, c)
}
