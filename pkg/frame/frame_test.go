package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(NewNumeric("a", []float64{1, 2}), NewNumeric("b", []float64{1}))
	require.Error(t, err)

	_, err = New(NewNumeric("a", []float64{1}), NewCategorical("a", []string{"x"}, nil))
	require.Error(t, err)

	f, err := New(NewNumeric("a", []float64{1, 2}), NewCategorical("b", []string{"x", "y"}, nil))
	require.NoError(t, err)
	require.Equal(t, 2, f.NumRows())
	require.Equal(t, []string{"a", "b"}, f.Names())
	require.Equal(t, []string{"b"}, f.ColumnsOfKind(Categorical))
}

func TestColumnErrors(t *testing.T) {
	f, err := New(NewNumeric("a", []float64{1}))
	require.NoError(t, err)

	_, err = f.Column("z")
	require.ErrorIs(t, err, ErrColumnNotFound)

	err = f.Require("a", "y", "z")
	require.ErrorIs(t, err, ErrColumnNotFound)
	require.Contains(t, err.Error(), "column y")
	require.Contains(t, err.Error(), "column z")
	require.NoError(t, f.Require("a"))
}

func TestSeriesNulls(t *testing.T) {
	num := NewNumeric("n", []float64{1, math.NaN()})
	require.False(t, num.IsNull(0))
	require.True(t, num.IsNull(1))
	require.True(t, num.HasNulls())
	require.Equal(t, "", num.StringAt(1))
	require.Equal(t, "1", num.StringAt(0))

	cat := NewCategorical("c", []string{"x", "", "x", "y"}, []bool{false, true, false, false})
	require.True(t, cat.IsNull(1))
	require.Equal(t, 2, cat.Cardinality())

	clean := NewCategorical("c", []string{"x"}, nil)
	require.False(t, clean.HasNulls())
}

func TestCopyAndSetDoNotShareColumns(t *testing.T) {
	f, err := New(NewNumeric("a", []float64{1, 2}))
	require.NoError(t, err)
	c := f.Copy()
	require.NoError(t, c.Set(NewNumeric("b", []float64{3, 4})))
	require.NoError(t, c.Set(NewNumeric("a", []float64{5, 6})))

	require.Equal(t, []string{"a"}, f.Names())
	a, _ := f.Column("a")
	require.Equal(t, []float64{1, 2}, a.Floats)
	require.Equal(t, []string{"a", "b"}, c.Names())

	require.Error(t, c.Set(NewNumeric("c", []float64{1})))
}

func TestDropAndTake(t *testing.T) {
	f, err := New(
		NewNumeric("a", []float64{1, 2, 3}),
		NewCategorical("b", []string{"x", "", "z"}, []bool{false, true, false}),
		NewNumeric("c", []float64{7, 8, 9}),
	)
	require.NoError(t, err)

	taken := f.Take([]int{2, 0})
	b, _ := taken.Column("b")
	require.Equal(t, []string{"z", "x"}, b.Strings)
	require.Equal(t, []bool{false, false}, b.Nulls)
	require.Equal(t, 2, taken.NumRows())

	f.Drop("b", "unknown")
	require.Equal(t, []string{"a", "c"}, f.Names())
	c, err := f.Column("c")
	require.NoError(t, err)
	require.Equal(t, []float64{7, 8, 9}, c.Floats)
}

func TestSortByIndex(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f, err := New(
		NewTime("ts", []time.Time{base.Add(2 * time.Hour), {}, base, base.Add(time.Hour)}, []bool{false, true, false, false}),
		NewNumeric("v", []float64{3, 9, 1, 2}),
	)
	require.NoError(t, err)

	_, err = f.SortByIndex()
	require.Error(t, err)

	f.IndexColumn = "ts"
	sorted, err := f.SortByIndex()
	require.NoError(t, err)
	v, _ := sorted.Column("v")
	require.Equal(t, []float64{1, 2, 3, 9}, v.Floats)
	require.Equal(t, "ts", sorted.IndexColumn)

	f.IndexColumn = "v"
	_, err = f.Index()
	require.Error(t, err)
}
