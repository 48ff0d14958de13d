// Package frame holds the in-memory tables the transformers operate on.
package frame

import (
	"errors"
	"fmt"
	"sort"
)

// Frame is an ordered collection of equally long series. IndexColumn, when
// set, names the Time series that orders the rows.
type Frame struct {
	IndexColumn string

	series  []*Series
	columns map[string]int
	numRows int
}

// New builds a frame from the given series. The series are not copied.
func New(series ...*Series) (*Frame, error) {
	f := &Frame{columns: map[string]int{}}
	for i, s := range series {
		if i == 0 {
			f.numRows = s.Len()
		} else if s.Len() != f.numRows {
			return nil, fmt.Errorf("series %s has %d rows, expected %d", s.Name, s.Len(), f.numRows)
		}
		if _, ok := f.columns[s.Name]; ok {
			return nil, fmt.Errorf("duplicate column %s", s.Name)
		}
		f.columns[s.Name] = len(f.series)
		f.series = append(f.series, s)
	}
	return f, nil
}

func (f *Frame) NumRows() int {
	return f.numRows
}

func (f *Frame) NumColumns() int {
	return len(f.series)
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.series))
	for i, s := range f.series {
		names[i] = s.Name
	}
	return names
}

// Columns returns the series in column order.
func (f *Frame) Columns() []*Series {
	return append([]*Series(nil), f.series...)
}

func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

func (f *Frame) Column(name string) (*Series, error) {
	i, ok := f.columns[name]
	if !ok {
		return nil, NewColumnError(name, ErrColumnNotFound)
	}
	return f.series[i], nil
}

// Require checks that every name is present and reports each missing one.
func (f *Frame) Require(names ...string) error {
	var errs []error
	for _, name := range names {
		if !f.Has(name) {
			errs = append(errs, NewColumnError(name, ErrColumnNotFound))
		}
	}
	return errors.Join(errs...)
}

// ColumnsOfKind lists, in column order, the names of series of the given kind.
func (f *Frame) ColumnsOfKind(kind Kind) []string {
	var names []string
	for _, s := range f.series {
		if s.Kind == kind {
			names = append(names, s.Name)
		}
	}
	return names
}

// Index returns the time index series, or nil when the frame has none.
func (f *Frame) Index() (*Series, error) {
	if f.IndexColumn == "" {
		return nil, nil
	}
	s, err := f.Column(f.IndexColumn)
	if err != nil {
		return nil, err
	}
	if s.Kind != Time {
		return nil, NewColumnError(s.Name, fmt.Errorf("index must be a time column, got %s", s.Kind))
	}
	return s, nil
}

// Copy is a shallow copy: series are shared, the column list is not.
func (f *Frame) Copy() *Frame {
	c := &Frame{
		IndexColumn: f.IndexColumn,
		series:      append([]*Series(nil), f.series...),
		columns:     make(map[string]int, len(f.columns)),
		numRows:     f.numRows,
	}
	for k, v := range f.columns {
		c.columns[k] = v
	}
	return c
}

// Set replaces the series with the same name or appends it.
func (f *Frame) Set(s *Series) error {
	if len(f.series) > 0 && s.Len() != f.numRows {
		return fmt.Errorf("series %s has %d rows, expected %d", s.Name, s.Len(), f.numRows)
	}
	if len(f.series) == 0 {
		f.numRows = s.Len()
	}
	if i, ok := f.columns[s.Name]; ok {
		f.series[i] = s
		return nil
	}
	f.columns[s.Name] = len(f.series)
	f.series = append(f.series, s)
	return nil
}

// Drop removes the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) {
	drop := map[string]struct{}{}
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := f.series[:0:0]
	for _, s := range f.series {
		if _, ok := drop[s.Name]; !ok {
			kept = append(kept, s)
		}
	}
	f.series = kept
	f.columns = make(map[string]int, len(kept))
	for i, s := range kept {
		f.columns[s.Name] = i
	}
	if _, ok := drop[f.IndexColumn]; ok {
		f.IndexColumn = ""
	}
}

// Take returns a new frame with the given rows in the given order.
func (f *Frame) Take(rows []int) *Frame {
	c := &Frame{IndexColumn: f.IndexColumn, columns: map[string]int{}, numRows: len(rows)}
	for i, s := range f.series {
		c.series = append(c.series, s.Take(rows))
		c.columns[s.Name] = i
	}
	return c
}

// SortByIndex returns a frame whose rows are stably sorted by the time index.
// Missing index values sort last.
func (f *Frame) SortByIndex() (*Frame, error) {
	idx, err := f.Index()
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, errors.New("frame has no index column")
	}
	rows := make([]int, f.numRows)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if idx.IsNull(ra) || idx.IsNull(rb) {
			return !idx.IsNull(ra) && idx.IsNull(rb)
		}
		return idx.Times[ra].Before(idx.Times[rb])
	})
	return f.Take(rows), nil
}
