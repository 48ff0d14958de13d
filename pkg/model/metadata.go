package model

import (
	"tabfeat/pkg/frame"
)

// ColumnInfo records the name and kind of a column seen at fit time.
type ColumnInfo struct {
	Name string
	Kind frame.Kind
}

// Metadata is the schema of the training data. It is stored with the fitted
// pipeline so later files are parsed the same way.
type Metadata struct {
	Columns []ColumnInfo

	// IndexColumn names the time column that orders the rows, if any
	IndexColumn string

	// TimeLayout is the time.Parse layout of the index column
	TimeLayout string
}

func NewMetadata(f *frame.Frame, timeLayout string) *Metadata {
	m := &Metadata{IndexColumn: f.IndexColumn, TimeLayout: timeLayout}
	for _, s := range f.Columns() {
		m.Columns = append(m.Columns, ColumnInfo{Name: s.Name, Kind: s.Kind})
	}
	return m
}

// KindOf returns the recorded kind of a column.
func (m *Metadata) KindOf(name string) (frame.Kind, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}
