package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the value type held by a Series.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Time
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Series is a named column. Only the slice matching Kind is populated.
// Numeric values are missing when NaN, categorical and time values when the
// corresponding Nulls entry is set. Nulls is nil when nothing is missing.
type Series struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Times   []time.Time
	Nulls   []bool
}

func NewNumeric(name string, values []float64) *Series {
	return &Series{Name: name, Kind: Numeric, Floats: values}
}

func NewCategorical(name string, values []string, nulls []bool) *Series {
	return &Series{Name: name, Kind: Categorical, Strings: values, Nulls: nulls}
}

func NewTime(name string, values []time.Time, nulls []bool) *Series {
	return &Series{Name: name, Kind: Time, Times: values, Nulls: nulls}
}

func (s *Series) Len() int {
	switch s.Kind {
	case Numeric:
		return len(s.Floats)
	case Categorical:
		return len(s.Strings)
	default:
		return len(s.Times)
	}
}

func (s *Series) IsNull(i int) bool {
	if s.Kind == Numeric {
		return math.IsNaN(s.Floats[i])
	}
	return s.Nulls != nil && s.Nulls[i]
}

// HasNulls reports whether any value is missing.
func (s *Series) HasNulls() bool {
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			return true
		}
	}
	return false
}

// StringAt returns the text form of row i, used when a non-categorical column
// is treated as categorical. Missing values return "".
func (s *Series) StringAt(i int) string {
	if s.IsNull(i) {
		return ""
	}
	switch s.Kind {
	case Numeric:
		return strconv.FormatFloat(s.Floats[i], 'g', -1, 64)
	case Categorical:
		return s.Strings[i]
	default:
		return s.Times[i].Format(time.RFC3339)
	}
}

// Cardinality is the number of distinct non-missing values.
func (s *Series) Cardinality() int {
	seen := map[string]struct{}{}
	for i := 0; i < s.Len(); i++ {
		if !s.IsNull(i) {
			seen[s.StringAt(i)] = struct{}{}
		}
	}
	return len(seen)
}

func (s *Series) Copy() *Series {
	c := &Series{Name: s.Name, Kind: s.Kind}
	if s.Floats != nil {
		c.Floats = append([]float64(nil), s.Floats...)
	}
	if s.Strings != nil {
		c.Strings = append([]string(nil), s.Strings...)
	}
	if s.Times != nil {
		c.Times = append([]time.Time(nil), s.Times...)
	}
	if s.Nulls != nil {
		c.Nulls = append([]bool(nil), s.Nulls...)
	}
	return c
}

// Take returns a new series holding the given rows in order.
func (s *Series) Take(rows []int) *Series {
	c := &Series{Name: s.Name, Kind: s.Kind}
	switch s.Kind {
	case Numeric:
		c.Floats = make([]float64, len(rows))
		for i, r := range rows {
			c.Floats[i] = s.Floats[r]
		}
	case Categorical:
		c.Strings = make([]string, len(rows))
		for i, r := range rows {
			c.Strings[i] = s.Strings[r]
		}
	case Time:
		c.Times = make([]time.Time, len(rows))
		for i, r := range rows {
			c.Times[i] = s.Times[r]
		}
	}
	if s.Nulls != nil {
		c.Nulls = make([]bool, len(rows))
		for i, r := range rows {
			c.Nulls[i] = s.Nulls[r]
		}
	}
	return c
}
