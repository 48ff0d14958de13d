// Package encoding groups infrequent categories of categorical columns.
package encoding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

var (
	ErrMissingValues = errors.New("contains missing values")
	ErrNoVariables   = errors.New("no categorical variables to encode")
)

var _ model.Transformer = &RareLabelEncoder{}

// ColumnEncoding is what the encoder learned about one column.
type ColumnEncoding struct {
	// Grouped is false when the column's cardinality did not exceed
	// NCategories; such columns are passed through unchanged
	Grouped bool

	// Retained lists the kept labels by descending frequency, ties in order of
	// first appearance. For pass-through columns it holds every observed label.
	Retained []string

	// Frequencies holds the fit-time relative frequency of every observed label
	Frequencies map[string]float64
}

// RareLabelEncoder replaces labels that are infrequent in the training data
// with a sentinel. Fit must not be called concurrently; Transform is safe for
// concurrent use once fitted.
type RareLabelEncoder struct {
	Config    RareLabelConfig
	State     model.State
	Variables []string
	Encodings map[string]*ColumnEncoding
}

func NewRareLabelEncoder(config RareLabelConfig) (*RareLabelEncoder, error) {
	config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RareLabelEncoder{Config: config}, nil
}

func (e *RareLabelEncoder) IsFitted() bool {
	return e.State.IsFitted()
}

func (e *RareLabelEncoder) Fit(f *frame.Frame) error {
	variables, err := e.resolveVariables(f)
	if err != nil {
		return err
	}
	if err := e.checkMissing(f, variables); err != nil {
		return err
	}

	encodings := make(map[string]*ColumnEncoding, len(variables))
	for _, name := range variables {
		s, _ := f.Column(name)
		encodings[name] = e.fitColumn(s)
	}

	e.Variables = variables
	e.Encodings = encodings
	e.State = model.Fitted
	return nil
}

func (e *RareLabelEncoder) fitColumn(s *frame.Series) *ColumnEncoding {
	counts := map[string]int{}
	var order []string
	total := 0
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		v := s.StringAt(i)
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	ranked := append([]string(nil), order...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return counts[ranked[a]] > counts[ranked[b]]
	})

	enc := &ColumnEncoding{Frequencies: make(map[string]float64, len(counts))}
	for v, c := range counts {
		enc.Frequencies[v] = float64(c) / float64(total)
	}

	if len(ranked) <= e.Config.NCategories {
		log.Warn().
			Str("column", s.Name).
			Int("cardinality", len(ranked)).
			Int("n_categories", e.Config.NCategories).
			Msg("cardinality does not exceed n_categories, all categories are considered frequent")
		enc.Retained = ranked
		return enc
	}

	enc.Grouped = true
	enc.Retained = []string{}
	for rank, v := range ranked {
		if e.Config.MaxNCategories > 0 && rank >= e.Config.MaxNCategories {
			break
		}
		if enc.Frequencies[v] > e.Config.Tol {
			enc.Retained = append(enc.Retained, v)
		}
	}
	return enc
}

func (e *RareLabelEncoder) Transform(f *frame.Frame) (*frame.Frame, error) {
	if !e.IsFitted() {
		return nil, model.ErrNotFitted
	}
	if err := f.Require(e.Variables...); err != nil {
		return nil, err
	}
	if err := e.checkMissing(f, e.Variables); err != nil {
		return nil, err
	}

	out := f.Copy()
	var errs []error
	for _, name := range e.Variables {
		enc := e.Encodings[name]
		if !enc.Grouped {
			continue
		}
		s, _ := f.Column(name)
		encoded, err := e.encodeColumn(s, enc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := out.Set(encoded); err != nil {
			errs = append(errs, frame.NewColumnError(name, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (e *RareLabelEncoder) encodeColumn(s *frame.Series, enc *ColumnEncoding) (*frame.Series, error) {
	if err := e.checkKind(s); err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(enc.Retained))
	for _, v := range enc.Retained {
		keep[v] = struct{}{}
	}

	values := make([]string, s.Len())
	var nulls []bool
	replaced := 0
	for i := range values {
		if s.IsNull(i) {
			if nulls == nil {
				nulls = make([]bool, s.Len())
			}
			nulls[i] = true
			continue
		}
		v := s.StringAt(i)
		if _, ok := keep[v]; ok {
			values[i] = v
		} else {
			values[i] = e.Config.ReplaceWith
			replaced++
		}
	}
	log.Debug().Str("column", s.Name).Int("replaced", replaced).Msg("grouped rare labels")
	return frame.NewCategorical(s.Name, values, nulls), nil
}

func (e *RareLabelEncoder) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	return model.FitTransform(e, f)
}

func (e *RareLabelEncoder) resolveVariables(f *frame.Frame) ([]string, error) {
	if len(e.Config.Variables) == 0 {
		var variables []string
		for _, s := range f.Columns() {
			if s.Kind == frame.Categorical || (e.Config.IgnoreFormat && s.Kind == frame.Numeric) {
				variables = append(variables, s.Name)
			}
		}
		if len(variables) == 0 {
			return nil, ErrNoVariables
		}
		return variables, nil
	}

	if err := f.Require(e.Config.Variables...); err != nil {
		return nil, err
	}
	var errs []error
	for _, name := range e.Config.Variables {
		s, _ := f.Column(name)
		if err := e.checkKind(s); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return append([]string(nil), e.Config.Variables...), nil
}

func (e *RareLabelEncoder) checkKind(s *frame.Series) error {
	switch s.Kind {
	case frame.Categorical:
		return nil
	case frame.Numeric:
		if e.Config.IgnoreFormat {
			return nil
		}
		return frame.NewColumnError(s.Name, fmt.Errorf("is numeric, enable ignore_format to encode it"))
	default:
		return frame.NewColumnError(s.Name, fmt.Errorf("%s columns cannot be encoded", s.Kind))
	}
}

func (e *RareLabelEncoder) checkMissing(f *frame.Frame, variables []string) error {
	if e.Config.MissingValues != MissingRaise {
		return nil
	}
	var errs []error
	for _, name := range variables {
		s, _ := f.Column(name)
		if s.HasNulls() {
			errs = append(errs, frame.NewColumnError(name, ErrMissingValues))
		}
	}
	return errors.Join(errs...)
}

// EncoderDict returns, per encoded column, the labels kept verbatim.
func (e *RareLabelEncoder) EncoderDict() (map[string][]string, error) {
	if !e.IsFitted() {
		return nil, model.ErrNotFitted
	}
	dict := make(map[string][]string, len(e.Encodings))
	for name, enc := range e.Encodings {
		dict[name] = append([]string(nil), enc.Retained...)
	}
	return dict, nil
}

// Frequencies returns the fit-time label frequencies of a column.
func (e *RareLabelEncoder) Frequencies(column string) (map[string]float64, error) {
	if !e.IsFitted() {
		return nil, model.ErrNotFitted
	}
	enc, ok := e.Encodings[column]
	if !ok {
		return nil, frame.NewColumnError(column, frame.ErrColumnNotFound)
	}
	freqs := make(map[string]float64, len(enc.Frequencies))
	for k, v := range enc.Frequencies {
		freqs[k] = v
	}
	return freqs, nil
}

// IsGrouped reports whether a column's rare labels are replaced.
func (e *RareLabelEncoder) IsGrouped(column string) bool {
	enc, ok := e.Encodings[column]
	return ok && enc.Grouped
}
