// Package forecast derives lag and window statistic features from ordered,
// optionally time indexed, frames.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

var (
	ErrMissingValues  = errors.New("contains missing values")
	ErrNoVariables    = errors.New("no numeric variables to derive features from")
	ErrDuplicateIndex = errors.New("index contains duplicate timestamps")
	ErrNoIndex        = errors.New("frame has no time index")
)

// Base is the fitted state shared by the generators.
type Base struct {
	State     model.State
	Variables []string
	Features  []string

	// Excluded columns are never picked as default variables
	Excluded []string
}

func (b *Base) IsFitted() bool {
	return b.State.IsFitted()
}

// ExcludeColumns keeps the named columns out of the default variables chosen
// at the next Fit.
func (b *Base) ExcludeColumns(names []string) {
	b.Excluded = append([]string(nil), names...)
}

// FeatureNamesOut lists the generated columns in output order.
func (b *Base) FeatureNamesOut() []string {
	return append([]string(nil), b.Features...)
}

func (b *Base) fit(cfg BaseConfig, f *frame.Frame, needsIndex bool, names func([]string) []string) error {
	variables, err := resolveVariables(cfg, f, b.Excluded)
	if err != nil {
		return err
	}
	if err := check(cfg, f, variables, needsIndex); err != nil {
		return err
	}
	b.Variables = variables
	b.Features = names(variables)
	b.State = model.Fitted
	return nil
}

// prepare validates f against the fitted state and returns the frame the
// features are computed on: a sorted copy or a shallow copy of f.
func (b *Base) prepare(cfg BaseConfig, f *frame.Frame, needsIndex bool) (*frame.Frame, error) {
	if !b.IsFitted() {
		return nil, model.ErrNotFitted
	}
	if err := f.Require(b.Variables...); err != nil {
		return nil, err
	}
	if err := checkNumeric(f, b.Variables); err != nil {
		return nil, err
	}
	if err := check(cfg, f, b.Variables, needsIndex); err != nil {
		return nil, err
	}
	if cfg.SortIndex {
		return f.SortByIndex()
	}
	return f.Copy(), nil
}

func (b *Base) finish(cfg BaseConfig, out *frame.Frame, features []*frame.Series) (*frame.Frame, error) {
	for _, s := range features {
		if err := out.Set(s); err != nil {
			return nil, frame.NewColumnError(s.Name, err)
		}
	}
	if cfg.DropOriginal {
		out.Drop(b.Variables...)
	}
	return out, nil
}

func resolveVariables(cfg BaseConfig, f *frame.Frame, excluded []string) ([]string, error) {
	if len(cfg.Variables) == 0 {
		var variables []string
		for _, name := range f.ColumnsOfKind(frame.Numeric) {
			if !slices.Contains(excluded, name) {
				variables = append(variables, name)
			}
		}
		if len(variables) == 0 {
			return nil, ErrNoVariables
		}
		return variables, nil
	}
	if err := f.Require(cfg.Variables...); err != nil {
		return nil, err
	}
	if err := checkNumeric(f, cfg.Variables); err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.Variables...), nil
}

func checkNumeric(f *frame.Frame, variables []string) error {
	var errs []error
	for _, name := range variables {
		s, _ := f.Column(name)
		if s.Kind != frame.Numeric {
			errs = append(errs, frame.NewColumnError(name, fmt.Errorf("must be numeric, got %s", s.Kind)))
		}
	}
	return errors.Join(errs...)
}

func check(cfg BaseConfig, f *frame.Frame, variables []string, needsIndex bool) error {
	if cfg.MissingValues == MissingRaise {
		var errs []error
		for _, name := range variables {
			s, _ := f.Column(name)
			if s.HasNulls() {
				errs = append(errs, frame.NewColumnError(name, ErrMissingValues))
			}
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
	}

	idx, err := f.Index()
	if err != nil {
		return err
	}
	if idx == nil {
		if needsIndex || cfg.SortIndex {
			return ErrNoIndex
		}
		return nil
	}
	seen := make(map[int64]struct{}, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		if idx.IsNull(i) {
			return frame.NewColumnError(idx.Name, ErrMissingValues)
		}
		key := idx.Times[i].UnixNano()
		if _, ok := seen[key]; ok {
			return frame.NewColumnError(idx.Name, ErrDuplicateIndex)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func nanSlice(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
