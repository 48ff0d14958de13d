package forecast

import (
	"fmt"
	"math"

	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

var (
	_ model.Transformer      = &WindowFeatures{}
	_ model.Transformer      = &ExpandingWindowFeatures{}
	_ model.SourceSelector   = &WindowFeatures{}
	_ model.SourceSelector   = &ExpandingWindowFeatures{}
	_ model.FeatureGenerator = &WindowFeatures{}
	_ model.FeatureGenerator = &ExpandingWindowFeatures{}
)

// WindowFeatures adds statistics over a trailing window of rows. The value at
// row i covers rows [i-Periods-w+1, i-Periods].
type WindowFeatures struct {
	Base
	Config WindowConfig
}

func NewWindowFeatures(config WindowConfig) (*WindowFeatures, error) {
	config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &WindowFeatures{Config: config}, nil
}

func (w *WindowFeatures) Fit(f *frame.Frame) error {
	return w.fit(w.Config.BaseConfig, f, false, w.featureNames)
}

func (w *WindowFeatures) featureNames(variables []string) []string {
	var names []string
	for _, size := range w.Config.Window {
		for _, v := range variables {
			for _, fn := range w.Config.Functions {
				names = append(names, fmt.Sprintf("%s_window_%d_%s", v, size, fn))
			}
		}
	}
	return names
}

func (w *WindowFeatures) minPeriods(size int) int {
	if w.Config.MinPeriods == 0 {
		return size
	}
	return w.Config.MinPeriods
}

func (w *WindowFeatures) Transform(f *frame.Frame) (*frame.Frame, error) {
	out, err := w.prepare(w.Config.BaseConfig, f, false)
	if err != nil {
		return nil, err
	}
	n := out.NumRows()
	var features []*frame.Series

	for _, size := range w.Config.Window {
		minPeriods := w.minPeriods(size)
		for _, v := range w.Variables {
			s, _ := out.Column(v)
			columns := make([][]float64, len(w.Config.Functions))
			for k := range columns {
				columns[k] = nanSlice(n)
			}
			window := make([]float64, 0, size)
			for i := 0; i < n; i++ {
				end := i - w.Config.Periods
				if end < 0 {
					continue
				}
				window = window[:0]
				for j := max(0, end-size+1); j <= end; j++ {
					if !math.IsNaN(s.Floats[j]) {
						window = append(window, s.Floats[j])
					}
				}
				if len(window) < minPeriods {
					continue
				}
				for k, fn := range w.Config.Functions {
					columns[k][i] = aggregate(fn, window)
				}
			}
			for k := range columns {
				features = append(features, frame.NewNumeric(w.Features[len(features)], columns[k]))
			}
		}
	}

	return w.finish(w.Config.BaseConfig, out, features)
}

func (w *WindowFeatures) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	return model.FitTransform(w, f)
}

// ExpandingWindowFeatures adds statistics over every row up to Periods rows
// before the current one.
type ExpandingWindowFeatures struct {
	Base
	Config ExpandingConfig
}

func NewExpandingWindowFeatures(config ExpandingConfig) (*ExpandingWindowFeatures, error) {
	config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ExpandingWindowFeatures{Config: config}, nil
}

func (e *ExpandingWindowFeatures) Fit(f *frame.Frame) error {
	return e.fit(e.Config.BaseConfig, f, false, e.featureNames)
}

func (e *ExpandingWindowFeatures) featureNames(variables []string) []string {
	var names []string
	for _, v := range variables {
		for _, fn := range e.Config.Functions {
			names = append(names, fmt.Sprintf("%s_expanding_%s", v, fn))
		}
	}
	return names
}

func (e *ExpandingWindowFeatures) Transform(f *frame.Frame) (*frame.Frame, error) {
	out, err := e.prepare(e.Config.BaseConfig, f, false)
	if err != nil {
		return nil, err
	}
	n := out.NumRows()
	var features []*frame.Series

	for _, v := range e.Variables {
		s, _ := out.Column(v)
		columns := make([][]float64, len(e.Config.Functions))
		for k := range columns {
			columns[k] = nanSlice(n)
		}
		var seen []float64
		for i := 0; i < n; i++ {
			end := i - e.Config.Periods
			if end < 0 {
				continue
			}
			if !math.IsNaN(s.Floats[end]) {
				seen = append(seen, s.Floats[end])
			}
			if len(seen) < e.Config.MinPeriods {
				continue
			}
			for k, fn := range e.Config.Functions {
				columns[k][i] = aggregate(fn, seen)
			}
		}
		for k := range columns {
			features = append(features, frame.NewNumeric(e.Features[len(features)], columns[k]))
		}
	}

	return e.finish(e.Config.BaseConfig, out, features)
}

func (e *ExpandingWindowFeatures) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	return model.FitTransform(e, f)
}
