package forecast

import (
	"fmt"
	"strings"
	"time"

	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

var (
	_ model.Transformer      = &LagFeatures{}
	_ model.FeatureGenerator = &LagFeatures{}
	_ model.SourceSelector   = &LagFeatures{}
)

// LagFeatures adds, for every variable, its value a number of rows (Periods)
// or a time offset (Freq) earlier.
type LagFeatures struct {
	Base
	Config LagConfig
}

func NewLagFeatures(config LagConfig) (*LagFeatures, error) {
	config.withDefaults()
	if len(config.Periods) == 0 && len(config.Freq) == 0 {
		config.Periods = []int{1}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &LagFeatures{Config: config}, nil
}

func (l *LagFeatures) Fit(f *frame.Frame) error {
	return l.fit(l.Config.BaseConfig, f, len(l.Config.Freq) > 0, l.featureNames)
}

func (l *LagFeatures) featureNames(variables []string) []string {
	var names []string
	for _, p := range l.Config.Periods {
		for _, v := range variables {
			names = append(names, fmt.Sprintf("%s_lag_%d", v, p))
		}
	}
	for _, d := range l.Config.Freq {
		for _, v := range variables {
			names = append(names, fmt.Sprintf("%s_lag_%s", v, durationName(d)))
		}
	}
	return names
}

// durationName is d.String() without trailing zero units: 24h0m0s reads 24h
// and 1h30m0s reads 1h30m.
func durationName(d time.Duration) string {
	name := d.String()
	if strings.HasSuffix(name, "m0s") {
		name = strings.TrimSuffix(name, "0s")
	}
	if strings.HasSuffix(name, "h0m") {
		name = strings.TrimSuffix(name, "0m")
	}
	return name
}

func (l *LagFeatures) Transform(f *frame.Frame) (*frame.Frame, error) {
	out, err := l.prepare(l.Config.BaseConfig, f, len(l.Config.Freq) > 0)
	if err != nil {
		return nil, err
	}
	n := out.NumRows()
	names := l.Features
	var features []*frame.Series

	for _, p := range l.Config.Periods {
		for _, v := range l.Variables {
			s, _ := out.Column(v)
			values := nanSlice(n)
			for i := p; i < n; i++ {
				values[i] = s.Floats[i-p]
			}
			features = append(features, frame.NewNumeric(names[len(features)], values))
		}
	}

	if len(l.Config.Freq) > 0 {
		idx, err := out.Index()
		if err != nil {
			return nil, err
		}
		rowAt := make(map[int64]int, n)
		for i, t := range idx.Times {
			rowAt[t.UnixNano()] = i
		}
		for _, d := range l.Config.Freq {
			for _, v := range l.Variables {
				s, _ := out.Column(v)
				values := nanSlice(n)
				for i, t := range idx.Times {
					if j, ok := rowAt[t.Add(-d).UnixNano()]; ok {
						values[i] = s.Floats[j]
					}
				}
				features = append(features, frame.NewNumeric(names[len(features)], values))
			}
		}
	}

	return l.finish(l.Config.BaseConfig, out, features)
}

func (l *LagFeatures) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	return model.FitTransform(l, f)
}
