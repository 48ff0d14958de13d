// Package config reads the YAML description of a feature pipeline.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tabfeat/pkg/encoding"
	"tabfeat/pkg/forecast"
	"tabfeat/pkg/model"
	"tabfeat/pkg/validation"
)

// PipelineConfig describes the input schema and the steps to fit. Steps run
// in the order rare labels, lags, windows, expanding windows; omitted
// sections are skipped.
type PipelineConfig struct {
	CategoricalColumns []string `yaml:"categorical_columns" validate:"unique,dive,required"`
	IndexColumn        string   `yaml:"index_column"`
	TimeLayout         string   `yaml:"time_layout"`

	RareLabels *encoding.RareLabelConfig `yaml:"rare_labels"`
	Lags       *forecast.LagConfig       `yaml:"lags"`
	Windows    []forecast.WindowConfig   `yaml:"windows"`
	Expanding  *forecast.ExpandingConfig `yaml:"expanding"`
}

func Load(fileName string) (*PipelineConfig, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", fileName, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*PipelineConfig, error) {
	var c PipelineConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := validation.Struct(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Build creates the unfitted pipeline. Every step's parameters are validated
// and all failures are reported together.
func (c *PipelineConfig) Build() (*model.Pipeline, error) {
	var steps []model.Transformer
	var errs []error

	if c.RareLabels != nil {
		e, err := encoding.NewRareLabelEncoder(*c.RareLabels)
		if err != nil {
			errs = append(errs, fmt.Errorf("rare_labels: %w", err))
		} else {
			steps = append(steps, e)
		}
	}
	if c.Lags != nil {
		l, err := forecast.NewLagFeatures(*c.Lags)
		if err != nil {
			errs = append(errs, fmt.Errorf("lags: %w", err))
		} else {
			steps = append(steps, l)
		}
	}
	for i, wc := range c.Windows {
		w, err := forecast.NewWindowFeatures(wc)
		if err != nil {
			errs = append(errs, fmt.Errorf("windows[%d]: %w", i, err))
		} else {
			steps = append(steps, w)
		}
	}
	if c.Expanding != nil {
		e, err := forecast.NewExpandingWindowFeatures(*c.Expanding)
		if err != nil {
			errs = append(errs, fmt.Errorf("expanding: %w", err))
		} else {
			steps = append(steps, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(steps) == 0 {
		return nil, validation.Errorf("pipeline has no steps")
	}
	return model.NewPipeline(steps...), nil
}
