package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabfeat/pkg/encoding"
	"tabfeat/pkg/forecast"
	"tabfeat/pkg/validation"
)

const pipelineYAML = `
categorical_columns: [store]
index_column: date
time_layout: "2006-01-02"
rare_labels:
  tol: 0.1
  n_categories: 3
lags:
  variables: [sales]
  periods: [1, 7]
  freq: [24h]
windows:
  - variables: [sales]
    window: [3, 7]
    functions: [mean, max]
  - window: [2]
    periods: 2
expanding:
  functions: [sum]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(pipelineYAML))
	require.NoError(t, err)

	require.Equal(t, []string{"store"}, c.CategoricalColumns)
	require.Equal(t, "date", c.IndexColumn)

	// omitted keys keep their defaults
	require.Equal(t, 0.1, c.RareLabels.Tol)
	require.Equal(t, encoding.DefaultReplaceWith, c.RareLabels.ReplaceWith)
	require.Equal(t, encoding.MissingRaise, c.RareLabels.MissingValues)

	require.Equal(t, []int{1, 7}, c.Lags.Periods)
	require.Equal(t, []time.Duration{24 * time.Hour}, c.Lags.Freq)
	require.Equal(t, []string{"sales"}, c.Lags.Variables)

	require.Len(t, c.Windows, 2)
	require.Equal(t, []string{"mean", "max"}, c.Windows[0].Functions)
	require.Equal(t, 1, c.Windows[0].Periods)
	require.Equal(t, []string{"mean"}, c.Windows[1].Functions)
	require.Equal(t, 2, c.Windows[1].Periods)

	require.Equal(t, 1, c.Expanding.MinPeriods)
	require.Equal(t, []string{"sum"}, c.Expanding.Functions)

	p, err := c.Build()
	require.NoError(t, err)
	require.Len(t, p.Steps, 5)
	require.IsType(t, &encoding.RareLabelEncoder{}, p.Steps[0])
	require.IsType(t, &forecast.LagFeatures{}, p.Steps[1])
	require.IsType(t, &forecast.WindowFeatures{}, p.Steps[2])
	require.IsType(t, &forecast.ExpandingWindowFeatures{}, p.Steps[4])
	require.False(t, p.IsFitted())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tol", "rare_labels: {tol: 0}"},
		{"bad missing policy", "rare_labels: {missing_values: drop}"},
		{"negative lag", "lags: {periods: [-1]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, validation.ErrInvalidConfig)
		})
	}

	_, err := Parse([]byte("rare_labels: [1, 2]"))
	require.Error(t, err)
}

func TestBuild_Invalid(t *testing.T) {
	c, err := Parse([]byte("windows:\n  - window: [3]\n    functions: [mode]\n"))
	require.NoError(t, err)
	_, err = c.Build()
	require.ErrorIs(t, err, validation.ErrInvalidConfig)
	require.Contains(t, err.Error(), "windows[0]")

	c, err = Parse([]byte("index_column: date\n"))
	require.NoError(t, err)
	_, err = c.Build()
	require.ErrorIs(t, err, validation.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Lags)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
