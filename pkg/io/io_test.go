package io

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabfeat/pkg/encoding"
	"tabfeat/pkg/forecast"
	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

const salesCSV = `date,store,zip,sales
2024-01-01,north,1000,10
2024-01-02,south,2000,NA
2024-01-03,north,1000,12
2024-01-04,east,3000,13,extra
2024-01-05,west,4000,14
not-a-date,north,1000,15
2024-01-07,,1000,16
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrame(t *testing.T) {
	params := DataParameters{
		DataFile:           writeFile(t, "sales.csv", salesCSV),
		CategoricalColumns: NewSet("zip"),
		IndexColumn:        "date",
		TimeLayout:         "2006-01-02",
	}

	metaData, f, dataErrors, err := LoadFrame(params, nil)
	require.NoError(t, err)
	require.Equal(t, 5, f.NumRows())
	require.Len(t, dataErrors, 2)
	require.Equal(t, 5, dataErrors[0].Line) // wrong field count
	require.Equal(t, 7, dataErrors[1].Line) // unparsable date
	require.Equal(t, "date", f.IndexColumn)

	kinds := map[string]frame.Kind{}
	for _, c := range metaData.Columns {
		kinds[c.Name] = c.Kind
	}
	require.Equal(t, map[string]frame.Kind{
		"date":  frame.Time,
		"store": frame.Categorical,
		"zip":   frame.Categorical,
		"sales": frame.Numeric,
	}, kinds)

	sales, _ := f.Column("sales")
	require.True(t, sales.IsNull(1))
	store, _ := f.Column("store")
	require.True(t, store.IsNull(4))
	date, _ := f.Column("date")
	require.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), date.Times[4])

	// the fitted schema wins over inference on later files
	testFile := writeFile(t, "test.csv", "date,store,zip,sales\n2024-02-01,1,5000,x\n2024-02-02,2,6000,3\n")
	_, test, dataErrors, err := LoadFrame(DataParameters{DataFile: testFile}, metaData)
	require.NoError(t, err)
	require.Len(t, dataErrors, 1)
	require.Equal(t, 1, test.NumRows())
	s, _ := test.Column("store")
	require.Equal(t, frame.Categorical, s.Kind)
	require.Equal(t, []string{"2"}, s.Strings)
}

func TestLoadFrame_MissingIndexColumn(t *testing.T) {
	_, _, _, err := LoadFrame(DataParameters{
		DataFile:    writeFile(t, "a.csv", "a,b\n1,2\n"),
		IndexColumn: "date",
	}, nil)
	require.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestWriteFrame(t *testing.T) {
	_, f, _, err := ReadFrame(strings.NewReader(salesCSV), DataParameters{
		IndexColumn: "date",
		TimeLayout:  "2006-01-02",
	}, nil)
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, WriteFrame(&b, f, "2006-01-02"))
	require.Equal(t, `date,store,zip,sales
2024-01-01,north,1000,10
2024-01-02,south,2000,
2024-01-03,north,1000,12
2024-01-05,west,4000,14
2024-01-07,,1000,16
`, b.String())
}

func fittedModel(t *testing.T) (*model.Model, *frame.Frame) {
	metaData, f, _, err := ReadFrame(strings.NewReader(salesCSV), DataParameters{
		IndexColumn: "date",
		TimeLayout:  "2006-01-02",
	}, nil)
	require.NoError(t, err)

	rare, err := encoding.NewRareLabelEncoder(encoding.RareLabelConfig{
		Tol: 0.3, NCategories: 1, Variables: []string{"store"}, MissingValues: encoding.MissingIgnore,
	})
	require.NoError(t, err)
	lags, err := forecast.NewLagFeatures(forecast.LagConfig{
		BaseConfig: forecast.BaseConfig{MissingValues: forecast.MissingIgnore},
		Periods:    []int{1},
		Freq:       []time.Duration{48 * time.Hour},
	})
	require.NoError(t, err)
	pipeline := model.NewPipeline(rare, lags)
	require.NoError(t, pipeline.Fit(f))
	return &model.Model{MetaData: metaData, Pipeline: pipeline}, f
}

func TestSaveLoadModel(t *testing.T) {
	for _, name := range []string{"model.gob", "model.gob.zst"} {
		t.Run(name, func(t *testing.T) {
			m, f := fittedModel(t)
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveModelFile(m, path))

			loaded, err := LoadModelFile(path)
			require.NoError(t, err)
			require.Equal(t, m.MetaData, loaded.MetaData)
			require.True(t, loaded.Pipeline.IsFitted())

			expected, err := m.Pipeline.Transform(f)
			require.NoError(t, err)
			actual, err := loaded.Pipeline.Transform(f)
			require.NoError(t, err)

			var eb, ab bytes.Buffer
			require.NoError(t, WriteFrame(&eb, expected, "2006-01-02"))
			require.NoError(t, WriteFrame(&ab, actual, "2006-01-02"))
			require.Equal(t, eb.String(), ab.String())
		})
	}
}

func TestSplitFrame(t *testing.T) {
	f, err := frame.New(frame.NewNumeric("v", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(f, 0.3, OriginalOrder, nil)
	require.NoError(t, err)
	v, _ := test.Column("v")
	require.Equal(t, []float64{7, 8, 9}, v.Floats)
	require.Equal(t, 7, train.NumRows())

	splits, err := SplitFrame(f, RandomOrder, rand.New(rand.NewSource(1)), 5, 5)
	require.NoError(t, err)
	seen := map[float64]bool{}
	for _, s := range splits {
		col, _ := s.Column("v")
		for _, x := range col.Floats {
			seen[x] = true
		}
	}
	require.Len(t, seen, 10)

	_, err = SplitFrame(f, OriginalOrder, nil, 8, 8)
	require.Error(t, err)
	_, err = SplitFrame(f, RandomOrder, nil, 1)
	require.Error(t, err)
	_, _, err = TrainTestSplit(f, 1.2, OriginalOrder, nil)
	require.Error(t, err)
}
