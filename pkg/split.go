package pkg

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"tabfeat/pkg/io"
)

type SplitParameters struct {
	DataFile           string
	TrainFile          string
	TestFile           string
	TestFraction       float64
	Shuffle            bool
	RndSeed            int64
	IndexColumn        string
	TimeLayout         string
	CategoricalColumns []string
}

// Split writes a train/test split of the data file. Without Shuffle the test
// file holds the last rows, which is what a forecasting hold-out needs.
func Split(p SplitParameters) error {
	metaData, data, dataErrors, err := io.LoadFrame(io.DataParameters{
		DataFile:           p.DataFile,
		CategoricalColumns: io.NewSet(p.CategoricalColumns...),
		IndexColumn:        p.IndexColumn,
		TimeLayout:         p.TimeLayout,
	}, nil)
	if err != nil {
		return fmt.Errorf("error reading data: %w", err)
	}
	printDataErrors(dataErrors)

	order := io.OriginalOrder
	if p.Shuffle {
		order = io.RandomOrder
	} else if data.IndexColumn != "" {
		if data, err = data.SortByIndex(); err != nil {
			return err
		}
	}

	train, test, err := io.TrainTestSplit(data, p.TestFraction, order, rand.New(rand.NewSource(p.RndSeed)))
	if err != nil {
		return err
	}
	if err := io.SaveFrame(p.TrainFile, train, metaData.TimeLayout); err != nil {
		return err
	}
	if err := io.SaveFrame(p.TestFile, test, metaData.TimeLayout); err != nil {
		return err
	}
	log.Info().Int("train", train.NumRows()).Int("test", test.NumRows()).Msg("Split data")
	return nil
}
