package pkg

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tabfeat/pkg/config"
	"tabfeat/pkg/io"
	"tabfeat/pkg/model"
)

type FitParameters struct {
	TrainFile       string
	ConfigFile      string
	OutputFile      string
	TransformedFile string
}

// Fit fits the configured pipeline on the training file and saves it together
// with the training schema. The transformed training data is written when
// TransformedFile is set.
func Fit(p FitParameters) error {
	cfg, err := config.Load(p.ConfigFile)
	if err != nil {
		return err
	}
	pipeline, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("error building pipeline: %w", err)
	}

	metaData, data, dataErrors, err := io.LoadFrame(io.DataParameters{
		DataFile:           p.TrainFile,
		CategoricalColumns: io.NewSet(cfg.CategoricalColumns...),
		IndexColumn:        cfg.IndexColumn,
		TimeLayout:         cfg.TimeLayout,
	}, nil)
	if err != nil {
		return fmt.Errorf("error reading training data: %w", err)
	}
	printDataErrors(dataErrors)
	if data.NumRows() == 0 {
		return errors.New("no data to fit")
	}

	transformed, err := pipeline.FitTransform(data)
	if err != nil {
		return fmt.Errorf("error fitting pipeline: %w", err)
	}
	log.Info().Int("rows", data.NumRows()).Int("steps", len(pipeline.Steps)).Msg("Fitted pipeline")
	logPipeline(pipeline)

	m := &model.Model{MetaData: metaData, Pipeline: pipeline}
	if err := io.SaveModelFile(m, p.OutputFile); err != nil {
		return fmt.Errorf("error saving model to %s: %w", p.OutputFile, err)
	}

	if p.TransformedFile != "" {
		if err := io.SaveFrame(p.TransformedFile, transformed, metaData.TimeLayout); err != nil {
			return err
		}
	}
	return nil
}
