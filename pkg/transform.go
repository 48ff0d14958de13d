package pkg

import (
	"errors"
	"fmt"
	gio "io"
	"os"

	"github.com/rs/zerolog/log"

	"tabfeat/pkg/io"
)

// Transform applies a saved pipeline to inputFileName. The result goes to
// outputFileName, or to stdout when it is empty.
func Transform(modelFileName, inputFileName, outputFileName string, stdout gio.Writer) error {
	m, err := io.LoadModelFile(modelFileName)
	if err != nil {
		return fmt.Errorf("error loading model from file %s: %w", modelFileName, err)
	}

	_, data, dataErrors, err := io.LoadFrame(io.DataParameters{DataFile: inputFileName}, m.MetaData)
	if err != nil {
		return fmt.Errorf("error loading data from %s: %w", inputFileName, err)
	}
	printDataErrors(dataErrors)
	if data.NumRows() == 0 {
		return errors.New("no data to transform")
	}

	transformed, err := m.Pipeline.Transform(data)
	if err != nil {
		return fmt.Errorf("error transforming %s: %w", inputFileName, err)
	}
	log.Info().Int("rows", transformed.NumRows()).Int("columns", transformed.NumColumns()).Msg("Transformed data")

	var outputWriter gio.Writer = stdout
	if outputFileName != "" {
		outputFile, err := os.Create(outputFileName)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", outputFileName, err)
		}
		defer outputFile.Close()
		outputWriter = outputFile
	}
	return io.WriteFrame(outputWriter, transformed, m.MetaData.TimeLayout)
}
