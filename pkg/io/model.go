package io

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"tabfeat/pkg/encoding"
	"tabfeat/pkg/forecast"
	"tabfeat/pkg/model"
)

// CompressedSuffix marks model files written through zstd.
const CompressedSuffix = ".zst"

func init() {
	gob.Register(&encoding.RareLabelEncoder{})
	gob.Register(&forecast.LagFeatures{})
	gob.Register(&forecast.WindowFeatures{})
	gob.Register(&forecast.ExpandingWindowFeatures{})
}

func SaveModel(model *model.Model, writer io.Writer) error {
	encoder := gob.NewEncoder(writer)
	err := encoder.Encode(model)
	if err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}
	return nil
}

func LoadModel(input io.Reader) (*model.Model, error) {
	decoder := gob.NewDecoder(input)
	model := model.Model{}
	err := decoder.Decode(&model)
	if err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	return &model, nil
}

// SaveModelFile writes the model to fileName, zstd compressed when the name
// ends in CompressedSuffix.
func SaveModelFile(m *model.Model, fileName string) error {
	outputFile, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating model file %s: %w", fileName, err)
	}
	defer outputFile.Close()

	if !strings.HasSuffix(fileName, CompressedSuffix) {
		return SaveModel(m, outputFile)
	}
	encoder, err := zstd.NewWriter(outputFile, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("error creating zstd encoder: %w", err)
	}
	if err := SaveModel(m, encoder); err != nil {
		encoder.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("error compressing model: %w", err)
	}
	return nil
}

func LoadModelFile(fileName string) (*model.Model, error) {
	modelFile, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening model file %s: %w", fileName, err)
	}
	defer modelFile.Close()

	if !strings.HasSuffix(fileName, CompressedSuffix) {
		return LoadModel(modelFile)
	}
	decoder, err := zstd.NewReader(modelFile, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("error creating zstd decoder: %w", err)
	}
	defer decoder.Close()
	return LoadModel(decoder)
}
