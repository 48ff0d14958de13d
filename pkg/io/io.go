package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"tabfeat/pkg/frame"
	"tabfeat/pkg/model"
)

type void struct{}

var Void = void{}

type Set map[string]void

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = Void
	}
	return set
}

const DefaultTimeLayout = time.RFC3339

type DataParameters struct {
	DataFile           string
	CategoricalColumns Set
	IndexColumn        string
	TimeLayout         string
}

type DataError struct {
	Line  int
	Error string
}

// missingTokens are the cell values read as missing.
var missingTokens = map[string]struct{}{"": {}, "NA": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {}}

func isMissing(value string) bool {
	_, ok := missingTokens[strings.TrimSpace(value)]
	return ok
}

// LoadFrame reads a CSV file with a header line into a frame. When metaData
// is nil the column kinds are inferred and returned as new metadata,
// otherwise the recorded kinds are used. Rows that cannot be parsed are
// skipped and reported as DataErrors.
func LoadFrame(p DataParameters, metaData *model.Metadata) (*model.Metadata, *frame.Frame, []DataError, error) {
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()
	return ReadFrame(inputFile, p, metaData)
}

// ReadFrame is LoadFrame on an arbitrary reader.
func ReadFrame(input io.Reader, p DataParameters, metaData *model.Metadata) (*model.Metadata, *frame.Frame, []DataError, error) {
	reader := csv.NewReader(input)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	//First line is expected to be a header
	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading data header: %w", err)
	}

	layout, indexColumn := p.TimeLayout, p.IndexColumn
	if metaData != nil {
		layout, indexColumn = metaData.TimeLayout, metaData.IndexColumn
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if indexColumn != "" && !contains(header, indexColumn) {
		return nil, nil, nil, frame.NewColumnError(indexColumn, frame.ErrColumnNotFound)
	}

	var errors []DataError
	var records [][]string
	var lines []int
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errors = append(errors, DataError{Line: line, Error: err.Error()})
			continue
		}
		if len(record) != len(header) {
			errors = append(errors, DataError{
				Line:  line,
				Error: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			})
			continue
		}
		records = append(records, record)
		lines = append(lines, line)
	}

	kinds := make([]frame.Kind, len(header))
	for column, name := range header {
		kinds[column] = columnKind(p, metaData, indexColumn, name, records, column)
	}

	records, rowErrors := parseRecords(records, lines, kinds, layout, header)
	errors = append(errors, rowErrors...)

	series := buildSeries(header, kinds, records, layout)
	f, err := frame.New(series...)
	if err != nil {
		return nil, nil, nil, err
	}
	f.IndexColumn = indexColumn

	if metaData == nil {
		metaData = model.NewMetadata(f, layout)
	}
	return metaData, f, errors, nil
}

func columnKind(p DataParameters, metaData *model.Metadata, indexColumn, name string, records [][]string, column int) frame.Kind {
	if name == indexColumn {
		return frame.Time
	}
	if metaData != nil {
		if kind, ok := metaData.KindOf(name); ok {
			return kind
		}
	}
	if _, ok := p.CategoricalColumns[name]; ok {
		return frame.Categorical
	}
	for _, record := range records {
		value := record[column]
		if isMissing(value) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return frame.Categorical
		}
	}
	return frame.Numeric
}

// parseRecords drops the rows holding a value that cannot be parsed as its
// column kind.
func parseRecords(records [][]string, lines []int, kinds []frame.Kind, layout string, header []string) ([][]string, []DataError) {
	var errors []DataError
	kept := records[:0]
	for i, record := range records {
		if err := checkRecord(record, kinds, layout, header); err != nil {
			errors = append(errors, DataError{Line: lines[i], Error: err.Error()})
			continue
		}
		kept = append(kept, record)
	}
	return kept, errors
}

func checkRecord(record []string, kinds []frame.Kind, layout string, header []string) error {
	for column, kind := range kinds {
		value := strings.TrimSpace(record[column])
		if isMissing(value) {
			continue
		}
		switch kind {
		case frame.Numeric:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("error parsing feature %s: %w", header[column], err)
			}
		case frame.Time:
			if _, err := time.Parse(layout, value); err != nil {
				return fmt.Errorf("error parsing time %s: %w", header[column], err)
			}
		}
	}
	return nil
}

func buildSeries(header []string, kinds []frame.Kind, records [][]string, layout string) []*frame.Series {
	series := make([]*frame.Series, len(header))
	for column, name := range header {
		switch kinds[column] {
		case frame.Numeric:
			values := make([]float64, len(records))
			for i, record := range records {
				value := strings.TrimSpace(record[column])
				if isMissing(value) {
					values[i] = math.NaN()
					continue
				}
				values[i], _ = strconv.ParseFloat(value, 64)
			}
			series[column] = frame.NewNumeric(name, values)
		case frame.Time:
			values := make([]time.Time, len(records))
			var nulls []bool
			for i, record := range records {
				value := strings.TrimSpace(record[column])
				if isMissing(value) {
					nulls = markNull(nulls, len(records), i)
					continue
				}
				values[i], _ = time.Parse(layout, value)
			}
			series[column] = frame.NewTime(name, values, nulls)
		default:
			values := make([]string, len(records))
			var nulls []bool
			for i, record := range records {
				if isMissing(record[column]) {
					nulls = markNull(nulls, len(records), i)
					continue
				}
				values[i] = record[column]
			}
			series[column] = frame.NewCategorical(name, values, nulls)
		}
	}
	return series
}

func markNull(nulls []bool, n, i int) []bool {
	if nulls == nil {
		nulls = make([]bool, n)
	}
	nulls[i] = true
	return nulls
}

// WriteFrame writes f as CSV with a header line. Missing values are written
// as empty cells and times with the given layout.
func WriteFrame(output io.Writer, f *frame.Frame, layout string) error {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	writer := csv.NewWriter(output)
	if err := writer.Write(f.Names()); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	columns := f.Columns()
	record := make([]string, len(columns))
	for i := 0; i < f.NumRows(); i++ {
		for c, s := range columns {
			record[c] = formatValue(s, i, layout)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func SaveFrame(fileName string, f *frame.Frame, layout string) error {
	outputFile, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating output file %s: %w", fileName, err)
	}
	defer outputFile.Close()
	return WriteFrame(outputFile, f, layout)
}

func formatValue(s *frame.Series, i int, layout string) string {
	if s.IsNull(i) {
		return ""
	}
	switch s.Kind {
	case frame.Numeric:
		return strconv.FormatFloat(s.Floats[i], 'g', -1, 64)
	case frame.Time:
		return s.Times[i].Format(layout)
	default:
		return s.Strings[i]
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
