package pkg

import (
	"sort"

	"github.com/rs/zerolog/log"

	"tabfeat/pkg/encoding"
	"tabfeat/pkg/io"
	"tabfeat/pkg/model"
)

func printDataErrors(errors []io.DataError) {
	for _, err := range errors {
		log.Error().Int("line", err.Line).Msgf("Error parsing data: %s", err.Error)
	}
}

// logPipeline reports what every fitted step learned.
func logPipeline(p *model.Pipeline) {
	for i, step := range p.Steps {
		switch s := step.(type) {
		case *encoding.RareLabelEncoder:
			dict, err := s.EncoderDict()
			if err != nil {
				continue
			}
			for _, column := range sortedKeys(dict) {
				log.Info().Int("step", i).
					Str("column", column).
					Bool("grouped", s.IsGrouped(column)).
					Strs("retained", dict[column]).
					Msg("rare labels")
			}
		case model.FeatureGenerator:
			log.Info().Int("step", i).Strs("features", s.FeatureNamesOut()).Msgf("%T", step)
		}
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
