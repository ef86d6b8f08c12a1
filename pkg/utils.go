package pkg

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"featurenet/pkg/config"
	"featurenet/pkg/dataset"
	"featurenet/pkg/io"
)

func printDataErrors(errors []dataset.DataError) {
	if len(errors) == 0 {
		return
	}
	counts := dataset.CountCoercions(errors)
	log.Warn().
		Int("Number", counts[dataset.Number]).
		Int("Boolean", counts[dataset.Boolean]).
		Msg("Values replaced by their type default")
	for _, err := range errors {
		log.Debug().Msgf("Error parsing data at line %d: %s", err.Line, err.Error())
	}
}

// loadRecords reads a CSV dataset the way cfg describes it, merging rows when cfg asks for it.
func loadRecords(fs afero.Fs, dataFile string, cfg config.DatasetConfig) ([]*dataset.Record, error) {
	rows, err := io.ReadCSV(fs, dataFile)
	if err != nil {
		return nil, err
	}

	var records []*dataset.Record
	var dataErrors []dataset.DataError
	switch {
	case cfg.Shape == config.ShapeListed:
		records, err = dataset.LoadListed(rows, cfg.RemoveDuplicateTargets)
	case len(cfg.AttributeMap) > 0:
		attributeMap, mapErr := cfg.AttributeMapping()
		if mapErr != nil {
			return nil, mapErr
		}
		records, dataErrors, err = dataset.Normalize(rows, attributeMap, cfg.LoadingOptions())
	default:
		records, dataErrors, err = dataset.LoadTabular(rows, cfg.Exclude, cfg.LoadingOptions())
	}
	if err != nil {
		return nil, fmt.Errorf("error loading data from %s: %w", dataFile, err)
	}
	printDataErrors(dataErrors)
	log.Info().Int("Records", len(records)).Int("Attributes", dataset.AttributeCount(records)).Msg("Loaded " + dataFile)

	if cfg.Merged() {
		records = dataset.Merge(records)
		log.Info().Int("Records", len(records)).Msg("Merged records by target")
	}
	return records, nil
}

// buildView is the label -> features view the vocabulary is built from
func buildView(records []*dataset.Record, cfg config.DatasetConfig) *dataset.View {
	if cfg.FeatureEncoding() == config.EncodingNumeric {
		return dataset.NamesView(records)
	}
	return dataset.ValuesView(records)
}
