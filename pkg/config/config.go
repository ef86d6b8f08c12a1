package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"featurenet/pkg/dataset"
)

const (
	ShapeListed  = "listed"
	ShapeTabular = "tabular"

	EncodingValues  = "values"
	EncodingNumeric = "numeric"

	// VerticalAttributes marks datasets whose rows repeat targets and must be merged
	VerticalAttributes = "vertical"
)

// AttributeSpec names and types one mapped CSV column. In the config file it is either a plain
// attribute name (typed string) or a mapping with name and type.
type AttributeSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func (a *AttributeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Name = value.Value
		a.Type = "string"
		return nil
	}
	type plain AttributeSpec
	return value.Decode((*plain)(a))
}

// DatasetConfig describes how a CSV dataset is read
type DatasetConfig struct {
	// Shape is listed (target column followed by value columns) or tabular (named columns)
	Shape string `yaml:"shape"`

	// Label is the target column
	Label string `yaml:"label"`

	// LabelType is string or number
	LabelType string `yaml:"labelType"`

	// AttributeMap maps CSV headers to attributes. Tabular datasets without it use every column.
	AttributeMap map[string]AttributeSpec `yaml:"attributeMap,omitempty"`

	// AttributeDir set to vertical merges rows sharing a target
	AttributeDir string `yaml:"attributeDir,omitempty"`

	// Exclude lists tabular columns that are never attributes, e.g. identifiers
	Exclude []string `yaml:"exclude,omitempty"`

	// Encoding is values (each attribute value is a 0/1 feature) or numeric (each attribute name is
	// a feature holding the numeric attribute value). Empty means values for listed datasets and
	// numeric for tabular ones.
	Encoding string `yaml:"encoding,omitempty"`

	RemoveEmptyVals        bool `yaml:"removeEmptyVals"`
	RemoveDuplicateTargets bool `yaml:"removeDuplicateTargets"`
}

// DefaultDatasetConfig is a tabular dataset with string labels that skips empty cells.
func DefaultDatasetConfig() DatasetConfig {
	return DatasetConfig{
		Shape:                  ShapeTabular,
		LabelType:              "string",
		RemoveEmptyVals:        true,
		RemoveDuplicateTargets: true,
	}
}

// ParseDatasetConfig decodes a YAML (or JSON) config over the defaults and validates it.
func ParseDatasetConfig(data []byte) (DatasetConfig, error) {
	cfg := DefaultDatasetConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func LoadDatasetConfig(fs afero.Fs, path string) (DatasetConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return DatasetConfig{}, fmt.Errorf("error reading dataset config %s: %w", path, err)
	}
	cfg, err := ParseDatasetConfig(data)
	if err != nil {
		var cfgErr *dataset.ConfigurationError
		if errors.As(err, &cfgErr) {
			return cfg, err
		}
		return cfg, &dataset.ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

func (c DatasetConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c DatasetConfig) Validate() error {
	switch c.Shape {
	case ShapeListed:
	case ShapeTabular:
		if c.Label == "" {
			return &dataset.ConfigurationError{Reason: "tabular datasets need a label column"}
		}
	default:
		return &dataset.ConfigurationError{Reason: fmt.Sprintf("unknown dataset shape %q", c.Shape)}
	}
	if kind, err := dataset.ParseKind(c.LabelType); err != nil {
		return err
	} else if kind == dataset.Boolean {
		return &dataset.ConfigurationError{Reason: "label type must be string or number"}
	}
	switch c.Encoding {
	case "", EncodingValues, EncodingNumeric:
	default:
		return &dataset.ConfigurationError{Reason: fmt.Sprintf("unknown encoding %q", c.Encoding)}
	}
	_, err := c.AttributeMapping()
	return err
}

// FeatureEncoding resolves the encoding default for the dataset shape
func (c DatasetConfig) FeatureEncoding() string {
	if c.Encoding != "" {
		return c.Encoding
	}
	if c.Shape == ShapeListed {
		return EncodingValues
	}
	return EncodingNumeric
}

// Merged tells whether rows sharing a target are folded into one record
func (c DatasetConfig) Merged() bool {
	return c.Shape == ShapeListed || c.AttributeDir == VerticalAttributes
}

func (c DatasetConfig) NumericLabel() bool {
	return c.LabelType == "number"
}

func (c DatasetConfig) LoadingOptions() dataset.LoadingOptions {
	kind, _ := dataset.ParseKind(c.LabelType)
	return dataset.LoadingOptions{
		TargetColumn:           c.Label,
		TargetType:             kind,
		RemoveEmptyVals:        c.RemoveEmptyVals,
		RemoveDuplicateTargets: c.RemoveDuplicateTargets,
	}
}

func (c DatasetConfig) AttributeMapping() (map[string]dataset.AttributeMapping, error) {
	result := make(map[string]dataset.AttributeMapping, len(c.AttributeMap))
	for header, spec := range c.AttributeMap {
		kind, err := dataset.ParseKind(spec.Type)
		if err != nil {
			return nil, err
		}
		name := spec.Name
		if name == "" {
			name = header
		}
		result[header] = dataset.AttributeMapping{Name: name, Type: kind}
	}
	return result, nil
}

// Environment holds settings read from FEATURENET_* variables; they provide the CLI flag defaults.
type Environment struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"pretty"`
	TrainedDir string `envconfig:"TRAINED_DIR" default:"trained"`
}

func LoadEnvironment() (Environment, error) {
	var env Environment
	if err := envconfig.Process("featurenet", &env); err != nil {
		return env, err
	}
	return env, nil
}
