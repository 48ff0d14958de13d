package encoding

import (
	"gopkg.in/yaml.v3"

	"tabfeat/pkg/validation"
)

const (
	MissingRaise  = "raise"
	MissingIgnore = "ignore"

	DefaultReplaceWith = "Rare"
	DefaultTol         = 0.05
	DefaultNCategories = 10
)

// RareLabelConfig parameterises a RareLabelEncoder.
type RareLabelConfig struct {
	// Tol is the frequency a label must strictly exceed to be kept
	Tol float64 `yaml:"tol" validate:"gt=0,lte=1"`

	// NCategories is the cardinality a column must exceed to be grouped
	NCategories int `yaml:"n_categories" validate:"gte=0"`

	// MaxNCategories caps the labels kept per grouped column, 0 disables the cap
	MaxNCategories int `yaml:"max_n_categories" validate:"gte=0"`

	// Variables restricts the encoder to these columns. When empty every
	// categorical column is encoded.
	Variables []string `yaml:"variables" validate:"unique,dive,required"`

	ReplaceWith string `yaml:"replace_with" validate:"required"`

	// MissingValues is "raise" to reject missing values or "ignore" to leave
	// them missing
	MissingValues string `yaml:"missing_values" validate:"oneof=raise ignore"`

	// IgnoreFormat allows numeric columns, which are encoded by their text form
	IgnoreFormat bool `yaml:"ignore_format"`
}

func DefaultRareLabelConfig() RareLabelConfig {
	return RareLabelConfig{
		Tol:           DefaultTol,
		NCategories:   DefaultNCategories,
		ReplaceWith:   DefaultReplaceWith,
		MissingValues: MissingRaise,
	}
}

// UnmarshalYAML starts from the defaults so omitted keys keep them.
func (c *RareLabelConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain RareLabelConfig
	p := plain(DefaultRareLabelConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = RareLabelConfig(p)
	return nil
}

func (c *RareLabelConfig) withDefaults() {
	if c.ReplaceWith == "" {
		c.ReplaceWith = DefaultReplaceWith
	}
	if c.MissingValues == "" {
		c.MissingValues = MissingRaise
	}
}

func (c RareLabelConfig) Validate() error {
	return validation.Struct(c)
}
