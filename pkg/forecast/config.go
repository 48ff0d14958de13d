package forecast

import (
	"time"

	"gopkg.in/yaml.v3"

	"tabfeat/pkg/validation"
)

const (
	MissingRaise  = "raise"
	MissingIgnore = "ignore"
)

// BaseConfig holds the parameters shared by every feature generator.
type BaseConfig struct {
	// Variables are the numeric source columns. When empty every numeric
	// column is used.
	Variables []string `yaml:"variables" validate:"unique,dive,required"`

	MissingValues string `yaml:"missing_values" validate:"oneof=raise ignore"`

	// DropOriginal removes the source columns from the output
	DropOriginal bool `yaml:"drop_original"`

	// SortIndex sorts the rows by the frame's time index before computing
	SortIndex bool `yaml:"sort_index"`
}

func (c *BaseConfig) withDefaults() {
	if c.MissingValues == "" {
		c.MissingValues = MissingRaise
	}
}

// LagConfig parameterises LagFeatures. Periods shift by rows, Freq shifts by
// time along the index.
type LagConfig struct {
	BaseConfig `yaml:",inline"`

	Periods []int           `yaml:"periods" validate:"unique,dive,gt=0"`
	Freq    []time.Duration `yaml:"freq" validate:"unique,dive,gt=0"`
}

func DefaultLagConfig() LagConfig {
	return LagConfig{
		BaseConfig: BaseConfig{MissingValues: MissingRaise},
		Periods:    []int{1},
	}
}

func (c *LagConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain LagConfig
	p := plain{BaseConfig: BaseConfig{MissingValues: MissingRaise}}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = LagConfig(p)
	return nil
}

func (c LagConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if len(c.Periods) == 0 && len(c.Freq) == 0 {
		return validation.Errorf("lag features need periods or freq")
	}
	return nil
}

// WindowConfig parameterises WindowFeatures.
type WindowConfig struct {
	BaseConfig `yaml:",inline"`

	// Window lists the window sizes in rows
	Window []int `yaml:"window" validate:"min=1,unique,dive,gt=0"`

	// MinPeriods is the number of non-missing values a window needs to
	// produce a value. 0 means the window size.
	MinPeriods int `yaml:"min_periods" validate:"gte=0"`

	Functions []string `yaml:"functions" validate:"min=1,unique,dive,oneof=mean sum min max std var median count"`

	// Periods shifts the result so a window ends Periods rows before the row
	Periods int `yaml:"periods" validate:"gt=0"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		BaseConfig: BaseConfig{MissingValues: MissingRaise},
		Window:     []int{3},
		Functions:  []string{"mean"},
		Periods:    1,
	}
}

func (c *WindowConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain WindowConfig
	p := plain(DefaultWindowConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = WindowConfig(p)
	return nil
}

func (c WindowConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	for _, w := range c.Window {
		if c.MinPeriods > w {
			return validation.Errorf("min_periods %d is larger than window %d", c.MinPeriods, w)
		}
	}
	return nil
}

// ExpandingConfig parameterises ExpandingWindowFeatures.
type ExpandingConfig struct {
	BaseConfig `yaml:",inline"`

	MinPeriods int      `yaml:"min_periods" validate:"gte=0"`
	Functions  []string `yaml:"functions" validate:"min=1,unique,dive,oneof=mean sum min max std var median count"`
	Periods    int      `yaml:"periods" validate:"gt=0"`
}

func DefaultExpandingConfig() ExpandingConfig {
	return ExpandingConfig{
		BaseConfig: BaseConfig{MissingValues: MissingRaise},
		MinPeriods: 1,
		Functions:  []string{"mean"},
		Periods:    1,
	}
}

func (c *ExpandingConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ExpandingConfig
	p := plain(DefaultExpandingConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = ExpandingConfig(p)
	return nil
}

func (c ExpandingConfig) Validate() error {
	return validation.Struct(c)
}
