// Package config defines the deal configuration and includes functions for
// loading, validating and converting it into model inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for one acquisition analysis.
type Configuration struct {
	Business    BusinessConfig    `yaml:"business" json:"business"`
	Assumptions AssumptionsConfig `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
	Valuations  []ValuationConfig `yaml:"valuations,omitempty" json:"valuations,omitempty"`
	Scenarios   []ScenarioConfig  `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	Optimizer   *OptimizerConfig  `yaml:"optimizer,omitempty" json:"optimizer,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty" json:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys may be overridden from the environment, e.g.
// ACQUISITION_BUSINESS_ASKINGPRICE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper("yaml")
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "config: error reading config file %s", configPath)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a configuration of the given type
// ("yaml" or "json") from r.
func LoadConfigurationFromReader(r io.Reader, configType string) (*Configuration, error) {
	v := newViper(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, eris.Wrapf(err, "config: error reading %s configuration", configType)
	}
	return decode(v)
}

func newViper(configType string) *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, eris.Wrap(err, "config: unable to decode into struct")
	}
	return &configuration, nil
}

// Validate returns the first error that prevents the configuration from
// being analyzed.
func (c *Configuration) Validate() error {
	facts, err := c.Business.Facts()
	if err != nil {
		return err
	}
	if err := facts.Validate(); err != nil {
		return eris.Wrap(err, "config: invalid business")
	}

	assumptions, err := c.Assumptions.ToAssumptions(facts)
	if err != nil {
		return err
	}
	if err := assumptions.Validate(); err != nil {
		return eris.Wrap(err, "config: invalid assumptions")
	}

	if _, err := ToValuationRecords(c.Valuations, facts.ID); err != nil {
		return err
	}
	for i, sc := range c.Scenarios {
		if _, err := sc.ToParameters(facts); err != nil {
			return eris.Wrapf(err, "config: scenario %d", i+1)
		}
	}

	if c.Optimizer != nil && c.Optimizer.Enabled {
		if err := c.Optimizer.Validate(facts.AskingPrice); err != nil {
			return err
		}
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return eris.Wrap(err, "config")
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for inputs that are legal but likely unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	b := c.Business

	if strings.TrimSpace(b.Name) == "" {
		warnings = append(warnings, "Business has no name")
	}
	if strings.TrimSpace(b.Industry) == "" {
		warnings = append(warnings, "Business has no industry; the Services benchmark will be used")
	}
	if b.AskingPrice == 0 {
		warnings = append(warnings, "Asking price is 0; offer amounts will all be 0")
	}
	if b.AnnualRevenue == 0 {
		warnings = append(warnings, "Annual revenue is 0; revenue multiples and projections will be 0")
	}
	if b.AnnualProfit > b.AnnualRevenue {
		warnings = append(warnings, "Annual profit exceeds annual revenue")
	}
	if b.Financing.DownPaymentPercent < 100 && b.Financing.TermYears == 0 {
		warnings = append(warnings, "Financing has a loan amount but no term; loan payments will be 0")
	}

	if len(c.Valuations) == 0 {
		warnings = append(warnings, "No valuations recorded; benchmark estimates will be used")
	}
	for i, v := range c.Valuations {
		if v.CalculatedValue == 0 {
			warnings = append(warnings, fmt.Sprintf("Valuation %d (%s) has a value of 0", i+1, v.Methodology))
		}
	}

	if c.Assumptions.ExitMultiple != nil && *c.Assumptions.ExitMultiple == 0 {
		warnings = append(warnings, "Exit multiple is 0; the projection assumes no sale at the end of the period")
	}

	if o := c.Optimizer; o != nil && o.Enabled && o.MinPrice != nil && o.MaxPrice != nil {
		if b.AskingPrice < *o.MinPrice || b.AskingPrice > *o.MaxPrice {
			warnings = append(warnings, "Asking price lies outside the optimizer price bounds")
		}
	}

	return warnings
}
