package config

import (
	"github.com/rotisserie/eris"
)

const (
	defaultTargetIRRPercent = 20.0
	defaultMinPriceFactor   = 0.5
	defaultMaxPriceFactor   = 1.5
	defaultTolerance        = 1.0
	defaultMaxIterations    = 60
)

// OptimizerConfig directs the search for the highest purchase price whose
// projected IRR still meets a target.
type OptimizerConfig struct {
	Enabled          bool     `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	TargetIRRPercent float64  `yaml:"targetIRRPercent,omitempty" json:"targetIRRPercent,omitempty" mapstructure:"targetIRRPercent"`
	MinPrice         *float64 `yaml:"minPrice,omitempty" json:"minPrice,omitempty" mapstructure:"minPrice"`
	MaxPrice         *float64 `yaml:"maxPrice,omitempty" json:"maxPrice,omitempty" mapstructure:"maxPrice"`
	Tolerance        float64  `yaml:"tolerance,omitempty" json:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations    int      `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// Normalize ensures defaults are applied before validation. Price bounds
// default to half and one and a half times the asking price.
func (o *OptimizerConfig) Normalize(askingPrice float64) {
	if o == nil {
		return
	}
	if o.TargetIRRPercent == 0 {
		o.TargetIRRPercent = defaultTargetIRRPercent
	}
	if o.MinPrice == nil {
		minPrice := askingPrice * defaultMinPriceFactor
		o.MinPrice = &minPrice
	}
	if o.MaxPrice == nil {
		maxPrice := askingPrice * defaultMaxPriceFactor
		o.MaxPrice = &maxPrice
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unusable.
func (o *OptimizerConfig) Validate(askingPrice float64) error {
	if o == nil {
		return eris.New("config: optimizer configuration cannot be nil")
	}

	o.Normalize(askingPrice)

	if o.TargetIRRPercent <= -100 {
		return eris.Errorf("config: optimizer target IRR %.2f%% must be above -100%%", o.TargetIRRPercent)
	}
	if *o.MinPrice <= 0 {
		return eris.Errorf("config: optimizer minimum price %.2f must be positive", *o.MinPrice)
	}
	if *o.MinPrice >= *o.MaxPrice {
		return eris.Errorf("config: optimizer minimum price %.2f must be less than maximum %.2f", *o.MinPrice, *o.MaxPrice)
	}
	return nil
}
