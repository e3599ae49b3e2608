// Package scenario values a business under optimistic, realistic, pessimistic
// and custom assumptions and summarizes the spread between them.
package scenario

import (
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/business"
)

// Type identifies a scenario.
type Type string

const (
	Optimistic  Type = "Optimistic"
	Realistic   Type = "Realistic"
	Pessimistic Type = "Pessimistic"
	Custom      Type = "Custom"
)

// Confidence returns the fixed confidence attached to each scenario type.
func (t Type) Confidence() business.ConfidenceLevel {
	switch t {
	case Realistic:
		return business.ConfidenceHigh
	case Optimistic, Pessimistic:
		return business.ConfidenceMedium
	default:
		return business.ConfidenceLow
	}
}

// MarketConditions describes the market the business would be sold into.
type MarketConditions string

const (
	MarketExcellent MarketConditions = "Excellent"
	MarketGood      MarketConditions = "Good"
	MarketAverage   MarketConditions = "Average"
	MarketPoor      MarketConditions = "Poor"
	MarketRecession MarketConditions = "Recession"
)

var marketMultipliers = map[MarketConditions]float64{
	MarketExcellent: 1.30,
	MarketGood:      1.15,
	MarketAverage:   1.00,
	MarketPoor:      0.85,
	MarketRecession: 0.70,
}

// Multiplier returns the valuation multiplier for the conditions. Unknown
// conditions are treated as Average.
func (m MarketConditions) Multiplier() float64 {
	if v, ok := marketMultipliers[m]; ok {
		return v
	}
	return 1.0
}

// Valid reports whether m is a known market condition.
func (m MarketConditions) Valid() bool {
	_, ok := marketMultipliers[m]
	return ok
}

// Parameters are the adjustments applied to a base valuation. Revenue and
// profit are absolute annual figures; rates are fractions.
type Parameters struct {
	Name             string           `json:"name,omitempty"`
	Type             Type             `json:"type"`
	AdjustedRevenue  float64          `json:"adjustedRevenue"`
	AdjustedProfit   float64          `json:"adjustedProfit"`
	GrowthRate       float64          `json:"growthRate"`
	RiskAdjustment   float64          `json:"riskAdjustment"`
	MarketConditions MarketConditions `json:"marketConditions"`
}

// Scenario is an evaluated set of parameters.
type Scenario struct {
	Name             string                   `json:"name,omitempty"`
	Type             Type                     `json:"type"`
	BaseValuation    float64                  `json:"baseValuation"`
	AdjustedRevenue  float64                  `json:"adjustedRevenue"`
	AdjustedProfit   float64                  `json:"adjustedProfit"`
	GrowthRate       float64                  `json:"growthRate"`
	RiskAdjustment   float64                  `json:"riskAdjustment"`
	MarketConditions MarketConditions         `json:"marketConditions"`
	CalculatedValue  float64                  `json:"calculatedValue"`
	Confidence       business.ConfidenceLevel `json:"confidence"`
}

// Set is an ordered group of scenarios for one business.
type Set struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Find returns the first scenario of type t.
func (s Set) Find(t Type) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Type == t {
			return sc, true
		}
	}
	return Scenario{}, false
}

// Evaluate values the business under p starting from base. Current revenue
// and profit are floored at 1 so a business without either still values.
func Evaluate(facts business.Facts, base float64, p Parameters) Scenario {
	revenueRatio := p.AdjustedRevenue / math.Max(facts.AnnualRevenue, 1)
	profitRatio := p.AdjustedProfit / math.Max(facts.AnnualProfit, 1)

	value := base *
		revenueRatio *
		profitRatio *
		(1 + p.GrowthRate) *
		(1 - p.RiskAdjustment) *
		p.MarketConditions.Multiplier()

	return Scenario{
		Name:             p.Name,
		Type:             p.Type,
		BaseValuation:    base,
		AdjustedRevenue:  p.AdjustedRevenue,
		AdjustedProfit:   p.AdjustedProfit,
		GrowthRate:       p.GrowthRate,
		RiskAdjustment:   p.RiskAdjustment,
		MarketConditions: p.MarketConditions,
		CalculatedValue:  value,
		Confidence:       p.Type.Confidence(),
	}
}

// DefaultParameters returns the three standard parameterizations for facts,
// in optimistic, realistic, pessimistic order.
func DefaultParameters(facts business.Facts) []Parameters {
	revenue := facts.AnnualRevenue
	profit := facts.AnnualProfit
	return []Parameters{
		{
			Type:             Optimistic,
			AdjustedRevenue:  revenue * 1.2,
			AdjustedProfit:   profit * 1.3,
			GrowthRate:       0.15,
			RiskAdjustment:   0.05,
			MarketConditions: MarketGood,
		},
		{
			Type:             Realistic,
			AdjustedRevenue:  revenue,
			AdjustedProfit:   profit,
			GrowthRate:       0.08,
			RiskAdjustment:   0.10,
			MarketConditions: MarketAverage,
		},
		{
			Type:             Pessimistic,
			AdjustedRevenue:  revenue * 0.85,
			AdjustedProfit:   profit * 0.8,
			GrowthRate:       -0.05,
			RiskAdjustment:   0.20,
			MarketConditions: MarketPoor,
		},
	}
}

// Generate evaluates the three standard scenarios.
func Generate(facts business.Facts, base float64) Set {
	params := DefaultParameters(facts)
	set := Set{Scenarios: make([]Scenario, 0, len(params))}
	for _, p := range params {
		set.Scenarios = append(set.Scenarios, Evaluate(facts, base, p))
	}
	return set
}

// WithCustom returns a copy of s with each custom parameter set evaluated and
// appended. Parameter types are forced to Custom.
func (s Set) WithCustom(facts business.Facts, base float64, custom ...Parameters) Set {
	out := Set{Scenarios: make([]Scenario, 0, len(s.Scenarios)+len(custom))}
	out.Scenarios = append(out.Scenarios, s.Scenarios...)
	for _, p := range custom {
		p.Type = Custom
		out.Scenarios = append(out.Scenarios, Evaluate(facts, base, p))
	}
	return out
}
