package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"github.com/iwvelando/acquisition-forecast/pkg/scenario"
	"github.com/rotisserie/eris"
)

// businessNamespace seeds deterministic ids for businesses configured without one.
var businessNamespace = uuid.MustParse("6c1f0e4a-2b7d-5e39-8a61-0f4d9c3b2e17")

// BusinessConfig describes the business for sale. Financing percentages are
// whole numbers (7.5 means 7.5%).
type BusinessConfig struct {
	ID               string                  `yaml:"id,omitempty" json:"id,omitempty"`
	Name             string                  `yaml:"name" json:"name"`
	Industry         string                  `yaml:"industry" json:"industry"`
	Location         string                  `yaml:"location,omitempty" json:"location,omitempty"`
	AskingPrice      float64                 `yaml:"askingPrice" json:"askingPrice"`
	AnnualRevenue    float64                 `yaml:"annualRevenue" json:"annualRevenue"`
	AnnualProfit     float64                 `yaml:"annualProfit" json:"annualProfit"`
	EmployeeCount    int                     `yaml:"employeeCount,omitempty" json:"employeeCount,omitempty"`
	YearsEstablished int                     `yaml:"yearsEstablished,omitempty" json:"yearsEstablished,omitempty"`
	Description      string                  `yaml:"description,omitempty" json:"description,omitempty"`
	Financing        business.FinancingTerms `yaml:"financing,omitempty" json:"financing,omitempty"`
}

// Facts converts the configured business into model facts. Without an
// explicit id one is derived from the name so repeated runs agree.
func (b BusinessConfig) Facts() (business.Facts, error) {
	id := uuid.NewSHA1(businessNamespace, []byte(strings.TrimSpace(b.Name)))
	if strings.TrimSpace(b.ID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(b.ID))
		if err != nil {
			return business.Facts{}, eris.Wrapf(err, "config: business id %q is invalid", b.ID)
		}
		id = parsed
	}

	return business.Facts{
		ID:               id,
		Name:             b.Name,
		Industry:         b.Industry,
		Location:         b.Location,
		AskingPrice:      b.AskingPrice,
		AnnualRevenue:    b.AnnualRevenue,
		AnnualProfit:     b.AnnualProfit,
		EmployeeCount:    b.EmployeeCount,
		YearsEstablished: b.YearsEstablished,
		Description:      b.Description,
		Financing:        b.Financing,
	}, nil
}

// AssumptionsConfig parameterizes the return projection. Rates are whole
// percentages; omitted values fall back to the defaults.
type AssumptionsConfig struct {
	InvestmentPeriod     *int     `yaml:"investmentPeriod,omitempty" json:"investmentPeriod,omitempty"`
	RevenueGrowthPercent *float64 `yaml:"revenueGrowthPercent,omitempty" json:"revenueGrowthPercent,omitempty"`
	ProfitMarginPercent  *float64 `yaml:"profitMarginPercent,omitempty" json:"profitMarginPercent,omitempty"`
	ExitMultiple         *float64 `yaml:"exitMultiple,omitempty" json:"exitMultiple,omitempty"`
	AdditionalInvestment float64  `yaml:"additionalInvestment,omitempty" json:"additionalInvestment,omitempty"`
	WorkingCapital       float64  `yaml:"workingCapital,omitempty" json:"workingCapital,omitempty"`
}

// ToAssumptions converts percentages to fractions and applies defaults for
// facts. The profit margin defaults to the business's current margin.
func (a AssumptionsConfig) ToAssumptions(facts business.Facts) (cashflow.Assumptions, error) {
	out := cashflow.DefaultAssumptions(facts)

	if a.InvestmentPeriod != nil {
		if *a.InvestmentPeriod < 1 {
			return cashflow.Assumptions{}, eris.Errorf("config: investment period must be at least 1 year, got %d", *a.InvestmentPeriod)
		}
		out.InvestmentPeriod = *a.InvestmentPeriod
	}
	if a.RevenueGrowthPercent != nil {
		out.RevenueGrowthRate = mathutil.FromPercent(*a.RevenueGrowthPercent)
	}
	if a.ProfitMarginPercent != nil {
		out.ProfitMargin = mathutil.FromPercent(*a.ProfitMarginPercent)
	}
	if a.ExitMultiple != nil {
		out.ExitMultiple = *a.ExitMultiple
	}
	out.AdditionalInvestment = a.AdditionalInvestment
	out.WorkingCapital = a.WorkingCapital

	return out, nil
}

// ValuationConfig is a previously recorded valuation.
type ValuationConfig struct {
	ID              string  `yaml:"id,omitempty" json:"id,omitempty"`
	Methodology     string  `yaml:"methodology" json:"methodology"`
	CalculatedValue float64 `yaml:"calculatedValue" json:"calculatedValue"`
	Multiple        float64 `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	Confidence      string  `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Notes           string  `yaml:"notes,omitempty" json:"notes,omitempty"`
}

var confidenceLevels = map[string]business.ConfidenceLevel{
	"low":      business.ConfidenceLow,
	"medium":   business.ConfidenceMedium,
	"high":     business.ConfidenceHigh,
	"veryhigh": business.ConfidenceVeryHigh,
}

// ToValuationRecords converts configured valuations into records owned by
// businessID. Records without an id get one derived from their position.
func ToValuationRecords(configs []ValuationConfig, businessID uuid.UUID) ([]business.ValuationRecord, error) {
	records := make([]business.ValuationRecord, 0, len(configs))
	for i, vc := range configs {
		method := business.Methodology(strings.TrimSpace(vc.Methodology))
		if !method.Valid() {
			return nil, eris.Errorf("config: valuation %d has unknown methodology %q", i+1, vc.Methodology)
		}
		if vc.CalculatedValue < 0 {
			return nil, eris.Errorf("config: valuation %d has negative value %.2f", i+1, vc.CalculatedValue)
		}

		confidence := business.ConfidenceMedium
		if key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(vc.Confidence), " ", "")); key != "" {
			level, ok := confidenceLevels[key]
			if !ok {
				return nil, eris.Errorf("config: valuation %d has unknown confidence %q", i+1, vc.Confidence)
			}
			confidence = level
		}

		id := uuid.NewSHA1(businessID, []byte(fmt.Sprintf("valuation-%d", i+1)))
		if strings.TrimSpace(vc.ID) != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(vc.ID))
			if err != nil {
				return nil, eris.Wrapf(err, "config: valuation %d id %q is invalid", i+1, vc.ID)
			}
			id = parsed
		}

		record := business.ValuationRecord{
			ID:              id,
			BusinessID:      businessID,
			CalculatedValue: vc.CalculatedValue,
			Multiple:        vc.Multiple,
			Methodology:     method,
			Confidence:      confidence,
			Notes:           vc.Notes,
		}
		if vc.Multiple > 0 {
			multiple := vc.Multiple
			switch method {
			case business.MethodRevenueMultiple:
				record.RevenueMultiple = &multiple
			case business.MethodProfitMultiple:
				record.ProfitMultiple = &multiple
			case business.MethodEBITDAMultiple:
				record.EBITDAMultiple = &multiple
			case business.MethodSDEMultiple:
				record.SDEMultiple = &multiple
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ScenarioConfig is a custom valuation scenario. Factors scale the current
// revenue and profit; rates are whole percentages.
type ScenarioConfig struct {
	Name                  string   `yaml:"name" json:"name"`
	RevenueFactor         *float64 `yaml:"revenueFactor,omitempty" json:"revenueFactor,omitempty"`
	ProfitFactor          *float64 `yaml:"profitFactor,omitempty" json:"profitFactor,omitempty"`
	GrowthPercent         float64  `yaml:"growthPercent,omitempty" json:"growthPercent,omitempty"`
	RiskAdjustmentPercent float64  `yaml:"riskAdjustmentPercent,omitempty" json:"riskAdjustmentPercent,omitempty"`
	MarketConditions      string   `yaml:"marketConditions,omitempty" json:"marketConditions,omitempty"`
}

// ToParameters converts the scenario into custom valuation parameters for
// facts.
func (s ScenarioConfig) ToParameters(facts business.Facts) (scenario.Parameters, error) {
	revenueFactor, profitFactor := 1.0, 1.0
	if s.RevenueFactor != nil {
		revenueFactor = *s.RevenueFactor
	}
	if s.ProfitFactor != nil {
		profitFactor = *s.ProfitFactor
	}
	if revenueFactor < 0 || profitFactor < 0 {
		return scenario.Parameters{}, eris.Errorf("scenario %q factors must not be negative", s.Name)
	}
	if s.RiskAdjustmentPercent < 0 || s.RiskAdjustmentPercent > 100 {
		return scenario.Parameters{}, eris.Errorf("scenario %q risk adjustment %.2f%% must be between 0 and 100", s.Name, s.RiskAdjustmentPercent)
	}

	conditions := scenario.MarketAverage
	if raw := strings.TrimSpace(s.MarketConditions); raw != "" {
		conditions = scenario.MarketConditions(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
		if !conditions.Valid() {
			return scenario.Parameters{}, eris.Errorf("scenario %q has unknown market conditions %q", s.Name, s.MarketConditions)
		}
	}

	return scenario.Parameters{
		Name:             s.Name,
		Type:             scenario.Custom,
		AdjustedRevenue:  facts.AnnualRevenue * revenueFactor,
		AdjustedProfit:   facts.AnnualProfit * profitFactor,
		GrowthRate:       mathutil.FromPercent(s.GrowthPercent),
		RiskAdjustment:   mathutil.FromPercent(s.RiskAdjustmentPercent),
		MarketConditions: conditions,
	}, nil
}

// Inputs are the converted model inputs of a validated configuration.
type Inputs struct {
	Facts       business.Facts
	Assumptions cashflow.Assumptions
	Valuations  []business.ValuationRecord
	Scenarios   []scenario.Parameters
}

// Inputs validates the configuration and converts it into model inputs.
func (c *Configuration) Inputs() (Inputs, error) {
	if err := c.Validate(); err != nil {
		return Inputs{}, err
	}

	facts, err := c.Business.Facts()
	if err != nil {
		return Inputs{}, err
	}
	assumptions, err := c.Assumptions.ToAssumptions(facts)
	if err != nil {
		return Inputs{}, err
	}
	valuations, err := ToValuationRecords(c.Valuations, facts.ID)
	if err != nil {
		return Inputs{}, err
	}
	params := make([]scenario.Parameters, 0, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		p, err := sc.ToParameters(facts)
		if err != nil {
			return Inputs{}, eris.Wrapf(err, "config: scenario %d", i+1)
		}
		params = append(params, p)
	}

	return Inputs{
		Facts:       facts,
		Assumptions: assumptions,
		Valuations:  valuations,
		Scenarios:   params,
	}, nil
}
