// Package business defines the facts describing an acquisition target and the
// valuation records callers keep for it.
package business

import (
	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"github.com/iwvelando/acquisition-forecast/pkg/validation"
)

// RiskLevel grades risk for industries and return projections.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "VeryHigh"
)

// ConfidenceLevel grades how much weight an estimate deserves.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "Low"
	ConfidenceMedium   ConfidenceLevel = "Medium"
	ConfidenceHigh     ConfidenceLevel = "High"
	ConfidenceVeryHigh ConfidenceLevel = "VeryHigh"
)

// FinancingTerms describes how the purchase is funded. Percentages are whole
// numbers (10.0 means 10%).
type FinancingTerms struct {
	DownPaymentPercent  float64 `yaml:"downPaymentPercent" json:"downPaymentPercent" validate:"gte=0,lte=100"`
	InterestRatePercent float64 `yaml:"interestRatePercent" json:"interestRatePercent" validate:"gte=0"`
	TermYears           int     `yaml:"termYears" json:"termYears" validate:"gte=0"`
}

// Facts holds everything known about a business for sale.
type Facts struct {
	ID               uuid.UUID      `yaml:"id" json:"id"`
	Name             string         `yaml:"name" json:"name"`
	Industry         string         `yaml:"industry" json:"industry"`
	Location         string         `yaml:"location" json:"location"`
	AskingPrice      float64        `yaml:"askingPrice" json:"askingPrice" validate:"gte=0"`
	AnnualRevenue    float64        `yaml:"annualRevenue" json:"annualRevenue" validate:"gte=0"`
	AnnualProfit     float64        `yaml:"annualProfit" json:"annualProfit" validate:"gte=0"`
	EmployeeCount    int            `yaml:"employeeCount" json:"employeeCount" validate:"gte=0"`
	YearsEstablished int            `yaml:"yearsEstablished" json:"yearsEstablished" validate:"gte=0"`
	Description      string         `yaml:"description" json:"description"`
	Financing        FinancingTerms `yaml:"financing" json:"financing"`
}

// Validate checks the monetary and percentage invariants of the facts.
func (f Facts) Validate() error {
	return validation.ValidateStruct(f)
}

// ProfitMargin returns profit/revenue as a fraction, or 0 without revenue.
func (f Facts) ProfitMargin() float64 {
	return mathutil.SafeDivide(f.AnnualProfit, f.AnnualRevenue)
}
