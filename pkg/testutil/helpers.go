// Package testutil provides shared fixtures and lookups for tests.
package testutil

import (
	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
)

// SampleBusinessID is the fixed id of SampleFacts.
var SampleBusinessID = uuid.MustParse("3f6d2c1e-8b7a-4e5f-9a0b-1c2d3e4f5a6b")

// SampleFacts returns a profitable mid-size services business.
func SampleFacts() business.Facts {
	return business.Facts{
		ID:               SampleBusinessID,
		Name:             "Lakeside HVAC Services",
		Industry:         "Services",
		Location:         "Madison, WI",
		AskingPrice:      1200000,
		AnnualRevenue:    1500000,
		AnnualProfit:     300000,
		EmployeeCount:    18,
		YearsEstablished: 12,
		Description:      "Residential and light commercial HVAC installation and service",
		Financing: business.FinancingTerms{
			DownPaymentPercent:  20,
			InterestRatePercent: 7.5,
			TermYears:           10,
		},
	}
}

// SampleValuations returns three recorded valuations for businessID with
// distinct methodologies.
func SampleValuations(businessID uuid.UUID) []business.ValuationRecord {
	return []business.ValuationRecord{
		business.NewValuationRecord(businessID, 1200000, 0.8, business.MethodRevenueMultiple, business.ConfidenceMedium),
		business.NewValuationRecord(businessID, 1050000, 3.5, business.MethodSDEMultiple, business.ConfidenceHigh),
		business.NewValuationRecord(businessID, 1150000, 0, business.MethodDiscountedCashFlow, business.ConfidenceMedium),
	}
}

// FindValuation finds the first record produced by methodology.
// Returns a pointer into records if found, nil otherwise.
func FindValuation(records []business.ValuationRecord, methodology business.Methodology) *business.ValuationRecord {
	for i := range records {
		if records[i].Methodology == methodology {
			return &records[i]
		}
	}
	return nil
}

// SampleConfigYAML is a complete deal configuration for SampleFacts.
const SampleConfigYAML = `logging:
  level: info
  format: console
output:
  format: pretty
business:
  name: Lakeside HVAC Services
  industry: Services
  location: Madison, WI
  askingPrice: 1200000
  annualRevenue: 1500000
  annualProfit: 300000
  employeeCount: 18
  yearsEstablished: 12
  financing:
    downPaymentPercent: 20
    interestRatePercent: 7.5
    termYears: 10
assumptions:
  investmentPeriod: 5
  revenueGrowthPercent: 5
  profitMarginPercent: 20
  exitMultiple: 3.5
  additionalInvestment: 50000
  workingCapital: 25000
valuations:
  - methodology: RevenueMultiple
    calculatedValue: 1200000
    multiple: 0.8
    confidence: Medium
  - methodology: SDEMultiple
    calculatedValue: 1050000
    multiple: 3.5
    confidence: High
  - methodology: DiscountedCashFlow
    calculatedValue: 1150000
    confidence: Medium
scenarios:
  - name: Key customer loss
    revenueFactor: 0.7
    profitFactor: 0.6
    growthPercent: 0
    riskAdjustmentPercent: 15
    marketConditions: Poor
optimizer:
  enabled: true
  targetIRRPercent: 20
  minPrice: 500000
  maxPrice: 2500000
`
