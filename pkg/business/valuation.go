package business

import "github.com/google/uuid"

// Methodology names the technique used to produce a valuation.
type Methodology string

const (
	MethodRevenueMultiple    Methodology = "RevenueMultiple"
	MethodProfitMultiple     Methodology = "ProfitMultiple"
	MethodEBITDAMultiple     Methodology = "EBITDAMultiple"
	MethodSDEMultiple        Methodology = "SDEMultiple"
	MethodAssetBased         Methodology = "AssetBased"
	MethodDiscountedCashFlow Methodology = "DiscountedCashFlow"
	MethodMarketComparison   Methodology = "MarketComparison"
)

// Methodologies lists every known methodology.
var Methodologies = []Methodology{
	MethodRevenueMultiple,
	MethodProfitMultiple,
	MethodEBITDAMultiple,
	MethodSDEMultiple,
	MethodAssetBased,
	MethodDiscountedCashFlow,
	MethodMarketComparison,
}

// Valid reports whether m is one of the known methodologies.
func (m Methodology) Valid() bool {
	for _, known := range Methodologies {
		if m == known {
			return true
		}
	}
	return false
}

// ValuationRecord is a previously computed valuation for a business. The
// owning business is referenced by id only.
type ValuationRecord struct {
	ID              uuid.UUID       `yaml:"id" json:"id"`
	BusinessID      uuid.UUID       `yaml:"businessId" json:"businessId"`
	CalculatedValue float64         `yaml:"calculatedValue" json:"calculatedValue" validate:"gte=0"`
	Multiple        float64         `yaml:"multiple" json:"multiple"`
	Methodology     Methodology     `yaml:"methodology" json:"methodology"`
	Confidence      ConfidenceLevel `yaml:"confidence" json:"confidence"`
	RevenueMultiple *float64        `yaml:"revenueMultiple,omitempty" json:"revenueMultiple,omitempty"`
	ProfitMultiple  *float64        `yaml:"profitMultiple,omitempty" json:"profitMultiple,omitempty"`
	EBITDAMultiple  *float64        `yaml:"ebitdaMultiple,omitempty" json:"ebitdaMultiple,omitempty"`
	SDEMultiple     *float64        `yaml:"sdeMultiple,omitempty" json:"sdeMultiple,omitempty"`
	Notes           string          `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// NewValuationRecord creates a record with a fresh id.
func NewValuationRecord(businessID uuid.UUID, value, multiple float64, method Methodology, confidence ConfidenceLevel) ValuationRecord {
	return ValuationRecord{
		ID:              uuid.New(),
		BusinessID:      businessID,
		CalculatedValue: value,
		Multiple:        multiple,
		Methodology:     method,
		Confidence:      confidence,
	}
}

// WithNotes returns a copy of the record carrying notes; notes are the only
// field that may change after creation.
func (r ValuationRecord) WithNotes(notes string) ValuationRecord {
	r.Notes = notes
	return r
}

// Values extracts the calculated values of records in order.
func Values(records []ValuationRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.CalculatedValue)
	}
	return values
}

// ForBusiness filters records down to those referencing businessID.
func ForBusiness(records []ValuationRecord, businessID uuid.UUID) []ValuationRecord {
	var matched []ValuationRecord
	for _, r := range records {
		if r.BusinessID == businessID {
			matched = append(matched, r)
		}
	}
	return matched
}
