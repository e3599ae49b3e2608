package scenario

import (
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
)

// Recommendation is the investment call derived from scenario spread.
type Recommendation string

const (
	StrongBuy Recommendation = "Strong Buy"
	Buy       Recommendation = "Buy"
	Consider  Recommendation = "Consider"
	Avoid     Recommendation = "Avoid"
)

// Analysis summarizes the spread of a scenario set.
type Analysis struct {
	Optimistic       float64            `json:"optimistic"`
	Realistic        float64            `json:"realistic"`
	Pessimistic      float64            `json:"pessimistic"`
	ValueRange       float64            `json:"valueRange"`
	RiskPremium      float64            `json:"riskPremium"`
	RecommendedValue float64            `json:"recommendedValue"`
	RiskLevel        business.RiskLevel `json:"riskLevel,omitempty"`
	Recommendation   Recommendation     `json:"recommendation,omitempty"`
}

// Analyze aggregates the optimistic, realistic and pessimistic scenarios of
// set. Custom scenarios do not contribute. An empty set yields a zero
// Analysis; ratios over a zero realistic value are treated as 0.
func Analyze(set Set) Analysis {
	if len(set.Scenarios) == 0 {
		return Analysis{}
	}

	var optimistic, realistic, pessimistic float64
	if sc, ok := set.Find(Optimistic); ok {
		optimistic = sc.CalculatedValue
	}
	if sc, ok := set.Find(Realistic); ok {
		realistic = sc.CalculatedValue
	}
	if sc, ok := set.Find(Pessimistic); ok {
		pessimistic = sc.CalculatedValue
	}

	valueRange := optimistic - pessimistic
	upside := ratio(optimistic-realistic, realistic)
	downside := ratio(realistic-pessimistic, realistic)

	return Analysis{
		Optimistic:       optimistic,
		Realistic:        realistic,
		Pessimistic:      pessimistic,
		ValueRange:       valueRange,
		RiskPremium:      upside,
		RecommendedValue: (optimistic + 2*realistic + pessimistic) / 4,
		RiskLevel:        riskLevel(ratio(valueRange, realistic)),
		Recommendation:   recommend(upside, downside),
	}
}

// ratio divides by a non-zero denominator of either sign.
func ratio(numerator, denominator float64) float64 {
	if mathutil.IsZero(denominator) {
		return 0
	}
	return numerator / denominator
}

func riskLevel(spread float64) business.RiskLevel {
	switch {
	case spread < 0.3:
		return business.RiskLow
	case spread < 0.6:
		return business.RiskMedium
	default:
		return business.RiskHigh
	}
}

func recommend(upside, downside float64) Recommendation {
	switch {
	case upside > 0.3 && downside < 0.2:
		return StrongBuy
	case upside > 0.2 && downside < 0.3:
		return Buy
	case upside > 0.1:
		return Consider
	default:
		return Avoid
	}
}
