package returns

import (
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/constants"
)

// NetPresentValue discounts flows (flow t at year t+1) at rate and subtracts
// the up-front investment.
func NetPresentValue(flows []float64, investment, rate float64) float64 {
	npv := -investment
	for i, cf := range flows {
		npv += cf / math.Pow(1+rate, float64(i+1))
	}
	return npv
}

// npvDerivative is d(NPV)/d(rate).
func npvDerivative(flows []float64, rate float64) float64 {
	d := 0.0
	for i, cf := range flows {
		t := float64(i + 1)
		d -= t * cf / math.Pow(1+rate, t+1)
	}
	return d
}

// InternalRateOfReturn solves NPV(rate) = 0 with Newton-Raphson starting at
// 10%. It stops once |NPV| falls within the tolerance; after the iteration
// cap the last estimate is returned with converged set to false.
func InternalRateOfReturn(flows []float64, investment float64) (rate float64, iterations int, converged bool) {
	rate = constants.IRRInitialGuess
	for iterations = 0; iterations < constants.IRRMaxIterations; iterations++ {
		npv := NetPresentValue(flows, investment, rate)
		if math.Abs(npv) < constants.IRRTolerance {
			return rate, iterations, true
		}
		d := npvDerivative(flows, rate)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return rate, iterations, false
		}
		next := rate - npv/d
		if next <= -1 {
			// Stay in the domain where (1+rate) is positive.
			next = (rate - 1) / 2
		}
		rate = next
	}
	return rate, iterations, false
}
