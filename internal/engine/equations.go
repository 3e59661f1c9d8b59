package engine

import "math"

// Structural coefficients of the quarterly model. They are fixed; the game
// offers no way to change them.
const (
	// Consumption: error correction on disposable income.
	consLongRunIntercept = -0.0436
	consLongRunIncome    = 0.9647
	consIntercept        = -0.0001
	consIncomeGrowth     = 0.8896
	consCorrection       = -0.1589

	// Investment: error correction on output and the real rate.
	invLongRunIntercept = 10.6456
	invLongRunOutput    = 0.0788
	invLongRunRate      = -1.1401
	invIntercept        = -0.0008
	invOutputGrowth     = 0.9362
	invRateChange       = -0.1318
	invCorrection       = -0.0401

	// Prices: inflation persistence plus output gap.
	priceIntercept   = -0.0010
	pricePersistence = 0.3079
	priceGap         = 0.0501

	// Public support.
	supportGrowthTarget    = 0.005
	supportGrowthWeight    = 2500.0
	supportInflationTarget = 0.005
	supportInflationWeight = 7000.0
	supportUnemploymentRef = 0.025
	supportUnemployWeight  = 18000.0
)

// NextConsumption returns next quarter's consumption. Arguments must be
// positive.
func NextConsumption(prev, income, prevIncome float64) float64 {
	lnPrev := math.Log(prev)
	longRun := consLongRunIntercept + consLongRunIncome*math.Log(prevIncome)
	ect := lnPrev - longRun
	dln := consIntercept + consIncomeGrowth*(math.Log(income)-math.Log(prevIncome)) + consCorrection*ect
	return math.Exp(lnPrev + dln)
}

// NextInvestment returns next quarter's investment. Rates are in percentage
// points; output and investment must be positive.
func NextInvestment(prev, output, prevOutput, rate, prevRate float64) float64 {
	lnPrev := math.Log(prev)
	longRun := invLongRunIntercept + invLongRunOutput*math.Log(prevOutput) + invLongRunRate*prevRate/100
	ect := lnPrev - longRun
	dln := invIntercept +
		invOutputGrowth*(math.Log(output)-math.Log(prevOutput)) +
		invRateChange*(rate-prevRate)/100 +
		invCorrection*ect
	return math.Exp(lnPrev + dln)
}

// NextPrice returns the new price level and the quarter's inflation.
func NextPrice(prev, gap, priorInflation float64) (float64, float64) {
	inflation := priceIntercept + pricePersistence*priorInflation + priceGap*gap
	return prev * math.Exp(inflation), inflation
}

// NextSupport moves public support by a growth bonus, an inflation penalty
// and an unemployment penalty, clamped to [0, 100].
func NextSupport(growth, inflation, unemployment, prior float64) float64 {
	bonus := (growth - supportGrowthTarget) * supportGrowthWeight
	inflationPenalty := math.Abs(inflation-supportInflationTarget) * supportInflationWeight
	unemploymentPenalty := math.Max(0, unemployment-supportUnemploymentRef) * supportUnemployWeight
	return clamp(prior+(bonus-inflationPenalty-unemploymentPenalty)/100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
