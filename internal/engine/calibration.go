package engine

import "github.com/tatianab/policy-game/internal/models"

const (
	// termLength is the number of quarters in a full term.
	termLength = 16
	// dissolutionThreshold is the support level below which the government falls.
	dissolutionThreshold = 20.0

	potentialWeight = 0.85 // weight on last quarter's potential output, in logs
	baselinePrice   = 100.0

	// Okun-style unemployment response to output growth.
	okunCoefficient = 0.30
	okunGrowthRef   = 0.0
)

// Seed returns the calibrated opening quarter, 2024 Q2.
func Seed() models.EconomicState {
	return models.EconomicState{
		Period:             0,
		Label:              models.QuarterLabel(0),
		Output:             586251.3,
		Consumption:        305069.6,
		Investment:         127838.6,
		GovernmentSpending: 149000.0,
		PriceLevel:         100.2,
		InterestRate:       -1.679,
		TaxRate:            0,
		Unemployment:       0.025,
		Support:            50.0,
		PotentialOutput:    586251.3,
	}
}
