package models

import (
	"errors"
	"fmt"
	"math"
)

// EconomicState is the snapshot of the economy at the end of one quarter.
// States are values: the engine never mutates one after appending it.
type EconomicState struct {
	Period             int     `yaml:"period"`
	Label              string  `yaml:"label"` // e.g. "2024 Q2"
	Output             float64 `yaml:"output"`
	Consumption        float64 `yaml:"consumption"`
	Investment         float64 `yaml:"investment"`
	GovernmentSpending float64 `yaml:"government_spending"`
	PriceLevel         float64 `yaml:"price_level"`
	InterestRate       float64 `yaml:"interest_rate"` // percentage points
	TaxRate            float64 `yaml:"tax_rate"`
	Unemployment       float64 `yaml:"unemployment"`
	Support            float64 `yaml:"support"`
	PotentialOutput    float64 `yaml:"potential_output"`
	Inflation          float64 `yaml:"inflation"` // log change of the price level this quarter
}

// DisposableIncome is output net of taxes.
func (s EconomicState) DisposableIncome() float64 {
	return s.Output - s.TaxRate*s.Output
}

// Check reports whether the state satisfies the invariants the log-linear
// model depends on.
func (s EconomicState) Check() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"output", s.Output},
		{"consumption", s.Consumption},
		{"investment", s.Investment},
		{"price level", s.PriceLevel},
		{"potential output", s.PotentialOutput},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%s must be positive and finite, got %v", f.name, f.v)
		}
	}
	if s.Support < 0 || s.Support > 100 {
		return fmt.Errorf("support %v outside [0, 100]", s.Support)
	}
	if s.Unemployment < MinUnemployment {
		return fmt.Errorf("unemployment %v below floor %v", s.Unemployment, MinUnemployment)
	}
	return nil
}

// MinUnemployment is the floor the unemployment rate is clamped to.
const MinUnemployment = 0.005

// Lever bounds offered to the player.
const (
	MinTaxRate           = -0.25
	MaxTaxRate           = 0.25
	TaxRateStep          = 0.005
	MinSpendingDelta     = -10000.0
	MaxSpendingDelta     = 10000.0
	SpendingDeltaStep    = 500.0
	MinInterestRateDelta = -0.5
	MaxInterestRateDelta = 0.5
	InterestRateStep     = 0.01
)

var ErrInvalidPolicy = errors.New("invalid policy")

// PolicyInput holds the levers the player sets for one quarter.
type PolicyInput struct {
	TaxRate           float64 `yaml:"tax_rate"`
	InterestRateDelta float64 `yaml:"interest_rate_delta"`
	SpendingDelta     float64 `yaml:"spending_delta"`
}

// Validate rejects policies outside the ranges the game offers. Within those
// ranges disposable income and output stay positive.
func (p PolicyInput) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidPolicy, name)
		}
		if v < lo || v > hi {
			return fmt.Errorf("%w: %s %v outside [%v, %v]", ErrInvalidPolicy, name, v, lo, hi)
		}
		return nil
	}
	if err := check("tax rate", p.TaxRate, MinTaxRate, MaxTaxRate); err != nil {
		return err
	}
	if err := check("interest rate delta", p.InterestRateDelta, MinInterestRateDelta, MaxInterestRateDelta); err != nil {
		return err
	}
	return check("spending delta", p.SpendingDelta, MinSpendingDelta, MaxSpendingDelta)
}

// QuarterLabel names the quarter that is period quarters after 2024 Q2.
func QuarterLabel(period int) string {
	q := 1 + period // 2024 Q2 is quarter index 1 of 2024
	return fmt.Sprintf("%d Q%d", 2024+q/4, q%4+1)
}
