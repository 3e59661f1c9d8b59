package engine

import (
	"math"

	"github.com/tatianab/policy-game/internal/models"
)

const (
	solverTolerance     = 0.1
	solverMaxIterations = 30
)

// Equilibrium is the solved output, consumption and investment for a quarter
// together with the solver diagnostics.
type Equilibrium struct {
	Output      float64
	Consumption float64
	Investment  float64
	Iterations  int
	Residual    float64 // |Y_candidate - Y_guess| of the last iteration
	Converged   bool
}

// Solve finds output consistent with Y = C + I + G by successive
// substitution, starting from last quarter's output. If the iteration cap is
// reached the last iterate is returned with Converged unset.
func Solve(prev models.EconomicState, taxRate, rate, spending float64) Equilibrium {
	prevIncome := prev.DisposableIncome()
	guess := prev.Output

	var eq Equilibrium
	for eq.Iterations < solverMaxIterations {
		eq.Iterations++

		income := guess - taxRate*guess
		eq.Consumption = NextConsumption(prev.Consumption, income, prevIncome)
		eq.Investment = NextInvestment(prev.Investment, guess, prev.Output, rate, prev.InterestRate)
		eq.Output = eq.Consumption + eq.Investment + spending

		eq.Residual = math.Abs(eq.Output - guess)
		if eq.Residual < solverTolerance {
			eq.Converged = true
			break
		}
		guess = eq.Output
	}
	return eq
}
