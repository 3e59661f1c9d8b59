package advisor

import (
	"math"

	"github.com/tatianab/policy-game/internal/models"
)

// Report is the quarter-over-quarter feedback shown after each turn.
// Changes are percentages of the previous quarter's value.
type Report struct {
	Quarter            string
	Period             int
	Policy             models.PolicyInput
	GDPChange          float64
	UnemploymentChange float64
	PriceChange        float64
	Growth             float64 // log growth of output
	Inflation          float64
	Unemployment       float64
	Support            float64
}

// NewReport compares next with prev.
func NewReport(prev, next models.EconomicState, policy models.PolicyInput) Report {
	unemploymentBase := prev.Unemployment
	if unemploymentBase == 0 {
		unemploymentBase = 1
	}
	return Report{
		Quarter:            next.Label,
		Period:             next.Period,
		Policy:             policy,
		GDPChange:          (next.Output - prev.Output) / prev.Output * 100,
		UnemploymentChange: (next.Unemployment - prev.Unemployment) / unemploymentBase * 100,
		PriceChange:        (next.PriceLevel - prev.PriceLevel) / prev.PriceLevel * 100,
		Growth:             math.Log(next.Output / prev.Output),
		Inflation:          next.Inflation,
		Unemployment:       next.Unemployment,
		Support:            next.Support,
	}
}
