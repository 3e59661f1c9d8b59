package engine

import "github.com/tatianab/policy-game/internal/models"

// Outcome is the verdict on a finished term.
type Outcome struct {
	Rank        string
	RuleID      string
	Title       string
	Description string
	Reason      Reason

	Growth       float64 // Y_final / Y_seed - 1
	Inflation    float64 // P_final / P_seed - 1
	Unemployment float64
	Support      float64
}

type rankBand struct {
	min  float64
	rank string
}

// Bands are checked top down; support below the last band ranks E.
var rankBands = []rankBand{
	{90, "S"},
	{80, "A"},
	{60, "B"},
	{40, "C"},
	{20, "D"},
}

// LetterRank grades final support. A dissolved government always ranks F.
func LetterRank(support float64, reason Reason) string {
	if reason == Dissolved {
		return "F"
	}
	for _, b := range rankBands {
		if support >= b.min {
			return b.rank
		}
	}
	return "E"
}

// termSummary is what the narrative rules look at.
type termSummary struct {
	growth, inflation, unemployment, support float64
}

type narrativeRule struct {
	id          string
	title       string
	description string
	match       func(termSummary) bool
}

// narrativeRules is evaluated in order and the first match wins. The order
// is part of the game's behaviour; the last rule always matches.
var narrativeRules = []narrativeRule{
	{
		id:          "golden-age",
		title:       "Architect of a Golden Age",
		description: "High support, strong growth and low unemployment. A term for the history books.",
		match: func(s termSummary) bool {
			return s.support > 75 && s.growth > 0.08 && s.unemployment < 0.028
		},
	},
	{
		id:          "high-growth",
		title:       "Champion of High Growth",
		description: "Growth came first, and the economy delivered.",
		match:       func(s termSummary) bool { return s.growth > 0.12 },
	},
	{
		id:          "stabilizer",
		title:       "The Steady Stabilizer",
		description: "Prices held steady and the public trusted your hand on the tiller.",
		match: func(s termSummary) bool {
			return s.inflation < 0.02 && s.inflation > -0.02 && s.support > 60
		},
	},
	{
		id:          "inflation-fighter",
		title:       "Inflation Fighter",
		description: "A term spent battling rising prices.",
		match:       func(s termSummary) bool { return s.inflation > 0.1 },
	},
	{
		id:          "jobs-first",
		title:       "Toward Full Employment",
		description: "Creating jobs was the defining challenge of this term.",
		match:       func(s termSummary) bool { return s.unemployment > 0.04 },
	},
	{
		id:          "stormy-voyage",
		title:       "Sailing Through the Storm",
		description: "Under a skeptical public eye, you steered through difficult waters.",
		match:       func(s termSummary) bool { return s.support < 35 },
	},
	{
		id:          "steady-hand",
		title:       "Prudent Policymaker",
		description: "No great upheavals: a stable, sensible term in office.",
		match:       func(termSummary) bool { return true },
	},
}

// Classify grades the term that started at seed and finished at final.
func Classify(seed, final models.EconomicState, reason Reason) Outcome {
	s := termSummary{
		growth:       final.Output/seed.Output - 1,
		inflation:    final.PriceLevel/seed.PriceLevel - 1,
		unemployment: final.Unemployment,
		support:      final.Support,
	}

	out := Outcome{
		Rank:         LetterRank(s.support, reason),
		Reason:       reason,
		Growth:       s.growth,
		Inflation:    s.inflation,
		Unemployment: s.unemployment,
		Support:      s.support,
	}
	for _, r := range narrativeRules {
		if r.match(s) {
			out.RuleID, out.Title, out.Description = r.id, r.title, r.description
			break
		}
	}
	return out
}
