// Package advisor turns a played quarter into feedback for the player.
package advisor

import "context"

// Advisor comments on a quarter's results.
type Advisor interface {
	Comment(ctx context.Context, r Report) (string, error)
}

// Greeting is the first line of the news feed.
const Greeting = "Good morning, Minister. Let's start by looking over the budget."

type commentRule struct {
	match func(Report) bool
	text  string
}

// commentRules is checked in order; the first match wins.
var commentRules = []commentRule{
	{func(r Report) bool { return r.Growth > 0.008 }, "The economy is picking up! Let's keep the investment coming."},
	{func(r Report) bool { return r.Growth < -0.005 }, "GDP is falling. Domestic demand is in serious trouble."},
	{func(r Report) bool { return r.Inflation > 0.01 }, "Prices are climbing fast. It may be time to revisit interest rates."},
	{func(r Report) bool { return r.Inflation < -0.005 }, "We're at risk of a deflationary spiral! Bold monetary easing is needed."},
	{func(r Report) bool { return r.Support < 35 }, "Public discontent is growing. Tread carefully."},
}

const defaultComment = "A smooth quarter. Please set the course for the next one."

// Rules is the built-in advisor. It never fails.
type Rules struct{}

func (Rules) Comment(_ context.Context, r Report) (string, error) {
	return RuleComment(r), nil
}

// RuleComment picks the commentary for r from the fixed rule table.
func RuleComment(r Report) string {
	for _, rule := range commentRules {
		if rule.match(r) {
			return rule.text
		}
	}
	return defaultComment
}
