package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/policy-game/internal/models"
)

// play advances e with policy until the game ends or n turns are taken.
func play(t *testing.T, e *Engine, policy models.PolicyInput, n int) []TurnResult {
	t.Helper()
	var results []TurnResult
	for i := 0; i < n && e.Status() == Running; i++ {
		res, err := e.AdvanceTurn(policy)
		require.NoError(t, err)
		results = append(results, res)
	}
	return results
}

func TestNew_StartsWithSeed(t *testing.T) {
	e := New(nil)

	assert.Equal(t, Running, e.Status())
	assert.Equal(t, ReasonNone, e.Reason())
	require.Len(t, e.History(), 1)
	assert.Equal(t, Seed(), e.Current())
	assert.Equal(t, "2024 Q2", e.Current().Label)
}

func TestAdvanceTurn_SteadyStateAtDefaultPolicy(t *testing.T) {
	e := New(nil)
	seed := e.Current()

	res, err := e.AdvanceTurn(models.PolicyInput{})
	require.NoError(t, err)

	assert.True(t, res.Equilibrium.Converged)
	assert.Less(t, res.Equilibrium.Residual, 0.1)
	assert.InEpsilon(t, seed.Output, res.State.Output, 0.02)
	assert.Equal(t, 1, res.State.Period)
	assert.Equal(t, "2024 Q3", res.State.Label)
	assert.Equal(t, seed.GovernmentSpending, res.State.GovernmentSpending)
	assert.Equal(t, seed.InterestRate, res.State.InterestRate)
	// First quarter measures inflation against the 100 baseline with a zero gap.
	assert.InDelta(t, -0.001+0.3079*0.001998, res.State.Inflation, 1e-5)
	assert.Equal(t, Running, res.Status)
	assert.False(t, res.Ended())
}

func TestAdvanceTurn_AppliesPolicyDeltas(t *testing.T) {
	e := New(nil)
	seed := e.Current()

	res, err := e.AdvanceTurn(models.PolicyInput{TaxRate: 0.05, InterestRateDelta: 0.25, SpendingDelta: 2500})
	require.NoError(t, err)

	assert.Equal(t, 0.05, res.State.TaxRate)
	assert.InDelta(t, seed.InterestRate+0.25, res.State.InterestRate, 1e-12)
	assert.InDelta(t, seed.GovernmentSpending+2500, res.State.GovernmentSpending, 1e-9)
	assert.InDelta(t, res.State.Output, res.State.Consumption+res.State.Investment+res.State.GovernmentSpending, 1e-6)
}

func TestAdvanceTurn_PotentialOutputSmoothing(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{SpendingDelta: 5000}, 3)

	h := e.History()
	for i := 1; i < len(h); i++ {
		prev := h[i-1]
		want := prev.PotentialOutput * math.Pow(prev.Output/prev.PotentialOutput, 0.15)
		assert.InEpsilon(t, want, h[i].PotentialOutput, 1e-9, "period %d", i)
	}
}

func TestAdvanceTurn_Deterministic(t *testing.T) {
	a, b := New(nil), New(nil)
	policies := []models.PolicyInput{
		{},
		{TaxRate: 0.02, SpendingDelta: 3000},
		{InterestRateDelta: -0.3},
		{TaxRate: -0.01, SpendingDelta: -1500, InterestRateDelta: 0.1},
	}
	for _, p := range policies {
		ra, err := a.AdvanceTurn(p)
		require.NoError(t, err)
		rb, err := b.AdvanceTurn(p)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
	if diff := cmp.Diff(a.History(), b.History()); diff != "" {
		t.Errorf("histories differ (-a +b):\n%s", diff)
	}
}

func TestAdvanceTurn_HistoryGrowsByOne(t *testing.T) {
	e := New(nil)
	for i := 1; i <= 5; i++ {
		_, err := e.AdvanceTurn(models.PolicyInput{SpendingDelta: 500})
		require.NoError(t, err)
		assert.Len(t, e.History(), i+1)
		assert.Equal(t, i, e.Current().Period)
	}
}

func TestAdvanceTurn_PastStatesAreNotMutated(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{}, 2)
	snapshot := e.History()

	leaked := e.History()
	leaked[0].Output = -1 // callers only get a copy
	play(t, e, models.PolicyInput{TaxRate: 0.1}, 2)

	after := e.History()
	require.Len(t, after, 5)
	assert.Equal(t, Seed(), after[0])
	if diff := cmp.Diff(snapshot, after[:3]); diff != "" {
		t.Errorf("earlier quarters changed:\n%s", diff)
	}
}

func TestAdvanceTurn_InvalidPolicyRejected(t *testing.T) {
	e := New(nil)

	_, err := e.AdvanceTurn(models.PolicyInput{TaxRate: 1})
	require.ErrorIs(t, err, models.ErrInvalidPolicy)
	assert.Len(t, e.History(), 1)
	assert.Equal(t, Running, e.Status())
}

func TestAdvanceTurn_SupportAndUnemploymentBounds(t *testing.T) {
	policies := []models.PolicyInput{
		{TaxRate: models.MaxTaxRate},
		{TaxRate: models.MinTaxRate},
		{SpendingDelta: models.MaxSpendingDelta},
		{SpendingDelta: models.MinSpendingDelta},
		{InterestRateDelta: models.MaxInterestRateDelta},
		{InterestRateDelta: models.MinInterestRateDelta},
		{TaxRate: models.MinTaxRate, InterestRateDelta: models.MinInterestRateDelta, SpendingDelta: models.MaxSpendingDelta},
		{TaxRate: models.MaxTaxRate, InterestRateDelta: models.MaxInterestRateDelta, SpendingDelta: models.MinSpendingDelta},
	}
	for _, p := range policies {
		e := New(nil)
		play(t, e, p, termLength)
		for _, s := range e.History() {
			assert.GreaterOrEqual(t, s.Support, 0.0)
			assert.LessOrEqual(t, s.Support, 100.0)
			assert.GreaterOrEqual(t, s.Unemployment, models.MinUnemployment)
			assert.Greater(t, s.Output, 0.0)
			assert.Greater(t, s.PriceLevel, 0.0)
		}
	}
}

func TestAdvanceTurn_SpendingRaisesGapAndInflation(t *testing.T) {
	baseline, stimulus := New(nil), New(nil)
	play(t, baseline, models.PolicyInput{}, termLength)
	play(t, stimulus, models.PolicyInput{SpendingDelta: 10000}, termLength)

	hb, hs := baseline.History(), stimulus.History()
	require.Len(t, hs, termLength+1)
	require.Len(t, hb, termLength+1)

	var inflationB, inflationS float64
	for i := 2; i <= termLength; i++ {
		gapB := logRatio(hb[i-1].Output, hb[i-1].PotentialOutput)
		gapS := logRatio(hs[i-1].Output, hs[i-1].PotentialOutput)
		assert.Greater(t, gapS, gapB, "gap at period %d", i)
		assert.Greater(t, hs[i].Inflation, hb[i].Inflation, "inflation at period %d", i)
		inflationB += hb[i].Inflation
		inflationS += hs[i].Inflation
	}
	assert.Greater(t, inflationS, inflationB)
	assert.Greater(t, hs[termLength].PriceLevel, hb[termLength].PriceLevel)

	// The output gap keeps widening through the first half of the term.
	for i := 2; i <= termLength/2; i++ {
		assert.Greater(t, logRatio(hs[i].Output, hs[i].PotentialOutput), logRatio(hs[i-1].Output, hs[i-1].PotentialOutput))
	}
}

func TestAdvanceTurn_TermCompletesAtSixteen(t *testing.T) {
	e := New(nil)
	results := play(t, e, models.PolicyInput{}, termLength+5)

	require.Len(t, results, termLength)
	for _, r := range results[:termLength-1] {
		assert.False(t, r.Ended())
	}
	last := results[termLength-1]
	assert.True(t, last.Ended())
	assert.Equal(t, TermComplete, last.Reason)
	assert.Equal(t, termLength, e.Current().Period)
	assert.Equal(t, "2028 Q2", e.Current().Label)
	assert.Equal(t, Ended, e.Status())
}

func TestAdvanceTurn_DissolutionEndsGame(t *testing.T) {
	e := New(nil)
	results := play(t, e, models.PolicyInput{TaxRate: models.MaxTaxRate}, termLength)

	last := results[len(results)-1]
	require.True(t, last.Ended())
	assert.Equal(t, Dissolved, last.Reason)
	assert.Less(t, e.Current().Period, termLength)
	assert.Less(t, e.Current().Support, dissolutionThreshold)

	out, err := e.Outcome()
	require.NoError(t, err)
	assert.Equal(t, "F", out.Rank)
	assert.Equal(t, Dissolved, out.Reason)
}

func TestAdvanceTurn_SpendingCutsDissolve(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{SpendingDelta: models.MinSpendingDelta}, termLength)

	assert.Equal(t, Dissolved, e.Reason())
	assert.Less(t, e.Current().Period, termLength)
}

func TestAdvanceTurn_NoTransitionAfterEnd(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{}, termLength)
	require.Equal(t, Ended, e.Status())

	before := e.History()
	_, err := e.AdvanceTurn(models.PolicyInput{SpendingDelta: 1000})
	require.ErrorIs(t, err, ErrGameOver)

	assert.Equal(t, Ended, e.Status())
	assert.Equal(t, TermComplete, e.Reason())
	if diff := cmp.Diff(before, e.History()); diff != "" {
		t.Errorf("history changed after game over:\n%s", diff)
	}
}

func TestOutcome_RequiresEndedGame(t *testing.T) {
	e := New(nil)
	_, err := e.Outcome()
	require.ErrorIs(t, err, ErrGameInProgress)

	play(t, e, models.PolicyInput{}, 3)
	_, err = e.Outcome()
	require.ErrorIs(t, err, ErrGameInProgress)
}

func TestOutcome_FullTermAtDefaultPolicy(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{}, termLength)

	out, err := e.Outcome()
	require.NoError(t, err)
	assert.Equal(t, TermComplete, out.Reason)
	assert.Equal(t, "C", out.Rank)
	assert.Equal(t, "high-growth", out.RuleID)
	assert.InDelta(t, 0.19, out.Growth, 0.01)
}

func TestReset_StartsFreshHistory(t *testing.T) {
	e := New(nil)
	play(t, e, models.PolicyInput{TaxRate: models.MaxTaxRate}, termLength)
	require.Equal(t, Ended, e.Status())
	old := e.History()

	e.Reset()

	assert.Equal(t, Running, e.Status())
	assert.Equal(t, ReasonNone, e.Reason())
	require.Len(t, e.History(), 1)
	assert.Equal(t, Seed(), e.Current())
	assert.Greater(t, len(old), 1)

	_, err := e.AdvanceTurn(models.PolicyInput{})
	require.NoError(t, err)
}

func TestRoundTrip_IdenticalPolicySequences(t *testing.T) {
	script := []models.PolicyInput{
		{SpendingDelta: 5000},
		{SpendingDelta: 5000, InterestRateDelta: 0.2},
		{TaxRate: 0.03},
		{TaxRate: 0.03, SpendingDelta: -2000},
		{InterestRateDelta: -0.4},
	}
	run := func() []models.EconomicState {
		e := New(nil)
		for i := 0; i < termLength; i++ {
			_, err := e.AdvanceTurn(script[i%len(script)])
			if err != nil {
				break
			}
		}
		return e.History()
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func logRatio(a, b float64) float64 {
	return math.Log(a / b)
}
