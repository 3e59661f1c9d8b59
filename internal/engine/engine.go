// Package engine advances the quarterly economy and decides when a term ends.
package engine

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tatianab/policy-game/internal/models"
)

var (
	ErrGameOver        = errors.New("game is over")
	ErrGameInProgress  = errors.New("game is still in progress")
	ErrDegenerateState = errors.New("policy produced a degenerate state")
)

type Status int

const (
	Running Status = iota
	Ended
)

func (s Status) String() string {
	if s == Ended {
		return "ended"
	}
	return "running"
}

// Reason explains why a game ended.
type Reason string

const (
	ReasonNone   Reason = ""
	TermComplete Reason = "term_complete"
	Dissolved    Reason = "dissolution"
)

// TurnResult is what AdvanceTurn produces for one accepted quarter.
type TurnResult struct {
	State       models.EconomicState
	Equilibrium Equilibrium
	Status      Status
	Reason      Reason
}

// Ended reports whether this turn ended the game.
func (r TurnResult) Ended() bool { return r.Status == Ended }

// Engine owns the history of a single game. It is not safe for concurrent use.
type Engine struct {
	history []models.EconomicState
	status  Status
	reason  Reason
	logger  *zap.Logger
}

// New returns an engine seeded with the opening quarter. A nil logger
// disables logging.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger}
	e.Reset()
	return e
}

// Reset discards the game and starts over from the seed quarter.
func (e *Engine) Reset() {
	e.history = []models.EconomicState{Seed()}
	e.status = Running
	e.reason = ReasonNone
	e.logger.Debug("game reset", zap.String("quarter", e.history[0].Label))
}

// Current returns the latest quarter.
func (e *Engine) Current() models.EconomicState {
	return e.history[len(e.history)-1]
}

// History returns a copy of every quarter played so far, seed first.
func (e *Engine) History() []models.EconomicState {
	out := make([]models.EconomicState, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) Status() Status { return e.status }

func (e *Engine) Reason() Reason { return e.reason }

// AdvanceTurn applies policy to the latest quarter and appends the result.
// It fails without touching the history if the game is over or the policy
// is out of range.
func (e *Engine) AdvanceTurn(policy models.PolicyInput) (TurnResult, error) {
	if e.status == Ended {
		return TurnResult{}, ErrGameOver
	}
	if err := policy.Validate(); err != nil {
		return TurnResult{}, err
	}

	prev := e.Current()
	rate := prev.InterestRate + policy.InterestRateDelta
	spending := prev.GovernmentSpending + policy.SpendingDelta

	eq := Solve(prev, policy.TaxRate, rate, spending)
	if !eq.Converged {
		e.logger.Warn("equilibrium did not converge",
			zap.Int("period", prev.Period+1),
			zap.Int("iterations", eq.Iterations),
			zap.Float64("residual", eq.Residual))
	}

	gap := math.Log(prev.Output) - math.Log(prev.PotentialOutput)
	potential := math.Exp(potentialWeight*math.Log(prev.PotentialOutput) + (1-potentialWeight)*math.Log(prev.Output))

	base := baselinePrice
	if len(e.history) > 1 {
		base = e.history[len(e.history)-2].PriceLevel
	}
	price, inflation := NextPrice(prev.PriceLevel, gap, math.Log(prev.PriceLevel/base))

	growth := math.Log(eq.Output / prev.Output)
	unemployment := math.Max(models.MinUnemployment, prev.Unemployment-okunCoefficient*(growth-okunGrowthRef))
	support := NextSupport(growth, inflation, unemployment, prev.Support)

	next := models.EconomicState{
		Period:             prev.Period + 1,
		Label:              models.QuarterLabel(prev.Period + 1),
		Output:             eq.Output,
		Consumption:        eq.Consumption,
		Investment:         eq.Investment,
		GovernmentSpending: spending,
		PriceLevel:         price,
		InterestRate:       rate,
		TaxRate:            policy.TaxRate,
		Unemployment:       unemployment,
		Support:            support,
		PotentialOutput:    potential,
		Inflation:          inflation,
	}
	if err := next.Check(); err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrDegenerateState, err)
	}

	e.history = append(e.history, next)
	switch {
	case next.Period >= termLength:
		e.status, e.reason = Ended, TermComplete
	case next.Support < dissolutionThreshold:
		e.status, e.reason = Ended, Dissolved
	}

	e.logger.Debug("quarter advanced",
		zap.String("quarter", next.Label),
		zap.Float64("output", next.Output),
		zap.Float64("growth", growth),
		zap.Float64("inflation", inflation),
		zap.Float64("unemployment", next.Unemployment),
		zap.Float64("support", next.Support),
		zap.Int("iterations", eq.Iterations))
	if e.status == Ended {
		e.logger.Info("game ended", zap.String("reason", string(e.reason)), zap.Int("period", next.Period))
	}

	return TurnResult{State: next, Equilibrium: eq, Status: e.status, Reason: e.reason}, nil
}

// Outcome classifies the finished game.
func (e *Engine) Outcome() (Outcome, error) {
	if e.status != Ended {
		return Outcome{}, ErrGameInProgress
	}
	return Classify(e.history[0], e.Current(), e.reason), nil
}
