// Package simulate plays a policy script against the engine without a UI.
package simulate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tatianab/policy-game/internal/advisor"
	"github.com/tatianab/policy-game/internal/engine"
	"github.com/tatianab/policy-game/internal/models"
)

// Runner drives one engine through a script.
type Runner struct {
	Engine  *engine.Engine
	Advisor advisor.Advisor // optional
	Logger  *zap.Logger
}

// Run plays script from the engine's current quarter until the game ends or
// maxTurns quarters have been played, and reports the result.
func (r *Runner) Run(ctx context.Context, script *models.PolicyScript, maxTurns int) (*models.RunReport, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &models.RunReport{
		RunID:  uuid.NewString(),
		Script: script.Name,
		Seed:   r.Engine.Current(),
	}
	logger.Info("starting run", zap.String("run_id", report.RunID), zap.String("script", script.Name), zap.Int("max_turns", maxTurns))

	for turn := 0; turn < maxTurns && r.Engine.Status() == engine.Running; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		policy := script.Policy(turn)
		prev := r.Engine.Current()
		res, err := r.Engine.AdvanceTurn(policy)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", turn+1, err)
		}

		rec := models.TurnRecord{
			Policy:     policy,
			State:      res.State,
			Iterations: res.Equilibrium.Iterations,
			Converged:  res.Equilibrium.Converged,
		}
		if r.Advisor != nil {
			text, err := r.Advisor.Comment(ctx, advisor.NewReport(prev, res.State, policy))
			if err != nil {
				return nil, fmt.Errorf("turn %d commentary: %w", turn+1, err)
			}
			rec.Commentary = text
		}
		report.Turns = append(report.Turns, rec)
	}

	if r.Engine.Status() != engine.Ended {
		report.Reason = "unfinished"
		return report, nil
	}

	out, err := r.Engine.Outcome()
	if err != nil {
		return nil, err
	}
	report.Reason = string(out.Reason)
	report.Rank = out.Rank
	report.Title = out.Title
	report.Summary = out.Description
	logger.Info("run finished", zap.String("run_id", report.RunID), zap.String("reason", report.Reason), zap.String("rank", report.Rank))
	return report, nil
}
