package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/policy-game/internal/advisor"
	"github.com/tatianab/policy-game/internal/config"
	"github.com/tatianab/policy-game/internal/engine"
	"github.com/tatianab/policy-game/internal/logging"
	"github.com/tatianab/policy-game/internal/models"
)

// Plays a full term with a Gemini model choosing the policy each quarter.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireGemini(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	eng := engine.New(logger)

	// The advisor comments on every quarter, as it does in the game.
	adv, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		log.Fatalf("Failed to create advisor: %v", err)
	}
	defer adv.Close()

	// Initialize the Player LLM
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.Model)

	fmt.Printf("--- Starting term in %s ---\n\n", eng.Current().Label)
	commentary := advisor.Greeting

	for eng.Status() == engine.Running {
		prev := eng.Current()
		fmt.Printf("--- %s (turn %d) ---\n", models.QuarterLabel(prev.Period+1), prev.Period+1)

		policy := getPlayerPolicy(ctx, playerModel, eng.History(), commentary)
		fmt.Printf("Player Policy: tax %.1f%%, spending %+.0f, rate %+.2fpt\n",
			policy.TaxRate*100, policy.SpendingDelta, policy.InterestRateDelta)

		res, err := eng.AdvanceTurn(policy)
		if err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}

		report := advisor.NewReport(prev, res.State, policy)
		commentary, _ = adv.Comment(ctx, report)
		fmt.Printf("GDP %+.2f%%, prices %+.2f%%, unemployment %.2f%%, support %.1f%%\n",
			report.GDPChange, report.PriceChange, res.State.Unemployment*100, res.State.Support)
		fmt.Printf("Advisor: %s\n", commentary)
		if !res.Equilibrium.Converged {
			fmt.Printf("Solver stopped after %d iterations (residual %.3f)\n", res.Equilibrium.Iterations, res.Equilibrium.Residual)
		}
		fmt.Println()
	}

	out, err := eng.Outcome()
	if err != nil {
		log.Fatalf("Failed to classify outcome: %v", err)
	}
	if out.Reason == engine.Dissolved {
		fmt.Println("Game Ended: the cabinet was dissolved!")
	} else {
		fmt.Println("Game Ended: term complete!")
	}
	fmt.Printf("Rank: %s\n%s: %s\n", out.Rank, out.Title, out.Description)
}

func getPlayerPolicy(ctx context.Context, model *genai.GenerativeModel, history []models.EconomicState, commentary string) models.PolicyInput {
	historyText := ""
	for _, s := range history {
		historyText += fmt.Sprintf("%s: GDP %.1f, prices %.2f, unemployment %.2f%%, rate %.2f, tax %.1f%%, spending %.0f, support %.1f%%\n",
			s.Label, s.Output, s.PriceLevel, s.Unemployment*100, s.InterestRate, s.TaxRate*100, s.GovernmentSpending, s.Support)
	}

	prompt := fmt.Sprintf(`You are playing an economic policy game as finance minister. Each quarter you set:
- tax_rate: between %.2f and %.2f
- spending_delta: change in government spending, between %.0f and %.0f
- interest_rate_delta: change in the policy rate in percentage points, between %.2f and %.2f

Keep public support above 20%% for %d quarters. Voters like growth above 0.5%% per quarter,
inflation near 0.5%% per quarter and unemployment below 2.5%%.

History:
%s
Your advisor says: %s

Return ONLY YAML with the keys tax_rate, spending_delta and interest_rate_delta.`,
		models.MinTaxRate, models.MaxTaxRate,
		models.MinSpendingDelta, models.MaxSpendingDelta,
		models.MinInterestRateDelta, models.MaxInterestRateDelta,
		16, historyText, commentary,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.PolicyInput{}
	}

	cleanYAML := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	cleanYAML = strings.TrimPrefix(cleanYAML, "```yaml")
	cleanYAML = strings.TrimPrefix(cleanYAML, "```")
	cleanYAML = strings.TrimSuffix(cleanYAML, "```")

	var policy models.PolicyInput
	if err := yaml.Unmarshal([]byte(cleanYAML), &policy); err != nil {
		return models.PolicyInput{}
	}
	if err := policy.Validate(); err != nil {
		return models.PolicyInput{}
	}
	return policy
}
