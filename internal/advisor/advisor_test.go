package advisor

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/policy-game/internal/models"
)

func TestNewReport(t *testing.T) {
	prev := models.EconomicState{Output: 1000, Unemployment: 0.02, PriceLevel: 100}
	next := models.EconomicState{
		Period: 3, Label: "2025 Q1",
		Output: 1010, Unemployment: 0.019, PriceLevel: 101, Inflation: 0.00995, Support: 55,
	}
	policy := models.PolicyInput{SpendingDelta: 500}

	r := NewReport(prev, next, policy)

	assert.Equal(t, "2025 Q1", r.Quarter)
	assert.Equal(t, 3, r.Period)
	assert.Equal(t, policy, r.Policy)
	assert.InDelta(t, 1.0, r.GDPChange, 1e-9)
	assert.InDelta(t, -5.0, r.UnemploymentChange, 1e-9)
	assert.InDelta(t, 1.0, r.PriceChange, 1e-9)
	assert.InDelta(t, 0.00995, r.Growth, 1e-4)
	assert.Equal(t, 55.0, r.Support)
}

func TestNewReport_ZeroUnemploymentBase(t *testing.T) {
	prev := models.EconomicState{Output: 1000, PriceLevel: 100}
	next := models.EconomicState{Output: 1000, PriceLevel: 100, Unemployment: 0.01}

	r := NewReport(prev, next, models.PolicyInput{})
	assert.InDelta(t, 1.0, r.UnemploymentChange, 1e-9)
}

func TestRuleComment_Order(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{"growth first", Report{Growth: 0.01, Inflation: 0.02, Support: 10}, commentRules[0].text},
		{"contraction", Report{Growth: -0.01, Inflation: 0.02}, commentRules[1].text},
		{"inflation", Report{Growth: 0, Inflation: 0.02, Support: 50}, commentRules[2].text},
		{"deflation", Report{Growth: 0, Inflation: -0.01, Support: 50}, commentRules[3].text},
		{"low support", Report{Growth: 0, Inflation: 0.005, Support: 30}, commentRules[4].text},
		{"quiet quarter", Report{Growth: 0.005, Inflation: 0.005, Support: 50}, defaultComment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rules{}.Comment(context.Background(), tt.report)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	prompt, err := renderPrompt(Report{
		Quarter:      "2024 Q3",
		Period:       1,
		Policy:       models.PolicyInput{TaxRate: 0.05, SpendingDelta: 2500, InterestRateDelta: -0.25},
		GDPChange:    1.15,
		PriceChange:  -0.04,
		Unemployment: 0.0216,
		Support:      49.8,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Quarter: 2024 Q3 (turn 1 of 16)")
	assert.Contains(t, prompt, "tax rate 5.0%")
	assert.Contains(t, prompt, "spending change +2500")
	assert.Contains(t, prompt, "interest rate change -0.25 pt")
	assert.Contains(t, prompt, "GDP change: +1.15%")
	assert.Contains(t, prompt, "Unemployment rate: 2.16%")
	assert.Contains(t, prompt, "Public support: 49.8%")
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("  Hold steady.  \n")}}},
		},
	}
	text, err := firstText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hold steady.", text)

	_, err = firstText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = firstText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("   ")}}}},
	})
	assert.Error(t, err)
}
