package advisor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

//go:embed prompts/commentary.txt
var commentaryPrompt string

var commentaryTemplate = template.Must(template.New("commentary").
	Funcs(template.FuncMap{"pct": func(v float64) float64 { return v * 100 }}).
	Parse(commentaryPrompt))

// Gemini asks a Gemini model for commentary and falls back to the rule table
// when the model fails.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

var _ Advisor = (*Gemini)(nil)

func NewGemini(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Comment(ctx context.Context, r Report) (string, error) {
	prompt, err := renderPrompt(r)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Warn("gemini commentary failed, using rules", zap.String("quarter", r.Quarter), zap.Error(err))
		return RuleComment(r), nil
	}

	text, err := firstText(resp)
	if err != nil {
		g.logger.Warn("gemini commentary unusable, using rules", zap.String("quarter", r.Quarter), zap.Error(err))
		return RuleComment(r), nil
	}
	return text, nil
}

func renderPrompt(r Report) (string, error) {
	var buf bytes.Buffer
	if err := commentaryTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	clean := strings.TrimSpace(string(text))
	if clean == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return clean, nil
}
