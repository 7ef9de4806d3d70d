package opportunity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mcoot/snakegame/internal/model"
)

// Insighter produces sales insights for an opportunity. Failures are
// reported inside the returned Insights rather than as an error.
type Insighter interface {
	Insights(ctx context.Context, opp *model.Opportunity) model.Insights
}

// Defaults for the OpenAI-compatible endpoint
const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultModel     = "llama-3.3-70b-versatile"
	DefaultMaxTokens = 1024
)

// Messages stored when the model gives nothing usable
const (
	NoContentMessage = "No content returned from LLM."
	DisabledMessage  = "Insights disabled: no LLM API key configured."
)

// OpenAIConfig configures OpenAIInsighter
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIInsighter asks an OpenAI-compatible chat completions API for insights
type OpenAIInsighter struct {
	client openai.Client
	model  string
}

// NewOpenAIInsighter creates an insighter. Empty BaseURL and Model take the defaults.
func NewOpenAIInsighter(cfg OpenAIConfig) *OpenAIInsighter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &OpenAIInsighter{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(0),
		),
		model: cfg.Model,
	}
}

func (o *OpenAIInsighter) Insights(ctx context.Context, opp *model.Opportunity) model.Insights {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(opp)),
		},
		Model:               openai.ChatModel(o.model),
		Temperature:         openai.Float(1),
		TopP:                openai.Float(1),
		MaxCompletionTokens: openai.Int(DefaultMaxTokens),
	})
	if err != nil {
		return model.Insights{model.InsightKeyError: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return model.Insights{model.InsightKeyRaw: NoContentMessage}
	}
	return ParseInsights(resp.Choices[0].Message.Content)
}

// ParseInsights decodes a model reply. Replies that are not a JSON object are kept verbatim under "raw".
func ParseInsights(content string) model.Insights {
	if content == "" {
		return model.Insights{model.InsightKeyRaw: NoContentMessage}
	}

	var insights model.Insights
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &insights); err != nil || insights == nil {
		return model.Insights{model.InsightKeyRaw: content}
	}
	return insights
}

// stripCodeFence removes a surrounding ``` or ```json markdown fence
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") || len(t) < 6 {
		return s
	}
	t = strings.TrimSuffix(strings.TrimPrefix(t, "```"), "```")
	t = strings.TrimPrefix(t, "json")
	return strings.TrimSpace(t)
}

func buildPrompt(opp *model.Opportunity) string {
	var b strings.Builder
	b.WriteString("Given the following opportunity data:\n")
	fmt.Fprintf(&b, "Title: %s\n", opp.Title)
	fmt.Fprintf(&b, "Client: %s\n", opp.Client)
	fmt.Fprintf(&b, "Contact Name: %s\n", opp.ContactName)
	fmt.Fprintf(&b, "Contact Email: %s\n", opp.ContactEmail)
	fmt.Fprintf(&b, "Description: %s\n", opp.Description)
	fmt.Fprintf(&b, "Type: %s\n", opp.Type)
	fmt.Fprintf(&b, "Complexity: %s\n", opp.Complexity)
	fmt.Fprintf(&b, "Duration: %s\n", opp.Duration)
	fmt.Fprintf(&b, "Skills: %s\n", opp.Skills)
	fmt.Fprintf(&b, "Deal Value: %g\n", opp.DealValue)
	b.WriteString("\nGenerate a JSON object with the following fields:\n")
	fmt.Fprintf(&b, "- %s: (string, short summary)\n", model.InsightKeyLeadSources)
	fmt.Fprintf(&b, "- %s: (string, short summary)\n", model.InsightKeyConversionPatterns)
	fmt.Fprintf(&b, "- %s: (string, short actionable recommendations)\n", model.InsightKeyRecommendations)
	return b.String()
}

// StaticInsighter returns the same insights for every opportunity.
// It is used when no LLM API key is configured.
type StaticInsighter struct {
	Value model.Insights
}

// NewDisabledInsighter returns a StaticInsighter explaining that insights are off
func NewDisabledInsighter() *StaticInsighter {
	return &StaticInsighter{Value: model.Insights{model.InsightKeyRaw: DisabledMessage}}
}

func (s *StaticInsighter) Insights(ctx context.Context, opp *model.Opportunity) model.Insights {
	out := make(model.Insights, len(s.Value))
	for k, v := range s.Value {
		out[k] = v
	}
	return out
}
