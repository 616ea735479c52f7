package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Expert represents a chat with a business expert.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	chat        *genai.Chat
}

func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask is a simple wrapper on top of Chat.Send to make it simpler for callers.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	return resp.Candidates[0].Content, nil
}

// NewAnalyst creates the analyst expert, seeded with a rendered simulation
// report so the session can discuss its numbers directly.
func NewAnalyst(report string) *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an investment analyst.
		He has the full simulation report and can explain the strategy's
		returns, realized gains and losses, and tax effects.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an investment analyst. The user ran a backtest of a
			recurring-contribution strategy with tax-loss harvesting and
			periodic rebalancing. Below is the full report of that run.
			Answer questions about it precisely, citing its figures. If a
			question cannot be answered from the report, say so.

			` + report}}},
		},
	}
}
