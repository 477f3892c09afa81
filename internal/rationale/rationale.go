// Package rationale generates a short trade rationale through the OpenAI
// chat-completion API. The generated text is relayed unmodified; there is no
// caching and no retry beyond surfacing the upstream error.
package rationale

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

const systemPrompt = "You are a professional financial assistant."

// completer is the slice of the OpenAI client the generator needs.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TradeContext carries the finalized order parameters the rationale is
// written for. Amount stays a string: it is prompt text, not a number this
// package computes with.
type TradeContext struct {
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Amount string `json:"amount"`
}

// Generator produces rationale text for an order.
type Generator struct {
	client completer
	model  string
	log    zerolog.Logger
}

func New(apiKey, model string, log zerolog.Logger) *Generator {
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}
}

// Generate sends the order parameters to the completion API and returns the
// generated text as-is.
func (g *Generator) Generate(ctx context.Context, tc TradeContext) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a short, concise, and professional-sounding rationale for a trading order "+
			"with the following parameters: Symbol: %s, Side: %s, Amount: %s. "+
			"The rationale should be suitable for a log entry.",
		tc.Symbol, tc.Side, tc.Amount,
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		err = wrap(err)
		g.log.Error().
			Str("event", "rationale_failed").
			Str("symbol", tc.Symbol).
			Err(err).
			Msg("rationale generation failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &exchange.UpstreamError{Service: "openai", Message: "completion returned no choices"}
	}

	text := resp.Choices[0].Message.Content
	g.log.Info().
		Str("event", "rationale_generated").
		Str("symbol", tc.Symbol).
		Str("model", g.model).
		Msg("rationale generated")
	return text, nil
}

// wrap converts go-openai API errors into UpstreamError so the upstream
// status and message reach the UI unmodified.
func wrap(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &exchange.UpstreamError{
			Service: "openai",
			Status:  apiErr.HTTPStatusCode,
			Message: apiErr.Message,
		}
	}
	return err
}
