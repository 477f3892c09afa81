package rationale

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

type fakeCompleter struct {
	lastReq openai.ChatCompletionRequest
	text    string
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.text}},
		},
	}, nil
}

func newTestGenerator(fc *fakeCompleter) *Generator {
	return &Generator{client: fc, model: "gpt-3.5-turbo", log: zerolog.Nop()}
}

func TestGenerateRelaysTextUnmodified(t *testing.T) {
	fc := &fakeCompleter{text: "  Entering a long BTCUSDT position on momentum.  "}
	g := newTestGenerator(fc)

	got, err := g.Generate(context.Background(), TradeContext{
		Symbol: "BTCUSDT", Side: "BUY", Amount: "0.01",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != fc.text {
		t.Errorf("text modified: %q", got)
	}
}

func TestGeneratePromptCarriesOrderParams(t *testing.T) {
	fc := &fakeCompleter{text: "ok"}
	g := newTestGenerator(fc)

	if _, err := g.Generate(context.Background(), TradeContext{
		Symbol: "ETHUSDT", Side: "SELL", Amount: "1.5",
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if fc.lastReq.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", fc.lastReq.Model)
	}
	if len(fc.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(fc.lastReq.Messages))
	}
	if fc.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", fc.lastReq.Messages[0].Role)
	}
	user := fc.lastReq.Messages[1].Content
	for _, want := range []string{"ETHUSDT", "SELL", "1.5"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q: %q", want, user)
		}
	}
}

func TestGenerateWrapsAPIError(t *testing.T) {
	fc := &fakeCompleter{err: &openai.APIError{
		HTTPStatusCode: 429,
		Message:        "Rate limit reached",
	}}
	g := newTestGenerator(fc)

	_, err := g.Generate(context.Background(), TradeContext{Symbol: "BTCUSDT", Side: "BUY", Amount: "1"})

	var uerr *exchange.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if uerr.Service != "openai" || uerr.Status != 429 {
		t.Errorf("upstream = %+v", uerr)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	g := &Generator{
		client: completerFunc(func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, nil
		}),
		model: "gpt-3.5-turbo",
		log:   zerolog.Nop(),
	}

	_, err := g.Generate(context.Background(), TradeContext{Symbol: "BTCUSDT", Side: "BUY", Amount: "1"})
	var uerr *exchange.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
}

type completerFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f completerFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}
