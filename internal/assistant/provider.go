package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultMaxTokens   = 400
	DefaultTemperature = 0.7
)

// DefaultModels is the remote chain, tried in order.
var DefaultModels = []string{
	"meta-llama/llama-3.1-8b-instruct:free",
	"microsoft/phi-3-mini-128k-instruct:free",
	"google/gemma-2-9b-it:free",
}

// Outcome tells the router what to do after a failed provider call.
type Outcome int

const (
	// OutcomeNext moves on to the next provider in the chain.
	OutcomeNext Outcome = iota
	// OutcomeAbort stops the chain; remaining providers would fail the same way.
	OutcomeAbort
)

func (o Outcome) String() string {
	if o == OutcomeAbort {
		return "abort"
	}
	return "next"
}

var errEmptyCompletion = errors.New("empty completion")

// Provider is one remote model in the chain.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
	Classify(err error) Outcome
}

// ClassifyStatus aborts on authentication failures and moves on otherwise:
// rate limits, other statuses, transport errors and empty answers all fall
// through to the next model.
func ClassifyStatus(err error) Outcome {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return OutcomeAbort
	}
	return OutcomeNext
}

// OpenAIConfig configures providers for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Models      []string
	MaxTokens   int
	Temperature *float64 // nil uses DefaultTemperature
	Referer     string
	Title       string
	HTTPClient  *http.Client
}

// OpenAIProvider calls one model through the OpenAI SDK.
type OpenAIProvider struct {
	model       string
	client      openai.Client
	maxTokens   int64
	temperature float64
}

// NewOpenAIProviders builds one provider per configured model, sharing a
// client. Without an API key the chain is empty.
func NewOpenAIProviders(cfg OpenAIConfig) []Provider {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		// The router owns retries: one call per model.
		option.WithMaxRetries(0),
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := openai.NewClient(opts...)

	providers := make([]Provider, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		providers = append(providers, &OpenAIProvider{
			model:       m,
			client:      client,
			maxTokens:   int64(cfg.MaxTokens),
			temperature: temperature,
		})
	}
	return providers
}

func (p *OpenAIProvider) Name() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(p.maxTokens),
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", p.model, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Classify(err error) Outcome { return ClassifyStatus(err) }
