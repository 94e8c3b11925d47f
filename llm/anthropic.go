package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/logger"
)

// stopReasonRefusal is the stop reason Claude reports when it declines.
const stopReasonRefusal = "refusal"

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client anthropic.Client
	settings
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key cannot be empty")
	}

	model := &AnthropicModel{
		settings: settings{
			modelName:  DefaultClaudeModel,
			maxTokens:  defaultMaxTokens,
			apiTimeout: defaultAPITimeout,
		},
	}
	applyOptions(&model.settings, opts)

	httpClient := model.httpClient
	if httpClient == nil {
		httpClient = common.NewHTTPClient()
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if model.baseURL != "" {
		baseURL := model.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	model.client = anthropic.NewClient(clientOpts...)

	logger.Debugf("Anthropic client initialized with model: %s, max tokens: %d, timeout: %s",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, a.apiTimeout)
	defer cancel()

	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(temperature),
	}

	logger.Infof("Sending request to Anthropic with model %s, max tokens %d", a.modelName, maxTokens)

	start := time.Now()
	message, err := a.client.Messages.New(ctx, params)
	latency := time.Since(start)

	out := Response{Provider: ProviderClaude, Model: a.modelName, Latency: latency}
	if err != nil {
		out.Error = classifyAnthropicError(err)
		logger.Debugf("Anthropic request failed after %s: %v", latency, err)
		return out
	}

	out.Usage = Usage{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
	}

	if string(message.StopReason) == stopReasonRefusal {
		out.Error = newProviderError(ProviderRefused, ProviderClaude, 0, errors.New("the model declined to answer"))
		return out
	}

	var content strings.Builder
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content.WriteString(b.Text)
		}
	}
	if content.Len() == 0 {
		out.Error = newProviderError(MalformedResponse, ProviderClaude, 0, errors.New("response contained no text blocks"))
		return out
	}

	out.Content = content.String()
	return out
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return newProviderError(classifyStatus(apiErr.StatusCode), ProviderClaude, apiErr.StatusCode, err)
	}
	return newProviderError(classifyTransport(err), ProviderClaude, 0, err)
}
