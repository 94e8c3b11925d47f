package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface using OpenAI's API
type OpenAIModel struct {
	client *openai.Client
	settings
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key cannot be empty")
	}

	model := &OpenAIModel{
		settings: settings{
			modelName:  DefaultOpenAIModel,
			maxTokens:  defaultMaxTokens,
			apiTimeout: defaultAPITimeout,
		},
	}
	applyOptions(&model.settings, opts)

	config := openai.DefaultConfig(apiKey)
	if model.baseURL != "" {
		config.BaseURL = model.baseURL
	}
	httpClient := model.httpClient
	if httpClient == nil {
		httpClient = common.NewHTTPClient()
	}
	config.HTTPClient = httpClient
	model.client = openai.NewClientWithConfig(config)

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %s",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, o.apiTimeout)
	defer cancel()

	maxTokens := o.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	logger.Infof("Sending request to OpenAI with model %s, max tokens %d", o.modelName, maxTokens)

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	latency := time.Since(start)

	out := Response{Provider: ProviderOpenAI, Model: o.modelName, Latency: latency}
	if err != nil {
		out.Error = classifyOpenAIError(err)
		logger.Debugf("OpenAI request failed after %s: %v", latency, err)
		return out
	}

	out.Usage = Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}

	if len(resp.Choices) == 0 {
		out.Error = newProviderError(MalformedResponse, ProviderOpenAI, 0, errors.New("response contained no choices"))
		return out
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		out.Error = newProviderError(ProviderRefused, ProviderOpenAI, 0, errors.New(choice.Message.Refusal))
		return out
	}
	if choice.FinishReason == openai.FinishReasonContentFilter {
		out.Error = newProviderError(ProviderRefused, ProviderOpenAI, 0, errors.New("output was blocked by the content filter"))
		return out
	}
	if choice.Message.Content == "" {
		out.Error = newProviderError(MalformedResponse, ProviderOpenAI, 0, errors.New("response contained no text"))
		return out
	}

	out.Content = choice.Message.Content
	return out
}

// refusalCodes are the error codes OpenAI uses for policy rejections.
var refusalCodes = map[string]bool{
	"content_filter":           true,
	"content_policy_violation": true,
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		kind := classifyStatus(apiErr.HTTPStatusCode)
		if refusalCodes[fmt.Sprint(apiErr.Code)] {
			kind = ProviderRefused
		}
		return newProviderError(kind, ProviderOpenAI, apiErr.HTTPStatusCode, errors.New(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newProviderError(classifyStatus(reqErr.HTTPStatusCode), ProviderOpenAI, reqErr.HTTPStatusCode, err)
	}

	return newProviderError(classifyTransport(err), ProviderOpenAI, 0, err)
}
