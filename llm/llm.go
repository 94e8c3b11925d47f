package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderOpenAI, ProviderClaude}

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4.1"
	DefaultClaudeModel = "claude-3-7-sonnet-latest"
)

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	if strings.ToLower(provider) == ProviderClaude {
		return DefaultClaudeModel
	}
	return DefaultOpenAIModel
}

const (
	defaultMaxTokens  = 300
	defaultAPITimeout = 30 * time.Second
	temperature       = 0.2
)

// OptionType defines the type of option
type OptionType string

const (
	ModelNameOption  OptionType = "model"
	MaxTokensOption  OptionType = "max_tokens"
	APITimeoutOption OptionType = "api_timeout"
	BaseURLOption    OptionType = "base_url"
	HTTPClientOption OptionType = "http_client"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{Type: ModelNameOption, Value: model}
}

// WithMaxTokens creates an option to set the default output token ceiling
func WithMaxTokens(maxTokens int) Option {
	return Option{Type: MaxTokensOption, Value: maxTokens}
}

// WithAPITimeout creates an option to set the API timeout in seconds
func WithAPITimeout(timeout int) Option {
	return Option{Type: APITimeoutOption, Value: time.Duration(timeout) * time.Second}
}

// WithBaseURL points the client at a non-default endpoint.
func WithBaseURL(url string) Option {
	return Option{Type: BaseURLOption, Value: url}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return Option{Type: HTTPClientOption, Value: client}
}

// settings holds the options common to every provider.
type settings struct {
	modelName  string
	maxTokens  int
	apiTimeout time.Duration
	baseURL    string
	httpClient *http.Client
}

func applyOptions(s *settings, opts []Option) {
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				s.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				s.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(time.Duration); ok && timeout > 0 {
				s.apiTimeout = timeout
			}
		case BaseURLOption:
			if url, ok := opt.Value.(string); ok {
				s.baseURL = url
			}
		case HTTPClientOption:
			if client, ok := opt.Value.(*http.Client); ok && client != nil {
				s.httpClient = client
			}
		}
	}
}

// Request is the provider-neutral generation request.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	// MaxTokens overrides the client's output ceiling when positive.
	MaxTokens int
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response represents the response from the LLM. Error is a
// *ProviderError (possibly wrapped) when the call failed.
type Response struct {
	Content  string
	Usage    Usage
	Latency  time.Duration
	Provider string
	Model    string
	Error    error
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a request to the language model and returns its response
	Prompt(ctx context.Context, req Request) Response
}

// Identity selects and authenticates a provider.
type Identity struct {
	Name     string
	Endpoint string
	Model    string
	APIKey   string
}

// envKeys lists where a missing key is looked up, per provider.
var envKeys = map[string][]string{
	ProviderOpenAI: {"OPENAI_API_KEY", "LLM_API_KEY"},
	ProviderClaude: {"ANTHROPIC_API_KEY", "LLM_API_KEY"},
}

func resolveAPIKey(id Identity) (string, error) {
	if id.APIKey != "" {
		return id.APIKey, nil
	}
	for _, name := range envKeys[id.Name] {
		if key := os.Getenv(name); key != "" {
			logger.Debugf("Using API key from %s", name)
			return key, nil
		}
	}
	return "", errs.Configuration(
		fmt.Sprintf("no API key configured for %s", id.Name),
		fmt.Sprintf("run `sage config --provider %s --key <key>` or set %s", id.Name, envKeys[id.Name][0]))
}

// NewLLM builds the client for the provider named by id.
func NewLLM(id Identity, opts ...Option) (LLM, error) {
	name := strings.ToLower(id.Name)
	if name != ProviderOpenAI && name != ProviderClaude {
		return nil, errs.Configuration(
			fmt.Sprintf("unsupported provider: %s", id.Name),
			fmt.Sprintf("supported providers are %s", strings.Join(Providers, ", ")))
	}
	id.Name = name

	apiKey, err := resolveAPIKey(id)
	if err != nil {
		return nil, err
	}

	options := []Option{WithModel(id.Model)}
	if id.Endpoint != "" {
		options = append(options, WithBaseURL(id.Endpoint))
	}
	options = append(options, opts...)

	var client LLM
	switch name {
	case ProviderOpenAI:
		client, err = NewOpenAI(apiKey, options...)
	case ProviderClaude:
		client, err = NewAnthropic(apiKey, options...)
	}
	if err != nil {
		return nil, err
	}

	logger.Infof("Using LLM provider %s", name)
	return client, nil
}
