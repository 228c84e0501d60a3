package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var ErrEmptyPrompt = errors.New("prompt must not be empty")

// Generator is the text-generation capability consumed by the pipeline
// agents. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var _ Generator = (*Client)(nil)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	MaxAttempts    int           `envconfig:"MAX_ATTEMPTS" split_words:"true" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"RETRY_BASE_DELAY" split_words:"true" default:"2s"`
	RetryMaxDelay  time.Duration `envconfig:"RETRY_MAX_DELAY" split_words:"true" default:"10s"`
	RatePerSecond  float64       `envconfig:"RATE_PER_SECOND" split_words:"true" default:"2"`
	RateBurst      int           `envconfig:"RATE_BURST" split_words:"true" default:"4"`
}

// Request carries one generation call. Temperature is passed through as-is;
// MaxTokens of zero falls back to the configured ceiling.
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Client generates text through an OpenAI-compatible endpoint (OpenRouter by
// default). Transient failures are retried with exponential backoff; other
// errors propagate immediately.
type Client struct {
	sdk         openaisdk.Client
	model       string
	maxTokens   int
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	limiter     *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("openrouter model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	// OpenRouter attribution headers
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}
	// The SDK retries on its own; the client owns the retry policy here.
	opts = append(opts, option.WithMaxRetries(0))

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	maxDelay := cfg.RetryMaxDelay
	if maxDelay <= 0 {
		maxDelay = 10 * time.Second
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 4
	}

	return &Client{
		sdk:         openaisdk.NewClient(opts...),
		model:       model,
		maxTokens:   cfg.MaxCompletionToken,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		limiter:     rate.NewLimiter(rate.Limit(perSecond), burst),
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
			log.Debug().
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("retrying generation after transient error")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.completion(ctx, req)
		if err == nil {
			return text, nil
		}
		if !isTransient(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) completion(ctx context.Context, req Request) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if sys := strings.TrimSpace(req.SystemPrompt); sys != "" {
		messages = append(messages, openaisdk.SystemMessage(sys))
	}
	messages = append(messages, openaisdk.UserMessage(req.Prompt))

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(req.Temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(maxTokens))
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generation response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isTransient reports whether an error belongs to the connection/timeout
// class that warrants a retry. Application errors (bad request, auth,
// content policy) are never retried.
func isTransient(err error) bool {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 408, apiErr.StatusCode == 429:
			return true
		case apiErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
