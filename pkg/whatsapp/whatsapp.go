// Package whatsapp delivers formatted text through a WhatsApp HTTP gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrContentTooLong = errors.New("content exceeds maximum length")
	ErrEmptyContent   = errors.New("content must not be empty")
)

const (
	// E.164 allows at most 15 digits; requiring 11 forces a country code
	// in front of a typical 10-digit local number.
	minPhoneDigits = 11
	maxPhoneDigits = 15

	defaultMaxContentLength = 4000
)

var (
	nonDigit       = regexp.MustCompile(`\D`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

type Config struct {
	URL              string        `split_words:"true" required:"true"`
	Token            string        `split_words:"true" required:"true"`
	Timeout          time.Duration `split_words:"true" default:"10s"`
	MaxContentLength int           `envconfig:"MAX_CONTENT_LENGTH" split_words:"true" default:"4000"`
}

// Receipt reports the outcome of a delivery. SentAt is nil while a staged
// message waits for manual review.
type Receipt struct {
	PhoneNumber   string     `json:"phone_number"`
	MessageLength int        `json:"message_length"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Status        string     `json:"status"`
}

type Client struct {
	baseURL    string
	token      string
	maxContent int
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("whatsapp gateway url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxContent := cfg.MaxContentLength
	if maxContent <= 0 {
		maxContent = defaultMaxContentLength
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		maxContent: maxContent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// ValidatePhoneNumber strips everything but digits and normalizes to a
// +-prefixed E.164-style number. Numbers without a country code (fewer than
// 11 digits) are rejected.
func ValidatePhoneNumber(phone string) (string, error) {
	digits := nonDigit.ReplaceAllString(phone, "")
	if digits == "" {
		return "", fmt.Errorf("%w: no digits in %q", ErrInvalidPhone, phone)
	}
	if len(digits) < minPhoneDigits {
		return "", fmt.Errorf("%w: %d digits, need at least %d (include the country code)",
			ErrInvalidPhone, len(digits), minPhoneDigits)
	}
	if len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: %d digits exceeds %d", ErrInvalidPhone, len(digits), maxPhoneDigits)
	}
	return "+" + digits, nil
}

// FormatContent trims the content, collapses runs of 3+ newlines to 2, and
// enforces the configured length ceiling.
func (c *Client) FormatContent(content string) (string, error) {
	formatted := strings.TrimSpace(content)
	if formatted == "" {
		return "", ErrEmptyContent
	}
	if len(formatted) > c.maxContent {
		return "", fmt.Errorf("%w: %d chars, maximum %d", ErrContentTooLong, len(formatted), c.maxContent)
	}
	return excessNewlines.ReplaceAllString(formatted, "\n\n"), nil
}

// Send validates and delivers a message immediately.
func (c *Client) Send(ctx context.Context, phone, message string) (Receipt, error) {
	return c.deliver(ctx, phone, message, "/v1/messages", false)
}

// Stage validates and uploads a message as a draft for manual review; the
// receipt stays pending until a human sends it.
func (c *Client) Stage(ctx context.Context, phone, message string) (Receipt, error) {
	return c.deliver(ctx, phone, message, "/v1/drafts", true)
}

type deliverRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (c *Client) deliver(ctx context.Context, phone, message, path string, staged bool) (Receipt, error) {
	formattedPhone, err := ValidatePhoneNumber(phone)
	if err != nil {
		return Receipt{}, err
	}
	formattedMessage, err := c.FormatContent(message)
	if err != nil {
		return Receipt{}, err
	}

	raw, err := json.Marshal(deliverRequest{To: formattedPhone, Body: formattedMessage})
	if err != nil {
		return Receipt{}, fmt.Errorf("marshal delivery request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("whatsapp gateway request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Receipt{}, fmt.Errorf("whatsapp gateway status %d", resp.StatusCode)
	}

	receipt := Receipt{
		PhoneNumber:   formattedPhone,
		MessageLength: len(formattedMessage),
	}
	if staged {
		receipt.Status = "pending"
	} else {
		sentAt := c.now()
		receipt.SentAt = &sentAt
		receipt.Status = "sent"
	}
	return receipt, nil
}
