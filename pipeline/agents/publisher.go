package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	"github.com/MehanazMI/tea-stall-bench/pkg/whatsapp"
)

// Channel is the delivery capability the publisher drives: Send delivers
// immediately, Stage uploads a draft for manual review.
type Channel interface {
	Send(ctx context.Context, phone, message string) (whatsapp.Receipt, error)
	Stage(ctx context.Context, phone, message string) (whatsapp.Receipt, error)
}

// PublisherAgent (Relay) formats finished content and pushes it through the
// messaging channel.
type PublisherAgent struct {
	run func(ctx context.Context, req contractx.PublishRequest) (contractx.PublishResult, error)
}

var _ contractx.Publisher = (*PublisherAgent)(nil)

func NewPublisherAgent(channel Channel) (*PublisherAgent, error) {
	if channel == nil {
		return nil, errors.New("delivery channel is required for publisher agent")
	}

	a := &PublisherAgent{}
	a.run = instrument("publisher", func(ctx context.Context, req contractx.PublishRequest) (contractx.PublishResult, error) {
		return a.publish(ctx, channel, req)
	})
	return a, nil
}

func (a *PublisherAgent) Publish(ctx context.Context, req contractx.PublishRequest) (contractx.PublishResult, error) {
	return a.run(ctx, req)
}

func (a *PublisherAgent) publish(
	ctx context.Context,
	channel Channel,
	req contractx.PublishRequest,
) (contractx.PublishResult, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return contractx.PublishResult{}, fmt.Errorf("%w: phone number is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return contractx.PublishResult{}, fmt.Errorf("%w: content is required", contractx.ErrValidation)
	}

	message := FormatMessage(req.Content, req.Title)

	var (
		receipt whatsapp.Receipt
		method  string
		err     error
	)
	if req.AutoSend {
		receipt, err = channel.Send(ctx, req.PhoneNumber, message)
		method = "automatic"
	} else {
		receipt, err = channel.Stage(ctx, req.PhoneNumber, message)
		method = "manual_review"
	}
	if err != nil {
		return contractx.PublishResult{}, err
	}

	sentAt := "pending"
	if receipt.SentAt != nil {
		sentAt = receipt.SentAt.Format(time.RFC3339)
	}
	return contractx.PublishResult{
		Status:         receipt.Status,
		PhoneNumber:    receipt.PhoneNumber,
		MessageLength:  receipt.MessageLength,
		SentAt:         sentAt,
		DeliveryMethod: method,
	}, nil
}

// FormatMessage prepends a bolded title when present.
func FormatMessage(content, title string) string {
	if strings.TrimSpace(title) != "" {
		return strings.TrimSpace(fmt.Sprintf("*%s*\n\n%s", title, content))
	}
	return strings.TrimSpace(content)
}
