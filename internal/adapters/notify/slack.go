package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/slack-go/slack"
)

var errMissingWebhookURL = errors.New("slack webhook URL is not configured")

// Slack posts notifications to an incoming webhook.
type Slack struct {
	webhookURL string
	client     *http.Client
}

var _ ports.Notifier = (*Slack)(nil)

func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the client used for webhook calls.
func (s *Slack) WithHTTPClient(client *http.Client) *Slack {
	if client != nil {
		s.client = client
	}
	return s
}

func (s *Slack) RequestPermission(context.Context) error {
	if s.webhookURL == "" {
		return errMissingWebhookURL
	}
	return nil
}

func (s *Slack) Show(ctx context.Context, notification domain.Notification) error {
	if s.webhookURL == "" {
		return errMissingWebhookURL
	}

	msg := &slack.WebhookMessage{
		Text: notification.Title,
		Attachments: []slack.Attachment{{
			Color:    attachmentColor(notification.Level),
			Title:    notification.Title,
			Text:     notification.Body,
			Fallback: notification.Title + ": " + notification.Body,
		}},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	return nil
}

func attachmentColor(level domain.NotificationLevel) string {
	if level == domain.NotificationUrgent {
		return "danger"
	}
	return "warning"
}
