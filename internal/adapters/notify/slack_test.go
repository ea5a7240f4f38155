package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackShowPostsColoredAttachment(t *testing.T) {
	t.Parallel()

	var received slack.WebhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlack(server.URL).WithHTTPClient(server.Client())
	err := notifier.Show(context.Background(), domain.Notification{
		Title: "Cursor spending limit reached",
		Body:  "You've spent $55.00 this month.",
		Level: domain.NotificationUrgent,
	})
	require.NoError(t, err)

	require.Len(t, received.Attachments, 1)
	assert.Equal(t, "danger", received.Attachments[0].Color)
	assert.Equal(t, "You've spent $55.00 this month.", received.Attachments[0].Text)
	assert.Equal(t, "Cursor spending limit reached", received.Text)
}

func TestSlackShowReportsHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewSlack(server.URL).Show(context.Background(), domain.Notification{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "post slack webhook")
}

func TestSlackRequiresWebhookURL(t *testing.T) {
	t.Parallel()

	notifier := NewSlack("")
	require.ErrorIs(t, notifier.RequestPermission(context.Background()), errMissingWebhookURL)
	require.ErrorIs(t, notifier.Show(context.Background(), domain.Notification{}), errMissingWebhookURL)
}

func TestAttachmentColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warning", attachmentColor(domain.NotificationOrdinary))
	assert.Equal(t, "danger", attachmentColor(domain.NotificationUrgent))
}
