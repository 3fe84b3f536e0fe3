// Package notify provides alert delivery for the alerting application.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier defines the interface for delivering an alert message to the
// configured chat. A nil return means the message was accepted.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages to a Telegram chat via the bot API.
type TelegramNotifier struct {
	apiBase string
	botID   string
	chatID  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewTelegramNotifier creates a TelegramNotifier.
func NewTelegramNotifier(botID, chatID string, logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase: defaultTelegramAPIBase,
		botID:   botID,
		chatID:  chatID,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewTelegramNotifierWithAPIBase creates a TelegramNotifier against a custom
// API endpoint. Used by tests.
func NewTelegramNotifierWithAPIBase(apiBase, botID, chatID string, client *http.Client, logger zerolog.Logger) *TelegramNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TelegramNotifier{
		apiBase: apiBase,
		botID:   botID,
		chatID:  chatID,
		client:  client,
		logger:  logger,
	}
}

// Send delivers the message with a single synchronous form POST to the
// sendMessage endpoint. Success is an HTTP 200 response; anything else,
// including transport errors, comes back as an error. No retry is performed.
func (t *TelegramNotifier) Send(ctx context.Context, message string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botID)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	t.logger.Debug().
		Str("chat_id", t.chatID).
		Int("message_len", len(message)).
		Msg("Sending telegram message")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error().Err(err).Msg("Error sending the telegram message")
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Error().Int("status", resp.StatusCode).Msg("Telegram API rejected the message")
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
