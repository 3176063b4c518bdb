// Package email delivers transactional email through SendGrid.
package email

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outbound email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers email messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns a SendGrid sender, or a mock when mocking is on or no API key is set
func NewSender(cfg *config.Config) Sender {
	if cfg.Email.Mock || cfg.Email.SendGridAPIKey == "" {
		return &MockSender{}
	}
	return NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)
}

// SendGridSender sends through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender creates a SendGrid backed sender
func NewSendGridSender(apiKey, fromAddress, fromName string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

// Send delivers one message. Any non-2xx response is an error.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("email recipient is required")
	}
	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	message := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, html)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed with status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// MockSender records messages instead of sending them
type MockSender struct {
	Err error

	mu   sync.Mutex
	sent []Message
}

func (m *MockSender) Send(_ context.Context, msg Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	logx.L().Debugw("Mock email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockSender) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
