// Package whatsapp sends WhatsApp messages through the Green API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
)

// Gateway sends a text message to a phone number in international form without "+"
type Gateway interface {
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

// NewGateway returns the Green API gateway, or a mock when mocking is on or credentials are missing
func NewGateway(cfg *config.Config) Gateway {
	g := cfg.GreenAPI
	if g.Mock || g.InstanceID == "" || g.Token == "" {
		return NewMockGateway("greenapi")
	}
	return NewGreenAPIGateway(g.BaseURL, g.InstanceID, g.Token)
}

// GreenAPIGateway talks to the Green API HTTP interface
type GreenAPIGateway struct {
	BaseURL    string
	InstanceID string
	Token      string
	httpClient *http.Client
}

// NewGreenAPIGateway creates a new GreenAPIGateway
func NewGreenAPIGateway(baseURL, instanceID, token string) *GreenAPIGateway {
	return &GreenAPIGateway{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		InstanceID: instanceID,
		Token:      token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GreenAPIGateway) methodURL(method string) string {
	return fmt.Sprintf("%s/waInstance%s/%s/%s", g.BaseURL, g.InstanceID, method, g.Token)
}

// SendMessage sends a plain text message and returns the Green API message id
func (g *GreenAPIGateway) SendMessage(ctx context.Context, phone, message string) (string, error) {
	if phone == "" {
		return "", errors.New("phone is required")
	}
	if message == "" {
		return "", errors.New("message is required")
	}

	requestBody := map[string]string{
		"chatId":  phone + "@c.us",
		"message": message,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.methodURL("sendMessage"), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("green api sendMessage failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		IDMessage string `json:"idMessage"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return response.IDMessage, nil
}

// SentMessage is a message captured by MockGateway
type SentMessage struct {
	Phone   string
	Message string
}

// MockGateway records messages instead of sending them
type MockGateway struct {
	Name string
	Err  error

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(name string) *MockGateway {
	return &MockGateway{Name: name}
}

// SendMessage records the message, or fails with Err when set
func (g *MockGateway) SendMessage(_ context.Context, phone, message string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	g.mu.Lock()
	g.sent = append(g.sent, SentMessage{Phone: phone, Message: message})
	g.mu.Unlock()
	msgID := fmt.Sprintf("%s-MOCK-MSG-%d", g.Name, time.Now().UnixNano())
	logx.L().Debugw("Mock WhatsApp message", "gateway", g.Name, "to", phone, "messageId", msgID)
	return msgID, nil
}

// Sent returns a copy of the recorded messages
func (g *MockGateway) Sent() []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]SentMessage(nil), g.sent...)
}
