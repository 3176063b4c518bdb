package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/matryer/is"
)

func webhook(typ, sender, text string) *models.GreenWebhook {
	hook := &models.GreenWebhook{TypeWebhook: typ}
	hook.SenderData.Sender = sender
	hook.MessageData.TextMessageData.TextMessage = text
	return hook
}

func TestHandleWebhookStartCommand(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.seedCampaign(t, nil)

	handled, err := env.notifier.HandleWebhook(context.Background(),
		webhook("incomingMessageReceived", "972521234567@c.us", "hi! start_"+testCampaignID[:6]))
	is.NoErr(err)
	is.True(handled)

	sent := env.gateway.Sent()
	is.Equal(len(sent), 2)
	is.Equal(sent[0].Phone, "972521234567")
	is.True(strings.Contains(sent[0].Message, "Summer raffle"))
	is.True(strings.Contains(sent[1].Message, "Join me: https://lottery.test/l/"+testCampaignID[:6]))

	logged, err := env.notifier.History(context.Background(), owner(), testCampaignID, 10)
	is.NoErr(err)
	is.Equal(len(logged), 2)
}

func TestHandleWebhookIgnores(t *testing.T) {
	env := newTestEnv(t)
	env.seedCampaign(t, nil)

	tests := []struct {
		name string
		hook *models.GreenWebhook
	}{
		{"outgoing status", webhook("outgoingMessageStatus", "972521234567@c.us", "START_"+testCampaignID)},
		{"plain message", webhook("incomingMessageReceived", "972521234567@c.us", "hello")},
		{"no sender", webhook("incomingMessageReceived", "", "START_"+testCampaignID)},
		{"unknown campaign", webhook("incomingMessageReceived", "972521234567@c.us", "START_zzzzzz")},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			handled, err := env.notifier.HandleWebhook(context.Background(), tt.hook)
			is.NoErr(err)
			is.True(!handled)
		})
	}
	if n := len(env.gateway.Sent()); n != 0 {
		t.Fatalf("expected no replies, got %d", n)
	}
}

func TestWebhookExtendedText(t *testing.T) {
	is := is.New(t)
	hook := &models.GreenWebhook{}
	hook.SenderData.ChatID = "972500000000@c.us"
	hook.MessageData.ExtendedTextMessageData.Text = "START_abc"
	is.Equal(hook.Text(), "START_abc")
	is.Equal(hook.SenderPhone(), "972500000000")
}
