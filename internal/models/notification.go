package models

import "time"

// NotificationChannel is the transport a notification went out on
type NotificationChannel string

const (
	ChannelWhatsApp NotificationChannel = "WHATSAPP"
	ChannelEmail    NotificationChannel = "EMAIL"
)

// Notification statuses
const (
	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

// Notification is a log entry of an outbound message
type Notification struct {
	ID         string              `bson:"_id,omitempty" json:"id" firestore:"-"`
	CampaignID string              `bson:"campaignId,omitempty" json:"campaignId,omitempty" firestore:"campaignId,omitempty"`
	Channel    NotificationChannel `bson:"channel" json:"channel" firestore:"channel"`
	Type       string              `bson:"type" json:"type" firestore:"type"` // WELCOME, WINNER, MANAGER_SIGNUP
	Recipient  string              `bson:"recipient" json:"recipient" firestore:"recipient"`
	Content    string              `bson:"content" json:"content" firestore:"content"`
	Status     string              `bson:"status" json:"status" firestore:"status"`
	MessageID  string              `bson:"messageId,omitempty" json:"messageId,omitempty" firestore:"messageId,omitempty"`
	Error      string              `bson:"error,omitempty" json:"error,omitempty" firestore:"error,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

// GreenWebhook is the subset of a Green API webhook payload we read
type GreenWebhook struct {
	TypeWebhook string `json:"typeWebhook"`
	SenderData  struct {
		Sender string `json:"sender"`
		ChatID string `json:"chatId"`
	} `json:"senderData"`
	MessageData struct {
		TypeMessage     string `json:"typeMessage"`
		TextMessageData struct {
			TextMessage string `json:"textMessage"`
		} `json:"textMessageData"`
		ExtendedTextMessageData struct {
			Text        string `json:"text"`
			TextMessage string `json:"textMessage"`
		} `json:"extendedTextMessageData"`
	} `json:"messageData"`
}

// Text returns the message text whichever message type carried it.
func (w *GreenWebhook) Text() string {
	if t := w.MessageData.TextMessageData.TextMessage; t != "" {
		return t
	}
	if t := w.MessageData.ExtendedTextMessageData.TextMessage; t != "" {
		return t
	}
	return w.MessageData.ExtendedTextMessageData.Text
}

// SenderPhone returns the sender number without the WhatsApp chat suffix.
func (w *GreenWebhook) SenderPhone() string {
	s := w.SenderData.Sender
	if s == "" {
		s = w.SenderData.ChatID
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			return s[:i]
		}
	}
	return s
}
