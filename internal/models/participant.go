package models

import "time"

// Task identifies a one-shot engagement task a participant can complete
type Task string

const (
	TaskSavedContact   Task = "saved_contact"
	TaskSharedWhatsApp Task = "shared_whatsapp"
)

// ParseTask maps a path/body value onto a known task.
func ParseTask(s string) (Task, bool) {
	switch Task(s) {
	case TaskSavedContact, TaskSharedWhatsApp:
		return Task(s), true
	}
	return "", false
}

// Tasks holds the completion flags of a participant. Flags only move from false to true.
type Tasks struct {
	SavedContact   bool `bson:"savedContact" json:"savedContact" firestore:"savedContact"`
	SharedWhatsApp bool `bson:"sharedWhatsapp" json:"sharedWhatsapp" firestore:"sharedWhatsapp"`
}

// Participant is a registered entrant ("lead") of one campaign
type Participant struct {
	ID         string    `bson:"_id,omitempty" json:"id" firestore:"-"`
	CampaignID string    `bson:"campaignId" json:"campaignId" firestore:"campaignId"`
	FullName   string    `bson:"fullName" json:"fullName" firestore:"fullName"`
	Phone      string    `bson:"phone" json:"phone" firestore:"phone"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty" firestore:"email,omitempty"`
	ReferredBy *string   `bson:"referredBy" json:"referredBy" firestore:"referredBy"`
	Tickets    int       `bson:"tickets" json:"tickets" firestore:"tickets"`
	Tasks      Tasks     `bson:"tasksCompleted" json:"tasksCompleted" firestore:"tasksCompleted"`
	JoinedAt   time.Time `bson:"joinedAt" json:"joinedAt" firestore:"joinedAt"`
}

// EffectiveTickets is the draw weight of the participant, never below one.
func (p *Participant) EffectiveTickets() int {
	if p.Tickets < 1 {
		return 1
	}
	return p.Tickets
}

// NewParticipant carries the validated fields of a first-time registration
type NewParticipant struct {
	ID         string
	FullName   string
	Phone      string
	Email      string
	ReferredBy string
}

// RegistrationRequest is the public registration body
type RegistrationRequest struct {
	CampaignID    string `json:"-"`
	FullName      string `json:"fullName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email"`
	ReferralToken string `json:"ref"`
}

// RegistrationResult is the session context handed back to the participant
type RegistrationResult struct {
	CampaignID       string `json:"campaignId"`
	ParticipantID    string `json:"participantId"`
	Tickets          int    `json:"tickets"`
	Reentry          bool   `json:"reentry"`
	ReferrerCredited bool   `json:"referrerCredited"`
	Tasks            Tasks  `json:"tasksCompleted"`
	ShareURL         string `json:"shareUrl"`
	WhatsAppShareURL string `json:"whatsappShareUrl"`
	Token            string `json:"token,omitempty"`
}

// ParticipantStatus is what a participant sees about themselves
type ParticipantStatus struct {
	ParticipantID string `json:"participantId"`
	FullName      string `json:"fullName"`
	Tickets       int    `json:"tickets"`
	Tasks         Tasks  `json:"tasksCompleted"`
	ShareURL      string `json:"shareUrl"`
}

// LeaderboardEntry is a masked leaderboard row
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Tickets int    `json:"tickets"`
}
