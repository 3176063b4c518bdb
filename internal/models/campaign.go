package models

import "time"

// CampaignCounter names one of the counters kept on a campaign document.
type CampaignCounter string

const (
	CounterViews        CampaignCounter = "viewsCount"
	CounterParticipants CampaignCounter = "participantsCount"
)

// Theme holds the colours used by the public campaign page
type Theme struct {
	PrimaryColor    string `bson:"primaryColor" json:"primaryColor" firestore:"primaryColor"`
	BackgroundColor string `bson:"backgroundColor" json:"backgroundColor" firestore:"backgroundColor"`
}

// Campaign represents a viral lottery campaign owned by a manager
type Campaign struct {
	ID                 string    `bson:"_id,omitempty" json:"id" firestore:"-"`
	ManagerID          string    `bson:"managerId" json:"managerId" firestore:"managerId"`
	Title              string    `bson:"title" json:"title" firestore:"title"`
	Description        string    `bson:"description" json:"description" firestore:"description"`
	EndDate            time.Time `bson:"endDate" json:"endDate" firestore:"endDate"`
	IsActive           bool      `bson:"isActive" json:"isActive" firestore:"isActive"`
	WhatsAppShareText  string    `bson:"whatsappShareText" json:"whatsappShareText" firestore:"whatsappShareText"`
	ContactVCardName   string    `bson:"contactVcardName" json:"contactVcardName" firestore:"contactVcardName"`
	ContactPhoneNumber string    `bson:"contactPhoneNumber" json:"contactPhoneNumber" firestore:"contactPhoneNumber"`
	BannerURL          string    `bson:"bannerUrl,omitempty" json:"bannerUrl,omitempty" firestore:"bannerUrl,omitempty"`
	Theme              Theme     `bson:"theme" json:"theme" firestore:"theme"`
	ViewsCount         int       `bson:"viewsCount" json:"viewsCount" firestore:"viewsCount"`
	ParticipantsCount  int       `bson:"participantsCount" json:"participantsCount" firestore:"participantsCount"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt" firestore:"updatedAt"`
}

// AcceptsRegistrations reports whether the campaign is open at the given instant.
func (c *Campaign) AcceptsRegistrations(now time.Time) bool {
	return c.IsActive && now.Before(c.EndDate)
}

// PublicCampaign is the subset of a campaign shown to participants
type PublicCampaign struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	EndDate            time.Time `json:"endDate"`
	BannerURL          string    `json:"bannerUrl,omitempty"`
	Theme              Theme     `json:"theme"`
	ContactVCardName   string    `json:"contactVcardName"`
	ContactPhoneNumber string    `json:"contactPhoneNumber"`
	ParticipantsCount  int       `json:"participantsCount"`
}

// Public strips manager-only fields.
func (c *Campaign) Public() *PublicCampaign {
	return &PublicCampaign{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		EndDate:            c.EndDate,
		BannerURL:          c.BannerURL,
		Theme:              c.Theme,
		ContactVCardName:   c.ContactVCardName,
		ContactPhoneNumber: c.ContactPhoneNumber,
		ParticipantsCount:  c.ParticipantsCount,
	}
}

// CampaignRequest is the body accepted when creating or updating a campaign
type CampaignRequest struct {
	Title              string    `json:"title" binding:"required"`
	Description        string    `json:"description"`
	EndDate            time.Time `json:"endDate" binding:"required"`
	IsActive           *bool     `json:"isActive"`
	WhatsAppShareText  string    `json:"whatsappShareText"`
	ContactVCardName   string    `json:"contactVcardName"`
	ContactPhoneNumber string    `json:"contactPhoneNumber"`
	BannerURL          string    `json:"bannerUrl"`
	Theme              *Theme    `json:"theme"`
}

// CampaignStats aggregates the dashboard numbers of a campaign
type CampaignStats struct {
	CampaignID     string `json:"campaignId"`
	Views          int    `json:"views"`
	Participants   int    `json:"participants"`
	Shares         int    `json:"shares"`
	ContactSaves   int    `json:"contactSaves"`
	TotalTickets   int    `json:"totalTickets"`
	ConversionRate int    `json:"conversionRate"` // percent of views that registered
}
