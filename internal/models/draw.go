package models

import "time"

// DrawWinner is one winner of a draw, in draw order
type DrawWinner struct {
	Position      int    `bson:"position" json:"position" firestore:"position"`
	ParticipantID string `bson:"participantId" json:"participantId" firestore:"participantId"`
	FullName      string `bson:"fullName" json:"fullName" firestore:"fullName"`
	Phone         string `bson:"phone" json:"phone" firestore:"phone"`
	Tickets       int    `bson:"tickets" json:"tickets" firestore:"tickets"`
	Weighted      bool   `bson:"weighted" json:"weighted" firestore:"weighted"`
}

// SpinSegment is the ticket range [Start, Start+Tickets) of one participant on the spinner wheel
type SpinSegment struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Start         int    `json:"start"`
	Tickets       int    `json:"tickets"`
}

// SpinPlan lets a presentation layer animate a wheel that lands on the first winner.
// Segments are returned with the draw but not stored; the record keeps only the landing point.
type SpinPlan struct {
	Segments       []SpinSegment `bson:"-" json:"segments,omitempty" firestore:"-"`
	LandingIndex   int           `bson:"landingIndex" json:"landingIndex" firestore:"landingIndex"`
	LandingSegment int           `bson:"landingSegment" json:"landingSegment" firestore:"landingSegment"`
}

// DrawPick records one random selection for auditing
type DrawPick struct {
	Round         int    `bson:"round" json:"round" firestore:"round"`
	PoolSize      int    `bson:"poolSize" json:"poolSize" firestore:"poolSize"`
	Drawn         int    `bson:"drawn" json:"drawn" firestore:"drawn"`
	ParticipantID string `bson:"participantId" json:"participantId" firestore:"participantId"`
	Weighted      bool   `bson:"weighted" json:"weighted" firestore:"weighted"`
}

// DrawRecord is the persisted outcome of a draw
type DrawRecord struct {
	ID           string       `bson:"_id,omitempty" json:"id" firestore:"-"`
	CampaignID   string       `bson:"campaignId" json:"campaignId" firestore:"campaignId"`
	ManagerID    string       `bson:"managerId" json:"managerId" firestore:"managerId"`
	WinnerCount  int          `bson:"winnerCount" json:"winnerCount" firestore:"winnerCount"`
	Weighted     bool         `bson:"weightedAdditionalWinners" json:"weightedAdditionalWinners" firestore:"weightedAdditionalWinners"`
	Population   int          `bson:"population" json:"population" firestore:"population"`
	TotalTickets int          `bson:"totalTickets" json:"totalTickets" firestore:"totalTickets"`
	Winners      []DrawWinner `bson:"winners" json:"winners" firestore:"winners"`
	Spin         SpinPlan     `bson:"spin" json:"spin" firestore:"spin"`
	Picks        []DrawPick   `bson:"picks" json:"picks" firestore:"picks"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

// DrawRequest asks for winners of one campaign
type DrawRequest struct {
	CampaignID                string `json:"-"`
	ManagerID                 string `json:"-"`
	ManagerRole               string `json:"-"`
	WinnerCount               int    `json:"winner_count" binding:"required"`
	WeightedAdditionalWinners *bool  `json:"weighted_additional_winners"`
	NotifyWinners             bool   `json:"notify_winners"`
}
