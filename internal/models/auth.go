package models

import "time"

// Manager roles
const (
	RoleManager    = "manager"
	RoleSuperAdmin = "super_admin"
)

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for manager sign-up
type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

// Manager is a campaign owner account
type Manager struct {
	ID           string    `bson:"_id,omitempty" json:"id" firestore:"-"`
	DisplayName  string    `bson:"displayName" json:"displayName" firestore:"displayName"`
	Email        string    `bson:"email" json:"email" firestore:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-" firestore:"passwordHash"`
	Role         string    `bson:"role" json:"role" firestore:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt" firestore:"updatedAt"`
}

// IsSuperAdmin reports whether the manager can see every campaign.
func (m *Manager) IsSuperAdmin() bool {
	return m.Role == RoleSuperAdmin
}

// ManagerSummary is a manager with the number of campaigns they own
type ManagerSummary struct {
	Manager
	CampaignCount int `json:"campaignCount"`
}

// LoginResponse carries the issued manager token
type LoginResponse struct {
	Token   string   `json:"token"`
	Manager *Manager `json:"manager"`
}
