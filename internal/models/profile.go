package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is a dashboard user. Role holds one of the rbac role literals.
type Profile struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	FullName  string           `json:"full_name"`
	Role      string           `json:"role"`
	StationID *string          `json:"station_id,omitempty"`
	Email     string           `json:"email"`
	Phone     *string          `json:"phone,omitempty"`
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type AuthUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	ProfileActive   = "active"
	ProfileInactive = "inactive"
	ProfilePending  = "pending"
)

func ValidProfileStatus(status string) bool {
	switch status {
	case ProfileActive, ProfileInactive, ProfilePending:
		return true
	default:
		return false
	}
}

type ActivityLog struct {
	ID         string    `json:"id"`
	StationID  *string   `json:"station_id,omitempty"`
	ProfileID  *string   `json:"profile_id,omitempty"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Details    string    `json:"details"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}
