package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation states. Pending transitions exactly once to accepted or
// declined. Expiry is evaluated lazily against ExpiresAt at read time;
// InvitationStatusExpired exists for parity but is never written.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// InvitationTTL is how long an invitation stays acceptable.
const InvitationTTL = 7 * 24 * time.Hour

type ProjectInvitation struct {
	gorm.Model

	ProjectID         uint   `gorm:"not null;index"`
	ProjectName       string `gorm:"not null"`
	InvitedByUserID   uint   `gorm:"not null"`
	InvitedByUserName string `gorm:"not null"`
	InvitedUserEmail  string `gorm:"not null;index"`
	InvitedUserID     uint
	Status            string `gorm:"not null;default:pending;index"`
	Role              string `gorm:"not null;default:viewer"`
	InvitedAt         time.Time
	RespondedAt       *time.Time
	ExpiresAt         time.Time

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
