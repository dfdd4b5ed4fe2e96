package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"

	ProjectPriorityLow    = "low"
	ProjectPriorityMedium = "medium"
	ProjectPriorityHigh   = "high"
)

type Project struct {
	gorm.Model

	OwnerID     uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:active"`
	Priority    string `gorm:"not null;default:medium"`
	StartDate   *time.Time
	DueDate     *time.Time
	Progress    int `gorm:"not null;default:0"`

	// Relationships
	Owner       User                `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members     []ProjectMember     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations []ProjectInvitation `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
