package models

import (
	"time"

	"gorm.io/gorm"
)

// Project roles. Only viewer is ever assigned through invitations;
// contributor and admin are reserved, and owner is derived from
// Project.OwnerID instead of being materialized as a member row.
const (
	RoleViewer      = "viewer"
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
	RoleOwner       = "owner"
)

type ProjectMember struct {
	gorm.Model

	// Not a unique index: removal soft-deletes the row and the user may
	// be re-invited later. The accept transaction guards against
	// duplicate live rows.
	ProjectID     uint   `gorm:"not null;index:idx_project_user"`
	UserID        uint   `gorm:"not null;index:idx_project_user"`
	UserEmail     string `gorm:"not null"`
	UserName      string `gorm:"not null"`
	Role          string `gorm:"not null;default:viewer"`
	JoinedAt      time.Time
	AddedByUserID uint `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
