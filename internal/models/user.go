package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	FirstName       string
	LastName        string
	IsEmailVerified bool `gorm:"default:false"`

	// Relationships
	OwnedProjects []Project       `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks         []Task          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// DisplayName returns "First Last", falling back to the local part of
// the email when both names are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))

	if name != "" {
		return name
	}

	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}

	return u.Email
}
