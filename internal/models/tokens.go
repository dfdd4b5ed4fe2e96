package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EmailVerificationTTL = 15 * time.Minute
	PasswordResetTTL     = time.Hour
)

// EmailVerificationToken is a single-use 6-digit code mailed at
// registration. Older codes for the same email are deleted whenever a
// new one is issued.
type EmailVerificationToken struct {
	gorm.Model

	Email     string `gorm:"not null;index"`
	Code      string `gorm:"not null"`
	ExpiresAt time.Time
	IsUsed    bool `gorm:"not null;default:false"`
}

// PasswordResetToken is a single-use opaque token, deleted after
// consumption.
type PasswordResetToken struct {
	gorm.Model

	Email     string `gorm:"not null;index"`
	Token     string `gorm:"not null"`
	ExpiresAt time.Time
}
