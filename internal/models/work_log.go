package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkLog records a progress update on a task. Attachment holds file
// metadata only (name, url, size); the file itself lives in external
// storage.
type WorkLog struct {
	gorm.Model

	TaskID      uint   `gorm:"not null;index"`
	UserID      uint   `gorm:"not null"`
	UserName    string `gorm:"not null"`
	Description string `gorm:"not null"`
	Attachment  datatypes.JSON

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
