package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task references its project by display name rather than by ID. The
// linkage is legacy behavior the task service keeps isolated; two
// projects sharing a name will merge task visibility.
type Task struct {
	gorm.Model

	OwnerID     uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	ProjectName string `gorm:"index"`
	DueDate     *time.Time
	Priority    string `gorm:"not null;default:medium"`
	Status      string `gorm:"not null;default:pending"`
	IsCompleted bool   `gorm:"not null;default:false"`

	// Relationships
	Owner    User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	WorkLogs []WorkLog `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
