package models

import "gorm.io/gorm"

const (
	NotificationTypeAccountCreated   = "account_created"
	NotificationTypeTaskAssigned     = "task_assigned"
	NotificationTypeProjectDeadline  = "project_deadline"
	NotificationTypeTeamMemberJoined = "team_member_joined"
	NotificationTypeSystemUpdate     = "system_update"
	NotificationTypePasswordReset    = "password_reset"
	NotificationTypeGeneral          = "general"
)

type Notification struct {
	gorm.Model

	UserID  uint   `gorm:"not null;index"`
	Title   string `gorm:"not null"`
	Message string `gorm:"not null"`
	Type    string `gorm:"not null;default:general"`
	Link    string
	IsRead  bool `gorm:"not null;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
