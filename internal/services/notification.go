package services

import (
	"log"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/metrics"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/realtime"
)

// CreateNotification writes a user-facing event and nudges any open
// websocket sessions. Fire-and-forget: failures are logged, never
// propagated, so the primary operation still succeeds.
func CreateNotification(userID uint, title, message, notificationType, link string) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
		Link:    link,
	}

	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
		return
	}

	metrics.NotificationsCreated.Inc()
	realtime.NotifyUser(userID)
}

func GetUserNotifications(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 10
	}

	var notifications []models.Notification

	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error

	return notifications, err
}

func GetUnreadCount(userID uint) (int64, error) {
	var count int64

	err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error

	return count, err
}

func MarkNotificationRead(notificationID, userID uint) error {
	return db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func MarkAllNotificationsRead(userID uint) error {
	return db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
