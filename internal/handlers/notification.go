package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/internal/services"
	"github.com/yeloe-dev/yeloe/internal/utils"
)

func ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	notifications, err := services.GetUserNotifications(userID, limit)

	if err != nil {
		log.Printf("Failed to list notifications for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

func UnreadNotificationCount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	count, err := services.GetUnreadCount(userID)

	if err != nil {
		log.Printf("Failed to count unread notifications for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	notificationID, err := utils.ParseIDParam(ctx, "notification_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID"})
		return
	}

	if err := services.MarkNotificationRead(notificationID, userID); err != nil {
		log.Printf("Failed to mark notification %d read: %v", notificationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notification"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	if err := services.MarkAllNotificationsRead(userID); err != nil {
		log.Printf("Failed to mark notifications read for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read"})
}
