package services

import (
	"testing"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global connection at a fresh in-memory
// database for the duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	previous := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = previous })

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

func createTestUser(t *testing.T, email, firstName, lastName string, verified bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:           email,
		PasswordHash:    string(hash),
		FirstName:       firstName,
		LastName:        lastName,
		IsEmailVerified: verified,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return &user
}

func createTestProject(t *testing.T, ownerID uint, name string) *models.Project {
	t.Helper()

	project := models.Project{
		OwnerID:  ownerID,
		Name:     name,
		Status:   models.ProjectStatusActive,
		Priority: models.ProjectPriorityMedium,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return &project
}

func createTestMember(t *testing.T, projectID uint, user *models.User, addedBy uint) *models.ProjectMember {
	t.Helper()

	member := models.ProjectMember{
		ProjectID:     projectID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		UserName:      user.DisplayName(),
		Role:          models.RoleViewer,
		JoinedAt:      time.Now().UTC(),
		AddedByUserID: addedBy,
	}

	if err := db.DB.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	return &member
}

func notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()

	var notifications []models.Notification

	if err := db.DB.Where("user_id = ?", userID).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to fetch notifications: %v", err)
	}

	return notifications
}
