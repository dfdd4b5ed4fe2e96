package reconciler

import (
	"testing"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func seedAcceptedInvitation(t *testing.T, projectID, inviterID, inviteeID uint, respondedAt time.Time) *models.ProjectInvitation {
	t.Helper()

	invitation := models.ProjectInvitation{
		ProjectID:         projectID,
		ProjectName:       "Marketing",
		InvitedByUserID:   inviterID,
		InvitedByUserName: "Alice Smith",
		InvitedUserEmail:  "bob@example.com",
		InvitedUserID:     inviteeID,
		Status:            models.InvitationStatusAccepted,
		Role:              models.RoleViewer,
		InvitedAt:         respondedAt.Add(-time.Hour),
		RespondedAt:       &respondedAt,
		ExpiresAt:         respondedAt.Add(models.InvitationTTL),
	}

	if err := db.DB.Create(&invitation).Error; err != nil {
		t.Fatalf("failed to seed invitation: %v", err)
	}

	return &invitation
}

func TestSweep_RestoresOrphanedMember(t *testing.T) {
	setupTestDB(t)

	owner := models.User{Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", IsEmailVerified: true}
	invitee := models.User{Email: "bob@example.com", FirstName: "Bob", LastName: "Jones", IsEmailVerified: true}
	for _, u := range []*models.User{&owner, &invitee} {
		if err := db.DB.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	project := models.Project{OwnerID: owner.ID, Name: "Marketing", Status: models.ProjectStatusActive, Priority: models.ProjectPriorityMedium}
	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	respondedAt := time.Now().UTC().Add(-time.Hour)
	invitation := seedAcceptedInvitation(t, project.ID, owner.ID, invitee.ID, respondedAt)

	r := NewReconciler(time.Minute)
	r.sweep()

	var member models.ProjectMember
	if err := db.DB.Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).First(&member).Error; err != nil {
		t.Fatalf("sweep did not restore member row: %v", err)
	}

	if member.Role != invitation.Role {
		t.Errorf("expected role %s, got %s", invitation.Role, member.Role)
	}
	if member.UserName != "Bob Jones" {
		t.Errorf("expected resolved user name, got %q", member.UserName)
	}
	if !member.JoinedAt.Equal(respondedAt) {
		t.Errorf("expected joined_at from responded_at, got %v", member.JoinedAt)
	}

	// A second sweep must not duplicate the row.
	r.sweep()

	var count int64
	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 member row after repeated sweeps, got %d", count)
	}
}

func TestSweep_SkipsRemovedMembers(t *testing.T) {
	setupTestDB(t)

	invitee := models.User{Email: "bob@example.com", FirstName: "Bob", LastName: "Jones", IsEmailVerified: true}
	if err := db.DB.Create(&invitee).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	project := models.Project{OwnerID: 1, Name: "Marketing", Status: models.ProjectStatusActive, Priority: models.ProjectPriorityMedium}
	if err := db.DB.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	seedAcceptedInvitation(t, project.ID, 1, invitee.ID, time.Now().UTC().Add(-time.Hour))

	member := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    invitee.ID,
		UserEmail: invitee.Email,
		UserName:  "Bob Jones",
		Role:      models.RoleViewer,
		JoinedAt:  time.Now().UTC().Add(-30 * time.Minute),
	}
	if err := db.DB.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	if err := db.DB.Delete(&member).Error; err != nil {
		t.Fatalf("failed to soft-delete member: %v", err)
	}

	r := NewReconciler(time.Minute)
	r.sweep()

	// The user was removed on purpose; the sweep leaves them out.
	var count int64
	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("sweep re-added a removed member, count=%d", count)
	}
}
