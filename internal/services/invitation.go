package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/metrics"
	"github.com/yeloe-dev/yeloe/internal/models"
	"gorm.io/gorm"
)

// Domain errors surfaced by SendInvitation. Handlers convert these to
// user-facing messages; everything else stays a generic failure.
var (
	ErrUserNotFound        = errors.New("user with this email does not exist in the system")
	ErrDuplicateInvitation = errors.New("an invitation has already been sent to this user for this project")
	ErrAlreadyMember       = errors.New("this user is already a member of the project")
)

// InvitationService manages the invitation lifecycle and the project
// roster. Owner-only checks for sending invitations and removing
// members live in the handlers, which also resolve project ownership.
type InvitationService struct {
	mailer *Mailer
}

func NewInvitationService(mailer *Mailer) *InvitationService {
	return &InvitationService{mailer: mailer}
}

// SendInvitation creates a pending viewer invitation that expires in
// seven days. The duplicate and membership checks run inside the same
// transaction as the insert so concurrent sends cannot produce two
// pending invitations for one (project, email) pair.
func (s *InvitationService) SendInvitation(projectID uint, projectName string, inviterID uint, inviterName, inviteeEmail string) (*models.ProjectInvitation, error) {
	inviteeEmail = strings.ToLower(strings.TrimSpace(inviteeEmail))

	var invitee models.User

	if err := db.DB.Where("email = ?", inviteeEmail).First(&invitee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()

	invitation := models.ProjectInvitation{
		ProjectID:         projectID,
		ProjectName:       projectName,
		InvitedByUserID:   inviterID,
		InvitedByUserName: inviterName,
		InvitedUserEmail:  inviteeEmail,
		InvitedUserID:     invitee.ID,
		Status:            models.InvitationStatusPending,
		Role:              models.RoleViewer,
		InvitedAt:         now,
		ExpiresAt:         now.Add(models.InvitationTTL),
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ProjectInvitation

		err := tx.Where("project_id = ? AND invited_user_email = ? AND status = ?",
			projectID, inviteeEmail, models.InvitationStatusPending).
			First(&existing).Error

		if err == nil {
			return ErrDuplicateInvitation
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var member models.ProjectMember

		err = tx.Where("project_id = ? AND user_id = ?", projectID, invitee.ID).
			First(&member).Error

		if err == nil {
			return ErrAlreadyMember
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&invitation).Error
	})

	if err != nil {
		return nil, err
	}

	metrics.InvitationsSent.Inc()

	CreateNotification(
		invitee.ID,
		"Project Invitation",
		fmt.Sprintf("%s has invited you to join the project '%s'", inviterName, projectName),
		models.NotificationTypeTeamMemberJoined,
		fmt.Sprintf("/invitations/%d", invitation.ID),
	)

	// Email delivery is best-effort; the invitation stands even when
	// the send fails.
	link := fmt.Sprintf("%s/invitations/%d", baseURL(), invitation.ID)
	if err := s.mailer.SendInvitationEmail(inviteeEmail, invitee.DisplayName(), inviterName, projectName, link); err != nil {
		log.Printf("Failed to send invitation email to %s: %v", inviteeEmail, err)
	}

	return &invitation, nil
}

func (s *InvitationService) GetInvitationByID(invitationID uint) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation

	if err := db.DB.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invitation, nil
}

// GetUserInvitations returns pending, unexpired invitations for an
// email, newest first. Expiry is a read-time filter; expired rows keep
// their pending status in storage.
func (s *InvitationService) GetUserInvitations(email string) ([]models.ProjectInvitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var invitations []models.ProjectInvitation

	err := db.DB.Where("invited_user_email = ? AND status = ? AND expires_at > ?",
		email, models.InvitationStatusPending, time.Now().UTC()).
		Order("invited_at DESC").
		Find(&invitations).Error

	return invitations, err
}

// AcceptInvitation flips a pending invitation to accepted and creates
// the member row in a single transaction. Returns false when the
// invitation is missing, no longer pending, or expired.
func (s *InvitationService) AcceptInvitation(invitationID, userID uint) bool {
	var invitation models.ProjectInvitation

	if err := db.DB.First(&invitation, invitationID).Error; err != nil {
		return false
	}

	if invitation.Status != models.InvitationStatusPending || invitation.ExpiresAt.Before(time.Now().UTC()) {
		return false
	}

	var user models.User
	userName := "Unknown"

	if err := db.DB.First(&user, userID).Error; err == nil {
		userName = user.DisplayName()
	}

	now := time.Now().UTC()

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// The status guard keeps a second concurrent accept from
		// creating another member row.
		result := tx.Model(&models.ProjectInvitation{}).
			Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
			Updates(map[string]interface{}{
				"status":       models.InvitationStatusAccepted,
				"responded_at": now,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		member := models.ProjectMember{
			ProjectID:     invitation.ProjectID,
			UserID:        userID,
			UserEmail:     invitation.InvitedUserEmail,
			UserName:      userName,
			Role:          invitation.Role,
			JoinedAt:      now,
			AddedByUserID: invitation.InvitedByUserID,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		log.Printf("Failed to accept invitation %d: %v", invitationID, err)
		return false
	}

	metrics.InvitationsAccepted.Inc()

	CreateNotification(
		invitation.InvitedByUserID,
		"Invitation Accepted",
		fmt.Sprintf("%s has accepted your invitation to join '%s'", userName, invitation.ProjectName),
		models.NotificationTypeTeamMemberJoined,
		fmt.Sprintf("/projects/%d", invitation.ProjectID),
	)

	return true
}

// DeclineInvitation flips a pending invitation to declined. No side
// effects beyond the status change.
func (s *InvitationService) DeclineInvitation(invitationID uint) bool {
	result := db.DB.Model(&models.ProjectInvitation{}).
		Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
		Updates(map[string]interface{}{
			"status":       models.InvitationStatusDeclined,
			"responded_at": time.Now().UTC(),
		})

	if result.Error != nil {
		log.Printf("Failed to decline invitation %d: %v", invitationID, result.Error)
		return false
	}

	if result.RowsAffected == 0 {
		return false
	}

	metrics.InvitationsDeclined.Inc()
	return true
}

func (s *InvitationService) GetProjectMembers(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember

	err := db.DB.Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error

	return members, err
}

// IsMember reports whether a user holds a member row for a project.
// The owner is not materialized as a member; callers that need full
// access checks must also compare Project.OwnerID.
func (s *InvitationService) IsMember(projectID, userID uint) bool {
	var count int64

	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)

	return count > 0
}

// GetRole returns the member's role, or "" when no row exists.
func (s *InvitationService) GetRole(projectID, userID uint) string {
	var member models.ProjectMember

	err := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error

	if err != nil {
		return ""
	}

	return member.Role
}

// RemoveMember deletes the member row and notifies the removed user.
// The owner-only and not-self checks are enforced by the handler.
func (s *InvitationService) RemoveMember(projectID, userID uint) bool {
	result := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})

	if result.Error != nil {
		log.Printf("Failed to remove member %d from project %d: %v", userID, projectID, result.Error)
		return false
	}

	if result.RowsAffected == 0 {
		return false
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err == nil {
		CreateNotification(
			userID,
			"Removed from Project",
			fmt.Sprintf("You have been removed from the project '%s'.", project.Name),
			models.NotificationTypeSystemUpdate,
			"/projects",
		)
	}

	return true
}

func baseURL() string {
	if url := os.Getenv("CLIENT_URL"); url != "" {
		return url
	}
	return "http://localhost:5173"
}
