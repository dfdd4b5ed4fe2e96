package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
)

// Reconciler periodically repairs accepted invitations that have no
// matching member row. Acceptance is transactional now, but rows
// written before that change (or under a storage engine without
// multi-statement transactions) can still be orphaned.
type Reconciler struct {
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewReconciler(interval time.Duration) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs one immediate sweep and then repeats on the interval.
func (r *Reconciler) Start() {
	log.Println("Starting invitation reconciler...")

	go func() {
		r.sweep()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *Reconciler) Stop() {
	log.Println("Stopping invitation reconciler...")
	r.cancel()
}

// sweep finds accepted invitations whose member row is missing and
// re-inserts it with the data captured on the invitation.
func (r *Reconciler) sweep() {
	var orphaned []models.ProjectInvitation

	err := db.DB.
		Where("status = ?", models.InvitationStatusAccepted).
		Where("invited_user_id != 0").
		Where("NOT EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = project_invitations.project_id AND pm.user_id = project_invitations.invited_user_id AND pm.deleted_at IS NULL)").
		Find(&orphaned).Error

	if err != nil {
		log.Printf("Reconciler sweep failed: %v", err)
		return
	}

	for _, invitation := range orphaned {
		// Skip invitations whose member row was legitimately removed
		// after joining.
		var removed int64
		db.DB.Unscoped().Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ? AND deleted_at IS NOT NULL", invitation.ProjectID, invitation.InvitedUserID).
			Count(&removed)

		if removed > 0 {
			continue
		}

		joinedAt := time.Now().UTC()
		if invitation.RespondedAt != nil {
			joinedAt = *invitation.RespondedAt
		}

		var user models.User
		userName := "Unknown"

		if err := db.DB.First(&user, invitation.InvitedUserID).Error; err == nil {
			userName = user.DisplayName()
		}

		member := models.ProjectMember{
			ProjectID:     invitation.ProjectID,
			UserID:        invitation.InvitedUserID,
			UserEmail:     invitation.InvitedUserEmail,
			UserName:      userName,
			Role:          invitation.Role,
			JoinedAt:      joinedAt,
			AddedByUserID: invitation.InvitedByUserID,
		}

		if err := db.DB.Create(&member).Error; err != nil {
			log.Printf("Reconciler failed to restore member for invitation %d: %v", invitation.ID, err)
			continue
		}

		log.Printf("Reconciler restored member row for invitation %d (project %d, user %d)",
			invitation.ID, invitation.ProjectID, invitation.InvitedUserID)
	}
}

// Global reconciler instance
var globalReconciler *Reconciler

func Initialize(interval time.Duration) {
	globalReconciler = NewReconciler(interval)
	globalReconciler.Start()
}

func Shutdown() {
	if globalReconciler != nil {
		globalReconciler.Stop()
	}
}
