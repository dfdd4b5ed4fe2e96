package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/utils"
)

type InvitationResponse struct {
	ID                uint       `json:"id"`
	ProjectID         uint       `json:"project_id"`
	ProjectName       string     `json:"project_name"`
	InvitedByUserName string     `json:"invited_by_user_name"`
	InvitedUserEmail  string     `json:"invited_user_email"`
	Status            string     `json:"status"`
	Role              string     `json:"role"`
	InvitedAt         time.Time  `json:"invited_at"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
	ExpiresAt         time.Time  `json:"expires_at"`
}

func invitationPayload(invitation *models.ProjectInvitation) InvitationResponse {
	return InvitationResponse{
		ID:                invitation.ID,
		ProjectID:         invitation.ProjectID,
		ProjectName:       invitation.ProjectName,
		InvitedByUserName: invitation.InvitedByUserName,
		InvitedUserEmail:  invitation.InvitedUserEmail,
		Status:            invitation.Status,
		Role:              invitation.Role,
		InvitedAt:         invitation.InvitedAt,
		RespondedAt:       invitation.RespondedAt,
		ExpiresAt:         invitation.ExpiresAt,
	}
}

// ListMyInvitations returns the caller's pending, unexpired
// invitations.
func ListMyInvitations(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	invitations, err := invitationService.GetUserInvitations(currentUser.Email)

	if err != nil {
		log.Printf("Failed to list invitations for %s: %v", currentUser.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, 0, len(invitations))

	for i := range invitations {
		response = append(response, invitationPayload(&invitations[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "invitations": response})
}

// GetInvitation is visible to the invitee and the inviter only.
func GetInvitation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	invitationID, err := utils.ParseIDParam(ctx, "invitation_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid invitation ID"})
		return
	}

	invitation, err := invitationService.GetInvitationByID(invitationID)

	if err != nil {
		log.Printf("Failed to fetch invitation %d: %v", invitationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve invitation"})
		return
	}

	if invitation == nil ||
		(invitation.InvitedUserEmail != currentUser.Email && invitation.InvitedByUserID != currentUser.ID) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Invitation not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "invitation": invitationPayload(invitation)})
}

func AcceptInvitation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	invitationID, err := utils.ParseIDParam(ctx, "invitation_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid invitation ID"})
		return
	}

	if !invitationService.AcceptInvitation(invitationID, currentUser.ID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invitation is no longer valid"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Invitation accepted! You are now a member of the project."})
}

func DeclineInvitation(ctx *gin.Context) {
	if _, err := utils.GetCurrentUser(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	invitationID, err := utils.ParseIDParam(ctx, "invitation_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid invitation ID"})
		return
	}

	if !invitationService.DeclineInvitation(invitationID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invitation is no longer valid"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Invitation declined"})
}
