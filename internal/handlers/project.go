package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/services"
	"github.com/yeloe-dev/yeloe/internal/utils"
	"gorm.io/gorm"
)

type ProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=planning active on_hold completed cancelled"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Progress    int        `json:"progress" binding:"min=0,max=100"`
}

type UpdateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ProjectResponse struct {
	ID          uint       `json:"id"`
	OwnerID     uint       `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type MemberResponse struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	UserID    uint      `json:"user_id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

func projectPayload(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Priority:    project.Priority,
		StartDate:   project.StartDate,
		DueDate:     project.DueDate,
		Progress:    project.Progress,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ownedProject fetches a project filtered by (id, owner_id). A miss
// means "not found or not yours" and the two are indistinguishable on
// purpose.
func ownedProject(projectID, userID uint) (*models.Project, error) {
	var project models.Project

	err := db.DB.Where("id = ? AND owner_id = ?", projectID, userID).First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if body.Status == "" {
		body.Status = models.ProjectStatusActive
	}
	if body.Priority == "" {
		body.Priority = models.ProjectPriorityMedium
	}

	project := models.Project{
		OwnerID:     userID,
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		StartDate:   body.StartDate,
		DueDate:     body.DueDate,
		Progress:    body.Progress,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Project created successfully!",
		"project": projectPayload(&project),
	})
}

// ListProjects returns projects the user owns, newest first. Projects
// the user merely belongs to are not included; shared visibility
// surfaces through tasks only.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var projects []models.Project

	if err := db.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, projectPayload(&projects[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "projects": response})
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	project, err := ownedProject(projectID, userID)

	if err != nil {
		log.Printf("Failed to fetch project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve project"})
		return
	}

	if project == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "project": projectPayload(project)})
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	result := db.DB.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Updates(map[string]interface{}{
			"name":        body.Name,
			"description": body.Description,
			"status":      body.Status,
			"priority":    body.Priority,
			"start_date":  body.StartDate,
			"due_date":    body.DueDate,
			"progress":    body.Progress,
		})

	if result.Error != nil {
		log.Printf("Failed to update project %d: %v", projectID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update project"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Project updated successfully!"})
}

func UpdateProjectProgress(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	var body UpdateProgressRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	result := db.DB.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Update("progress", body.Progress)

	if result.Error != nil {
		log.Printf("Failed to update progress for project %d: %v", projectID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update progress"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Progress updated successfully!"})
}

func DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	result := db.DB.Where("id = ? AND owner_id = ?", projectID, userID).Delete(&models.Project{})

	if result.Error != nil {
		log.Printf("Failed to delete project %d: %v", projectID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete project"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully!"})
}

// GetProjectMembers is visible to the owner and to members.
func GetProjectMembers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	project, err := ownedProject(projectID, userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve project"})
		return
	}

	if project == nil && !invitationService.IsMember(projectID, userID) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	members, err := invitationService.GetProjectMembers(projectID)

	if err != nil {
		log.Printf("Failed to list members for project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve members"})
		return
	}

	response := make([]MemberResponse, 0, len(members))

	for _, m := range members {
		response = append(response, MemberResponse{
			ID:        m.ID,
			ProjectID: m.ProjectID,
			UserID:    m.UserID,
			UserEmail: m.UserEmail,
			UserName:  m.UserName,
			Role:      m.Role,
			JoinedAt:  m.JoinedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "members": response})
}

// RemoveMember is owner-only, and the owner cannot remove themselves
// (they hold no member row to begin with).
func RemoveMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	memberUserID, err := utils.ParseIDParam(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	project, err := ownedProject(projectID, userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve project"})
		return
	}

	if project == nil {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the project owner can remove members"})
		return
	}

	if memberUserID == userID {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You cannot remove yourself from the project"})
		return
	}

	if !invitationService.RemoveMember(projectID, memberUserID) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Member not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Member removed successfully!"})
}

// SendProjectInvitation is owner-only; ownership is established by the
// owner-scoped project fetch.
func SendProjectInvitation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	projectID, err := utils.ParseIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid project ID"})
		return
	}

	var body InviteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	project, err := ownedProject(projectID, currentUser.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve project"})
		return
	}

	if project == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found or you don't have permission"})
		return
	}

	invitation, err := invitationService.SendInvitation(projectID, project.Name, currentUser.ID, currentUser.Name, body.Email)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrDuplicateInvitation),
			errors.Is(err, services.ErrAlreadyMember):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			log.Printf("Failed to send invitation for project %d: %v", projectID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send invitation"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invitation sent successfully!",
		"invitation": gin.H{
			"id":     invitation.ID,
			"email":  invitation.InvitedUserEmail,
			"status": invitation.Status,
		},
	})
}
