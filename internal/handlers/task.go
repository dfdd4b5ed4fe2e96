package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/services"
	"github.com/yeloe-dev/yeloe/internal/utils"
	"gorm.io/datatypes"
)

type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Project     string     `json:"project"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type WorkLogRequest struct {
	Description string `json:"description" binding:"required"`
	FileName    string `json:"file_name"`
	FileURL     string `json:"file_url"`
	FileSize    int64  `json:"file_size"`
}

type TaskResponse struct {
	ID          uint       `json:"id"`
	OwnerID     uint       `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Project     string     `json:"project"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func taskPayload(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Project:     task.ProjectName,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		IsCompleted: task.IsCompleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// CreateTask also auto-creates a project when the task names one the
// caller doesn't own yet.
func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var body TaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if _, err := taskService.EnsureProject(userID, body.Project, body.Title); err != nil {
		log.Printf("Failed to auto-create project '%s': %v", body.Project, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task"})
		return
	}

	task, err := taskService.CreateTask(userID, services.TaskInput{
		Title:       body.Title,
		Description: body.Description,
		ProjectName: body.Project,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
	})

	if err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully!",
		"task":    taskPayload(task),
	})
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	tasks, err := taskService.GetUserTasks(userID)

	if err != nil {
		log.Printf("Failed to list tasks for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, taskPayload(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "tasks": response})
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return
	}

	task, err := taskService.GetTaskByID(taskID, userID)

	if err != nil {
		log.Printf("Failed to fetch task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		return
	}

	if task == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "task": taskPayload(task)})
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return
	}

	var body TaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if _, err := taskService.EnsureProject(userID, body.Project, body.Title); err != nil {
		log.Printf("Failed to auto-create project '%s': %v", body.Project, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		return
	}

	priority := body.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	if !taskService.UpdateTask(taskID, userID, services.TaskInput{
		Title:       body.Title,
		Description: body.Description,
		ProjectName: body.Project,
		DueDate:     body.DueDate,
		Priority:    priority,
	}) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Task updated successfully!"})
}

func CompleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return
	}

	if !taskService.CompleteTask(taskID, userID) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Task completed!"})
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return
	}

	if !taskService.DeleteTask(taskID, userID) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully!"})
}

// visibleTask gates the collaboration endpoints: commenting and work
// logging require view access (owner or member), which GetTaskByID
// already resolves.
func visibleTask(ctx *gin.Context) (*models.Task, uint, bool) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return nil, 0, false
	}

	taskID, err := utils.ParseIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID"})
		return nil, 0, false
	}

	task, err := taskService.GetTaskByID(taskID, currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		return nil, 0, false
	}

	if task == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return nil, 0, false
	}

	return task, currentUser.ID, true
}

func AddComment(ctx *gin.Context) {
	task, userID, ok := visibleTask(ctx)
	if !ok {
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	comment := models.Comment{
		TaskID:   task.ID,
		UserID:   userID,
		UserName: currentUser.Name,
		Text:     body.Text,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to add comment to task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add comment"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added!",
		"comment": gin.H{
			"id":         comment.ID,
			"user_name":  comment.UserName,
			"text":       comment.Text,
			"created_at": comment.CreatedAt,
		},
	})
}

func GetComments(ctx *gin.Context) {
	task, _, ok := visibleTask(ctx)
	if !ok {
		return
	}

	var comments []models.Comment

	if err := db.DB.Where("task_id = ?", task.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		log.Printf("Failed to list comments for task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve comments"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

func AddWorkLog(ctx *gin.Context) {
	task, userID, ok := visibleTask(ctx)
	if !ok {
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	var body WorkLogRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	workLog := models.WorkLog{
		TaskID:      task.ID,
		UserID:      userID,
		UserName:    currentUser.Name,
		Description: body.Description,
	}

	if body.FileName != "" {
		attachment, err := json.Marshal(gin.H{
			"name": body.FileName,
			"url":  body.FileURL,
			"size": body.FileSize,
		})
		if err == nil {
			workLog.Attachment = datatypes.JSON(attachment)
		}
	}

	if err := db.DB.Create(&workLog).Error; err != nil {
		log.Printf("Failed to add work log to task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add work log"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Work logged!"})
}

func GetWorkLogs(ctx *gin.Context) {
	task, _, ok := visibleTask(ctx)
	if !ok {
		return
	}

	var workLogs []models.WorkLog

	if err := db.DB.Where("task_id = ?", task.ID).Order("created_at DESC").Find(&workLogs).Error; err != nil {
		log.Printf("Failed to list work logs for task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve work logs"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "work_logs": workLogs})
}
