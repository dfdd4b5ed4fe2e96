package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
	"gorm.io/gorm"
)

// ProjectDirectory answers the project lookups behind task visibility.
// Tasks reference projects by display name, so shared visibility rides
// on name equality; keeping the resolution behind this interface means
// the join can move to a real foreign key without touching the task
// logic.
type ProjectDirectory interface {
	MemberProjectNames(userID uint) ([]string, error)
	ProjectByName(name string) (*models.Project, error)
}

type gormProjectDirectory struct{}

func (gormProjectDirectory) MemberProjectNames(userID uint) ([]string, error) {
	var memberships []models.ProjectMember

	if err := db.DB.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	if len(memberships) == 0 {
		return nil, nil
	}

	projectIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		projectIDs = append(projectIDs, m.ProjectID)
	}

	var projects []models.Project

	if err := db.DB.Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
		return nil, err
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}

	return names, nil
}

func (gormProjectDirectory) ProjectByName(name string) (*models.Project, error) {
	var project models.Project

	if err := db.DB.Where("name = ?", name).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

type TaskService struct {
	dir ProjectDirectory
}

func NewTaskService() *TaskService {
	return &TaskService{dir: gormProjectDirectory{}}
}

type TaskInput struct {
	Title       string
	Description string
	ProjectName string
	DueDate     *time.Time
	Priority    string
}

func (s *TaskService) CreateTask(userID uint, input TaskInput) (*models.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		OwnerID:     userID,
		Title:       input.Title,
		Description: input.Description,
		ProjectName: input.ProjectName,
		DueDate:     input.DueDate,
		Priority:    priority,
		Status:      models.TaskStatusPending,
		IsCompleted: false,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// EnsureProject creates a project for a task's free-text project name
// when the caller owns no project with that name (case-insensitive).
// Returns true when a project was auto-created.
func (s *TaskService) EnsureProject(userID uint, projectName, taskTitle string) (bool, error) {
	if strings.TrimSpace(projectName) == "" {
		return false, nil
	}

	var projects []models.Project

	if err := db.DB.Where("owner_id = ?", userID).Find(&projects).Error; err != nil {
		return false, err
	}

	for _, p := range projects {
		if strings.EqualFold(p.Name, projectName) {
			return false, nil
		}
	}

	project := models.Project{
		OwnerID:     userID,
		Name:        projectName,
		Description: fmt.Sprintf("Auto-created from task: %s", taskTitle),
		Status:      models.ProjectStatusActive,
		Priority:    models.ProjectPriorityMedium,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		return false, err
	}

	return true, nil
}

// GetUserTasks returns the deduplicated union of tasks the user owns
// and tasks whose project name matches a project the user belongs to,
// newest first.
func (s *TaskService) GetUserTasks(userID uint) ([]models.Task, error) {
	var owned []models.Task

	if err := db.DB.Where("owner_id = ?", userID).Find(&owned).Error; err != nil {
		return nil, err
	}

	names, err := s.dir.MemberProjectNames(userID)
	if err != nil {
		return nil, err
	}

	var shared []models.Task

	if len(names) > 0 {
		if err := db.DB.Where("project_name IN ?", names).Find(&shared).Error; err != nil {
			return nil, err
		}
	}

	seen := make(map[uint]bool, len(owned)+len(shared))
	tasks := make([]models.Task, 0, len(owned)+len(shared))

	for _, t := range append(owned, shared...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// GetTaskByID returns the task when the user owns it or belongs to the
// project it names. Not-found and not-authorized collapse to nil.
func (s *TaskService) GetTaskByID(taskID, userID uint) (*models.Task, error) {
	var task models.Task

	err := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).First(&task).Error

	if err == nil {
		return &task, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if task.ProjectName == "" {
		return nil, nil
	}

	project, err := s.dir.ProjectByName(task.ProjectName)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, nil
	}

	var count int64

	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, userID).
		Count(&count)

	if count == 0 {
		return nil, nil
	}

	return &task, nil
}

// CompleteTask is owner-only; members can view but never mutate.
func (s *TaskService) CompleteTask(taskID, userID uint) bool {
	result := db.DB.Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", taskID, userID).
		Updates(map[string]interface{}{
			"is_completed": true,
			"status":       models.TaskStatusCompleted,
		})

	return result.Error == nil && result.RowsAffected > 0
}

func (s *TaskService) UpdateTask(taskID, userID uint, input TaskInput) bool {
	result := db.DB.Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", taskID, userID).
		Updates(map[string]interface{}{
			"title":        input.Title,
			"description":  input.Description,
			"project_name": input.ProjectName,
			"due_date":     input.DueDate,
			"priority":     input.Priority,
		})

	return result.Error == nil && result.RowsAffected > 0
}

func (s *TaskService) DeleteTask(taskID, userID uint) bool {
	result := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).
		Delete(&models.Task{})

	return result.Error == nil && result.RowsAffected > 0
}
