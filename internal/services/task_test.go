package services

import (
	"testing"
	"time"

	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/models"
)

func createTestTask(t *testing.T, ownerID uint, title, projectName string, createdAt time.Time) *models.Task {
	t.Helper()

	task := models.Task{
		OwnerID:     ownerID,
		Title:       title,
		ProjectName: projectName,
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityMedium,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if !createdAt.IsZero() {
		if err := db.DB.Model(&task).Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("failed to backdate task: %v", err)
		}
		task.CreatedAt = createdAt
	}

	return &task
}

func TestCreateTask_Defaults(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith", true)

	svc := NewTaskService()

	task, err := svc.CreateTask(owner.ID, TaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if task.Status != models.TaskStatusPending {
		t.Errorf("expected pending status, got %s", task.Status)
	}
	if task.Priority != models.TaskPriorityMedium {
		t.Errorf("expected medium priority default, got %s", task.Priority)
	}
	if task.IsCompleted {
		t.Error("expected new task to be incomplete")
	}
}

func TestEnsureProject_AutoCreates(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith", true)

	svc := NewTaskService()

	created, err := svc.EnsureProject(owner.ID, "Launch Plan", "Draft announcement")
	if err != nil {
		t.Fatalf("EnsureProject returned error: %v", err)
	}
	if !created {
		t.Fatal("expected a project to be auto-created")
	}

	var project models.Project
	if err := db.DB.Where("owner_id = ? AND name = ?", owner.ID, "Launch Plan").First(&project).Error; err != nil {
		t.Fatalf("auto-created project not found: %v", err)
	}
	if project.Status != models.ProjectStatusActive || project.Priority != models.ProjectPriorityMedium {
		t.Errorf("unexpected defaults: status=%s priority=%s", project.Status, project.Priority)
	}
	if project.Description != "Auto-created from task: Draft announcement" {
		t.Errorf("unexpected description %q", project.Description)
	}

	// A case-insensitive match on an owned project suppresses creation.
	created, err = svc.EnsureProject(owner.ID, "launch plan", "Another task")
	if err != nil {
		t.Fatalf("EnsureProject returned error: %v", err)
	}
	if created {
		t.Error("expected no second project for a case-insensitive name match")
	}

	// Blank names never create anything.
	created, err = svc.EnsureProject(owner.ID, "   ", "Untitled")
	if err != nil {
		t.Fatalf("EnsureProject returned error: %v", err)
	}
	if created {
		t.Error("expected no project for a blank name")
	}
}

func TestEnsureProject_OtherOwnersProjectDoesNotCount(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice@example.com", "Alice", "Smith", true)
	bob := createTestUser(t, "bob@example.com", "Bob", "Jones", true)
	createTestProject(t, alice.ID, "Marketing")

	svc := NewTaskService()

	// Bob does not own a "Marketing" project, so he gets his own.
	created, err := svc.EnsureProject(bob.ID, "Marketing", "Plan campaign")
	if err != nil {
		t.Fatalf("EnsureProject returned error: %v", err)
	}
	if !created {
		t.Error("expected a project owned by the caller to be created")
	}

	var count int64
	db.DB.Model(&models.Project{}).Where("name = ?", "Marketing").Count(&count)
	if count != 2 {
		t.Errorf("expected 2 projects named Marketing, got %d", count)
	}
}

func TestGetUserTasks_UnionAndDedup(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice@example.com", "Alice", "Smith", true)
	bob := createTestUser(t, "bob@example.com", "Bob", "Jones", true)

	project := createTestProject(t, alice.ID, "Marketing")
	createTestMember(t, project.ID, bob, alice.ID)

	now := time.Now().UTC()

	// Bob's own task also sits under the shared project name; the union
	// must not return it twice.
	ownShared := createTestTask(t, bob.ID, "Bob shared", "Marketing", now.Add(-1*time.Hour))
	ownOnly := createTestTask(t, bob.ID, "Bob private", "", now.Add(-2*time.Hour))
	aliceShared := createTestTask(t, alice.ID, "Alice shared", "Marketing", now)
	createTestTask(t, alice.ID, "Alice private", "", now.Add(-3*time.Hour))

	svc := NewTaskService()

	tasks, err := svc.GetUserTasks(bob.ID)
	if err != nil {
		t.Fatalf("GetUserTasks returned error: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	// Newest first.
	wantOrder := []uint{aliceShared.ID, ownShared.ID, ownOnly.ID}
	for i, want := range wantOrder {
		if tasks[i].ID != want {
			t.Errorf("position %d: expected task %d, got %d", i, want, tasks[i].ID)
		}
	}
}

func TestGetTaskByID_Visibility(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice@example.com", "Alice", "Smith", true)
	bob := createTestUser(t, "bob@example.com", "Bob", "Jones", true)
	carol := createTestUser(t, "carol@example.com", "Carol", "White", true)

	project := createTestProject(t, alice.ID, "Marketing")
	createTestMember(t, project.ID, bob, alice.ID)

	shared := createTestTask(t, alice.ID, "Shared task", "Marketing", time.Time{})
	private := createTestTask(t, alice.ID, "Private task", "", time.Time{})

	svc := NewTaskService()

	// Owner sees everything.
	if task, err := svc.GetTaskByID(private.ID, alice.ID); err != nil || task == nil {
		t.Errorf("owner could not read own task: task=%v err=%v", task, err)
	}

	// Member sees shared tasks through the project name.
	if task, err := svc.GetTaskByID(shared.ID, bob.ID); err != nil || task == nil {
		t.Errorf("member could not read shared task: task=%v err=%v", task, err)
	}

	// Member does not see tasks outside the shared project.
	if task, err := svc.GetTaskByID(private.ID, bob.ID); err != nil || task != nil {
		t.Errorf("member read a private task: task=%v err=%v", task, err)
	}

	// Non-members see nothing, and missing tasks collapse the same way.
	if task, err := svc.GetTaskByID(shared.ID, carol.ID); err != nil || task != nil {
		t.Errorf("stranger read a shared task: task=%v err=%v", task, err)
	}
	if task, err := svc.GetTaskByID(99999, carol.ID); err != nil || task != nil {
		t.Errorf("expected nil for missing task: task=%v err=%v", task, err)
	}
}

func TestTaskMutationsAreOwnerOnly(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice@example.com", "Alice", "Smith", true)
	bob := createTestUser(t, "bob@example.com", "Bob", "Jones", true)

	project := createTestProject(t, alice.ID, "Marketing")
	createTestMember(t, project.ID, bob, alice.ID)

	task := createTestTask(t, alice.ID, "Shared task", "Marketing", time.Time{})

	svc := NewTaskService()

	// Members can read the task but every mutation fails for them.
	if svc.CompleteTask(task.ID, bob.ID) {
		t.Error("member completed another user's task")
	}
	if svc.UpdateTask(task.ID, bob.ID, TaskInput{Title: "Hijacked", Priority: models.TaskPriorityHigh}) {
		t.Error("member updated another user's task")
	}
	if svc.DeleteTask(task.ID, bob.ID) {
		t.Error("member deleted another user's task")
	}

	var stored models.Task
	if err := db.DB.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("task disappeared: %v", err)
	}
	if stored.Title != "Shared task" || stored.IsCompleted {
		t.Errorf("task mutated by non-owner: %+v", stored)
	}

	// The owner succeeds.
	if !svc.CompleteTask(task.ID, alice.ID) {
		t.Error("owner could not complete own task")
	}

	if err := db.DB.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if !stored.IsCompleted || stored.Status != models.TaskStatusCompleted {
		t.Errorf("complete did not flip status: %+v", stored)
	}

	if !svc.DeleteTask(task.ID, alice.ID) {
		t.Error("owner could not delete own task")
	}
	if svc.DeleteTask(task.ID, alice.ID) {
		t.Error("second delete succeeded")
	}
}
