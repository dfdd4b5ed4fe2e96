package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeloe-dev/yeloe/db"
	"github.com/yeloe-dev/yeloe/internal/middleware"
	"github.com/yeloe-dev/yeloe/internal/models"
	"github.com/yeloe-dev/yeloe/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	Init(nil)
}

func createTestUser(t *testing.T, email, firstName, lastName string) *models.User {
	t.Helper()

	user := models.User{
		Email:           email,
		PasswordHash:    "x",
		FirstName:       firstName,
		LastName:        lastName,
		IsEmailVerified: true,
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

func createTestMember(t *testing.T, projectID uint, user *models.User, addedBy uint) {
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
}

// requestContext builds a gin context the way AuthMiddleware leaves it:
// identity in the context, body and route params on the request.
func requestContext(t *testing.T, user *models.User, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	payload := []byte("{}")
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	ctx.Request = req
	ctx.Params = params

	if user != nil {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
			ID:    user.ID,
			Name:  user.DisplayName(),
			Email: user.Email,
		})
	}

	return ctx, w
}

func idParam(name string, id uint) gin.Params {
	return gin.Params{{Key: name, Value: strconv.FormatUint(uint64(id), 10)}}
}

func TestRemoveMember_OwnerCannotRemoveSelf(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")
	project := createTestProject(t, owner.ID, "Marketing")

	ctx, w := requestContext(t, owner, nil, gin.Params{
		{Key: "project_id", Value: strconv.FormatUint(uint64(project.ID), 10)},
		{Key: "user_id", Value: strconv.FormatUint(uint64(owner.ID), 10)},
	})

	RemoveMember(ctx)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRemoveMember_NonOwnerForbidden(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")
	member := createTestUser(t, "bob@example.com", "Bob", "Jones")
	project := createTestProject(t, owner.ID, "Marketing")
	createTestMember(t, project.ID, member, owner.ID)

	// The member cannot remove anyone, not even themselves.
	ctx, w := requestContext(t, member, nil, gin.Params{
		{Key: "project_id", Value: strconv.FormatUint(uint64(project.ID), 10)},
		{Key: "user_id", Value: strconv.FormatUint(uint64(member.ID), 10)},
	})

	RemoveMember(ctx)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, member.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("member row mutated by forbidden request, count=%d", count)
	}
}

func TestRemoveMember_OwnerRemovesMember(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")
	member := createTestUser(t, "bob@example.com", "Bob", "Jones")
	project := createTestProject(t, owner.ID, "Marketing")
	createTestMember(t, project.ID, member, owner.ID)

	ctx, w := requestContext(t, owner, nil, gin.Params{
		{Key: "project_id", Value: strconv.FormatUint(uint64(project.ID), 10)},
		{Key: "user_id", Value: strconv.FormatUint(uint64(member.ID), 10)},
	})

	RemoveMember(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, member.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("member row still present after removal, count=%d", count)
	}
}

func TestUpdateProject_NonOwnerNotFoundAndUnchanged(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")
	member := createTestUser(t, "bob@example.com", "Bob", "Jones")
	project := createTestProject(t, owner.ID, "Marketing")
	createTestMember(t, project.ID, member, owner.ID)

	ctx, w := requestContext(t, member, ProjectRequest{
		Name:     "Hijacked",
		Status:   models.ProjectStatusCancelled,
		Priority: models.ProjectPriorityHigh,
	}, idParam("project_id", project.ID))

	UpdateProject(ctx)

	// Not-found and not-owned are indistinguishable.
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Project
	if err := db.DB.First(&stored, project.ID).Error; err != nil {
		t.Fatalf("failed to reload project: %v", err)
	}
	if stored.Name != "Marketing" || stored.Status != models.ProjectStatusActive {
		t.Errorf("project mutated by non-owner: %+v", stored)
	}
}

func TestDeleteProject_NonOwnerNotFound(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")
	member := createTestUser(t, "bob@example.com", "Bob", "Jones")
	project := createTestProject(t, owner.ID, "Marketing")
	createTestMember(t, project.ID, member, owner.ID)

	ctx, w := requestContext(t, member, nil, idParam("project_id", project.ID))

	DeleteProject(ctx)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("project deleted by non-owner, count=%d", count)
	}

	// The owner can delete it.
	ctx, w = requestContext(t, owner, nil, idParam("project_id", project.ID))

	DeleteProject(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner delete, got %d: %s", w.Code, w.Body.String())
	}

	db.DB.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Errorf("project still present after owner delete, count=%d", count)
	}
}

func TestProjectCreateGetRoundTrip(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, "alice@example.com", "Alice", "Smith")

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 1, 0)

	ctx, w := requestContext(t, owner, ProjectRequest{
		Name:        "Website Redesign",
		Description: "Refresh the marketing site",
		Status:      models.ProjectStatusPlanning,
		Priority:    models.ProjectPriorityHigh,
		StartDate:   &start,
		DueDate:     &due,
		Progress:    25,
	}, nil)

	CreateProject(ctx)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Success bool            `json:"success"`
		Project ProjectResponse `json:"project"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.Project.ID == 0 {
		t.Fatal("create response carries no project ID")
	}

	ctx, w = requestContext(t, owner, nil, idParam("project_id", created.Project.ID))

	GetProject(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var fetched struct {
		Project ProjectResponse `json:"project"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}

	got := fetched.Project
	if got.Name != "Website Redesign" ||
		got.Description != "Refresh the marketing site" ||
		got.Status != models.ProjectStatusPlanning ||
		got.Priority != models.ProjectPriorityHigh ||
		got.Progress != 25 ||
		got.OwnerID != owner.ID {
		t.Errorf("fetched project does not echo created fields: %+v", got)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("start date not echoed: %v", got.StartDate)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date not echoed: %v", got.DueDate)
	}
}
