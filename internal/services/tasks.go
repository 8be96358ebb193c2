package services

import (
	"time"

	"github.com/Ashvita9/ProjectDashboard/internal/models"
	"github.com/Ashvita9/ProjectDashboard/internal/payload"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskListRequest struct {
	ProjectID string
	UserID    string
}

type TaskCreateRequest struct {
	UserID      payload.String `json:"user_id"`
	ProjectID   payload.String `json:"project_id"`
	Title       payload.String `json:"title"`
	Description payload.String `json:"description"`
	Status      payload.String `json:"status"`
}

type TaskUpdateRequest struct {
	TaskID      payload.String `json:"task_id"`
	UserID      payload.String `json:"user_id"`
	Title       payload.String `json:"title"`
	Description payload.String `json:"description"`
	Status      payload.String `json:"status"`
}

type TaskDeleteRequest struct {
	TaskID payload.String `json:"task_id"`
	UserID payload.String `json:"user_id"`
}

type TaskService interface {
	ListTasks(db *gorm.DB, req TaskListRequest) ([]models.Task, error)
	CreateTask(db *gorm.DB, req TaskCreateRequest) (*models.Task, error)
	UpdateTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error)
	PatchTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error)
	DeleteTask(db *gorm.DB, req TaskDeleteRequest) error
}

type TaskServiceImpl struct {
	authz AuthorizationService
}

func NewTaskService(authz AuthorizationService) *TaskServiceImpl {
	return &TaskServiceImpl{authz: authz}
}

// ListTasks is strictly project-scoped: project_id is required, the project
// must exist, and when user_id is supplied it must match the project's
// owner. There is no unfiltered fallback that would expose other owners'
// tasks.
func (s *TaskServiceImpl) ListTasks(db *gorm.DB, req TaskListRequest) ([]models.Task, error) {
	if req.ProjectID == "" {
		return nil, &MissingFieldsError{Fields: []string{"project_id"}}
	}

	project, err := findProject(db, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.UserID != "" {
		if err := checkOwner(project, req.UserID); err != nil {
			return nil, err
		}
	}

	var tasks []models.Task
	if err := db.Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, req TaskCreateRequest) (*models.Task, error) {
	missing := payload.Missing(
		payload.Required{Key: "user_id", Present: req.UserID.Present},
		payload.Required{Key: "project_id", Present: req.ProjectID.Present},
		payload.Required{Key: "title", Present: req.Title.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	project, err := s.authz.AuthorizeProject(db, req.ProjectID.Value, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatusTodo
	if value, ok := req.Status.Get(); ok {
		if !models.IsValidTaskStatus(value) {
			return nil, &InvalidStatusError{Value: value}
		}
		status = value
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       req.Title.Value,
		Description: req.Description.Or(""),
		ProjectID:   project.ID,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask is a full replace of title and description; status is replaced
// only when supplied and left unchanged otherwise.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error) {
	missing := payload.Missing(
		payload.Required{Key: "task_id", Present: req.TaskID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
		payload.Required{Key: "title", Present: req.Title.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	task, _, err := s.authz.AuthorizeTask(db, req.TaskID.Value, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	task.Title = req.Title.Value
	task.Description = req.Description.Or("")
	if value, ok := req.Status.Get(); ok {
		if !models.IsValidTaskStatus(value) {
			return nil, &InvalidStatusError{Value: value}
		}
		task.Status = value
	}

	if err := db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// PatchTask applies only the keys present in the request.
func (s *TaskServiceImpl) PatchTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error) {
	missing := payload.Missing(
		payload.Required{Key: "task_id", Present: req.TaskID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	task, _, err := s.authz.AuthorizeTask(db, req.TaskID.Value, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Title.Present {
		task.Title = req.Title.Or("")
		changed = true
	}
	if req.Description.Present {
		task.Description = req.Description.Or("")
		changed = true
	}
	if req.Status.Present {
		value := req.Status.Or("")
		if !models.IsValidTaskStatus(value) {
			return nil, &InvalidStatusError{Value: value}
		}
		task.Status = value
		changed = true
	}

	if !changed {
		return nil, ErrNoChange
	}

	if err := db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, req TaskDeleteRequest) error {
	missing := payload.Missing(
		payload.Required{Key: "task_id", Present: req.TaskID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
	)
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	task, _, err := s.authz.AuthorizeTask(db, req.TaskID.Value, req.UserID.Value)
	if err != nil {
		return err
	}

	return db.Delete(task).Error
}
