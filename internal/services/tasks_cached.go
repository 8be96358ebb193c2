package services

import (
	"fmt"
	"time"

	"github.com/Ashvita9/ProjectDashboard/internal/cache"
	"github.com/Ashvita9/ProjectDashboard/internal/models"

	"gorm.io/gorm"
)

const taskListTTL = 30 * time.Second

// CachedTaskService decorates a TaskService with a read-through cache of
// task listings. Entries are keyed by project and requesting user, so a
// cached listing only ever exists for a pair that already passed the
// ownership check. Cache failures degrade to the inner service.
type CachedTaskService struct {
	inner TaskService
	cache cache.Cache
}

func NewCachedTaskService(inner TaskService, c cache.Cache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

func taskListKey(projectID, userID string) string {
	return fmt.Sprintf("tasks:list:%s:%s", projectID, userID)
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, req TaskListRequest) ([]models.Task, error) {
	if req.ProjectID == "" {
		return s.inner.ListTasks(db, req)
	}

	key := taskListKey(req.ProjectID, req.UserID)
	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}
	// miss and cache trouble both fall through to the store

	tasks, err := s.inner.ListTasks(db, req)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(key, tasks, taskListTTL)
	return tasks, nil
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, req TaskCreateRequest) (*models.Task, error) {
	task, err := s.inner.CreateTask(db, req)
	if err != nil {
		return nil, err
	}
	s.invalidateProject(task.ProjectID.String())
	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error) {
	task, err := s.inner.UpdateTask(db, req)
	if err != nil {
		return nil, err
	}
	s.invalidateProject(task.ProjectID.String())
	return task, nil
}

func (s *CachedTaskService) PatchTask(db *gorm.DB, req TaskUpdateRequest) (*models.Task, error) {
	task, err := s.inner.PatchTask(db, req)
	if err != nil {
		return nil, err
	}
	s.invalidateProject(task.ProjectID.String())
	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, req TaskDeleteRequest) error {
	if err := s.inner.DeleteTask(db, req); err != nil {
		return err
	}
	// The parent project is not known after deletion; drop every listing.
	_ = s.cache.DeletePattern("tasks:list:*")
	return nil
}

func (s *CachedTaskService) invalidateProject(projectID string) {
	_ = s.cache.DeletePattern(fmt.Sprintf("tasks:list:%s:*", projectID))
}
