package services

import (
	"github.com/Ashvita9/ProjectDashboard/internal/cache"
	"github.com/Ashvita9/ProjectDashboard/internal/models"

	"gorm.io/gorm"
)

// CachedProjectService keeps project mutations in step with the cached task
// listings. Deleting a project cascades to its tasks in the store, so the
// listings cached under that project are dropped in the same call; every
// other operation passes straight through.
type CachedProjectService struct {
	inner ProjectService
	cache cache.Cache
}

func NewCachedProjectService(inner ProjectService, c cache.Cache) *CachedProjectService {
	return &CachedProjectService{inner: inner, cache: c}
}

func (s *CachedProjectService) ListProjects(db *gorm.DB, userID string) ([]models.Project, error) {
	return s.inner.ListProjects(db, userID)
}

func (s *CachedProjectService) CreateProject(db *gorm.DB, req ProjectCreateRequest) (*models.Project, error) {
	return s.inner.CreateProject(db, req)
}

func (s *CachedProjectService) UpdateProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error) {
	return s.inner.UpdateProject(db, req)
}

func (s *CachedProjectService) PatchProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error) {
	return s.inner.PatchProject(db, req)
}

func (s *CachedProjectService) DeleteProject(db *gorm.DB, req ProjectDeleteRequest) error {
	if err := s.inner.DeleteProject(db, req); err != nil {
		return err
	}
	_ = s.cache.DeletePattern(taskListKey(req.ProjectID.Value, "*"))
	return nil
}
