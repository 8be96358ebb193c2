package services

import (
	"time"

	"github.com/Ashvita9/ProjectDashboard/internal/models"
	"github.com/Ashvita9/ProjectDashboard/internal/payload"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectCreateRequest struct {
	UserID         payload.String `json:"user_id"`
	Name           payload.String `json:"name"`
	Description    payload.String `json:"description"`
	StartDate      payload.String `json:"start_date"`
	DeploymentDate payload.String `json:"deployment_date"`
}

type ProjectUpdateRequest struct {
	ProjectID      payload.String `json:"project_id"`
	UserID         payload.String `json:"user_id"`
	Name           payload.String `json:"name"`
	Description    payload.String `json:"description"`
	StartDate      payload.String `json:"start_date"`
	DeploymentDate payload.String `json:"deployment_date"`
}

type ProjectDeleteRequest struct {
	ProjectID payload.String `json:"project_id"`
	UserID    payload.String `json:"user_id"`
}

type ProjectService interface {
	ListProjects(db *gorm.DB, userID string) ([]models.Project, error)
	CreateProject(db *gorm.DB, req ProjectCreateRequest) (*models.Project, error)
	UpdateProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error)
	PatchProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error)
	DeleteProject(db *gorm.DB, req ProjectDeleteRequest) error
}

type ProjectServiceImpl struct {
	authz AuthorizationService
}

func NewProjectService(authz AuthorizationService) *ProjectServiceImpl {
	return &ProjectServiceImpl{authz: authz}
}

// ListProjects returns every project owned by the user, in store order.
func (s *ProjectServiceImpl) ListProjects(db *gorm.DB, userID string) ([]models.Project, error) {
	if userID == "" {
		return nil, &MissingFieldsError{Fields: []string{"user_id"}}
	}

	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	if err := db.Where("owner_id = ?", user.ID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectServiceImpl) CreateProject(db *gorm.DB, req ProjectCreateRequest) (*models.Project, error) {
	missing := payload.Missing(
		payload.Required{Key: "user_id", Present: req.UserID.Present},
		payload.Required{Key: "name", Present: req.Name.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	user, err := findUser(db, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	startDate, err := resolveDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	deploymentDate, err := resolveDate("deployment_date", req.DeploymentDate)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           req.Name.Value,
		Description:    req.Description.Or(""),
		OwnerID:        user.ID,
		CreatedAt:      time.Now().UTC(),
		StartDate:      startDate,
		DeploymentDate: deploymentDate,
	}

	if err := db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject is a full replace: name is required, description falls back
// to empty, and each date field is cleared unless parseable text is given.
func (s *ProjectServiceImpl) UpdateProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error) {
	missing := payload.Missing(
		payload.Required{Key: "project_id", Present: req.ProjectID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
		payload.Required{Key: "name", Present: req.Name.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	project, err := s.authz.AuthorizeProject(db, req.ProjectID.Value, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	startDate, err := resolveDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	deploymentDate, err := resolveDate("deployment_date", req.DeploymentDate)
	if err != nil {
		return nil, err
	}

	project.Name = req.Name.Value
	project.Description = req.Description.Or("")
	project.StartDate = startDate
	project.DeploymentDate = deploymentDate

	if err := db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// PatchProject applies only the keys present in the request. Presence is
// what counts: an explicit null or empty date clears the field, while an
// absent key leaves it untouched.
func (s *ProjectServiceImpl) PatchProject(db *gorm.DB, req ProjectUpdateRequest) (*models.Project, error) {
	missing := payload.Missing(
		payload.Required{Key: "project_id", Present: req.ProjectID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	project, err := s.authz.AuthorizeProject(db, req.ProjectID.Value, req.UserID.Value)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name.Present {
		project.Name = req.Name.Or("")
		changed = true
	}
	if req.Description.Present {
		project.Description = req.Description.Or("")
		changed = true
	}
	if req.StartDate.Present {
		startDate, err := resolveDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		project.StartDate = startDate
		changed = true
	}
	if req.DeploymentDate.Present {
		deploymentDate, err := resolveDate("deployment_date", req.DeploymentDate)
		if err != nil {
			return nil, err
		}
		project.DeploymentDate = deploymentDate
		changed = true
	}

	if !changed {
		return nil, ErrNoChange
	}

	if err := db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project after the ownership check. Tasks under
// it are removed by the store's cascading foreign key.
func (s *ProjectServiceImpl) DeleteProject(db *gorm.DB, req ProjectDeleteRequest) error {
	missing := payload.Missing(
		payload.Required{Key: "project_id", Present: req.ProjectID.Present},
		payload.Required{Key: "user_id", Present: req.UserID.Present},
	)
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	project, err := s.authz.AuthorizeProject(db, req.ProjectID.Value, req.UserID.Value)
	if err != nil {
		return err
	}

	return db.Delete(project).Error
}
