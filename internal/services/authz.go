package services

import (
	"errors"

	"github.com/Ashvita9/ProjectDashboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// AuthorizationService enforces the single ownership rule shared by every
// project and task mutation: the acting user must be the project's owner.
// For tasks the owner is resolved transitively through the parent project.
type AuthorizationService interface {
	AuthorizeProject(db *gorm.DB, projectID string, userID string) (*models.Project, error)
	AuthorizeTask(db *gorm.DB, taskID string, userID string) (*models.Task, *models.Project, error)
}

type AuthorizationServiceImpl struct{}

func NewAuthorizationService() *AuthorizationServiceImpl {
	return &AuthorizationServiceImpl{}
}

// AuthorizeProject resolves the project and checks ownership. A missing
// project is always reported as not found, before any ownership comparison.
func (s *AuthorizationServiceImpl) AuthorizeProject(db *gorm.DB, projectID string, userID string) (*models.Project, error) {
	project, err := findProject(db, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(project, userID); err != nil {
		return nil, err
	}
	return project, nil
}

// AuthorizeTask resolves the task and its parent project, then checks
// ownership against the project's owner.
func (s *AuthorizationServiceImpl) AuthorizeTask(db *gorm.DB, taskID string, userID string) (*models.Task, *models.Project, error) {
	id, err := uuid.FromString(taskID)
	if err != nil {
		return nil, nil, &NotFoundError{Resource: "task"}
	}

	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{Resource: "task"}
		}
		return nil, nil, err
	}

	var project models.Project
	if err := db.Where("id = ?", task.ProjectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{Resource: "project"}
		}
		return nil, nil, err
	}

	if err := checkOwner(&project, userID); err != nil {
		return nil, nil, err
	}
	return &task, &project, nil
}

func findProject(db *gorm.DB, projectID string) (*models.Project, error) {
	id, err := uuid.FromString(projectID)
	if err != nil {
		return nil, &NotFoundError{Resource: "project"}
	}

	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "project"}
		}
		return nil, err
	}
	return &project, nil
}

// checkOwner compares canonical string identities so the rule holds no
// matter how the id arrived in the request.
func checkOwner(project *models.Project, userID string) error {
	if project.OwnerID.String() != userID {
		return ErrForbidden
	}
	return nil
}

func findUser(db *gorm.DB, userID string) (*models.User, error) {
	id, err := uuid.FromString(userID)
	if err != nil {
		return nil, &NotFoundError{Resource: "user"}
	}

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}
