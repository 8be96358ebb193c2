package services

import (
	"errors"
	"time"

	"github.com/Ashvita9/ProjectDashboard/internal/models"
	"github.com/Ashvita9/ProjectDashboard/internal/payload"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegistrationRequest struct {
	Username        payload.String `json:"username"`
	Email           payload.String `json:"email"`
	Password        payload.String `json:"password"`
	ConfirmPassword payload.String `json:"confirm_password"`
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct{}

func NewRegisterService() *RegisterServiceImpl {
	return &RegisterServiceImpl{}
}

// RegisterUser validates and persists a new user. Checks run in a fixed
// order: field presence (all keys at once), password confirmation, then
// email and username uniqueness as independent lookups so the conflict
// message can be precise.
func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	missing := payload.Missing(
		payload.Required{Key: "username", Present: req.Username.Present},
		payload.Required{Key: "email", Present: req.Email.Present},
		payload.Required{Key: "password", Present: req.Password.Present},
		payload.Required{Key: "confirm_password", Present: req.ConfirmPassword.Present},
	)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if req.Password.Value != req.ConfirmPassword.Value {
		return nil, ErrPasswordMismatch
	}

	var existingEmail models.User
	if err := db.Where("email = ?", req.Email.Value).First(&existingEmail).Error; err == nil {
		return nil, &ConflictError{Message: "email already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var existingUsername models.User
	if err := db.Where("username = ?", req.Username.Value).First(&existingUsername).Error; err == nil {
		return nil, &ConflictError{Message: "username already taken"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password.Value), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  req.Username.Value,
		Email:     req.Email.Value,
		Password:  string(hashedPassword),
		CreatedAt: time.Now().UTC(),
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
