package services

import (
	"errors"

	"github.com/Ashvita9/ProjectDashboard/internal/models"
	"github.com/Ashvita9/ProjectDashboard/internal/payload"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username payload.String `json:"username"`
	Email    payload.String `json:"email"`
	Password payload.String `json:"password"`
}

type AuthService interface {
	LoginUser(db *gorm.DB, req LoginRequest) (*models.User, error)
}

type AuthServiceImpl struct{}

func NewAuthService() *AuthServiceImpl {
	return &AuthServiceImpl{}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// LoginUser authenticates by username when given, falling back to email.
// Unknown identity and wrong password both return ErrInvalidCredentials so
// the response never reveals which one failed.
func (s *AuthServiceImpl) LoginUser(db *gorm.DB, req LoginRequest) (*models.User, error) {
	if !req.Password.Present {
		return nil, ErrPasswordRequired
	}
	if !req.Username.Present && !req.Email.Present {
		return nil, ErrIdentityRequired
	}

	var user models.User
	var err error
	if req.Username.Present {
		err = db.Where("username = ?", req.Username.Value).First(&user).Error
	} else {
		err = db.Where("email = ?", req.Email.Value).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user.Password, req.Password.Value) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
