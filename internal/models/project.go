package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Project belongs to exactly one owner. OwnerID is set at creation and
// never reassigned.
type Project struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string     `json:"name" gorm:"not null"`
	Description    string     `json:"description"`
	OwnerID        uuid.UUID  `json:"owner" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time  `json:"created_at"`
	StartDate      *time.Time `json:"start_date" gorm:"type:timestamp"`
	DeploymentDate *time.Time `json:"deployment_date" gorm:"type:timestamp"`
}
