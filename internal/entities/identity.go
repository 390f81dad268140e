package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is a registered user's credential record. Rows are written once
// on signup and never updated.
type Identity struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}

// BeforeCreate assigns a random UUID when the caller did not set one.
func (i *Identity) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
