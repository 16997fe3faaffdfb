package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Skill levels a user can declare on their profile.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// User represents a registered player.
type User struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"not null" json:"name"`
	Email            string                      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string                      `gorm:"not null" json:"-" swaggerignore:"true"`
	IsVerified       bool                        `gorm:"not null;default:false" json:"isVerified"`
	Gender           string                      `gorm:"type:varchar(16);not null;default:''" json:"gender"`
	Age              *int                        `json:"age,omitempty"`
	PreferredSports  datatypes.JSONSlice[string] `json:"preferredSports" swaggertype:"array,string"`
	SkillLevel       string                      `gorm:"type:varchar(16);not null" json:"skillLevel"`
	Bio              string                      `gorm:"type:text;not null;default:''" json:"bio"`
	Location         UserLocation                `gorm:"embedded;embeddedPrefix:location_" json:"location" swaggertype:"object"`
	ProfileCompleted bool                        `gorm:"not null;default:false" json:"profileCompleted"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SkillLevel == "" {
		u.SkillLevel = SkillBeginner
	}
	if u.PreferredSports == nil {
		u.PreferredSports = datatypes.JSONSlice[string]{}
	}
	return nil
}
