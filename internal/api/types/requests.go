package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSlotRequest mirrors the slot body. Required fields are checked by the
// slot service so the error message stays the same for every missing field.
type CreateSlotRequest struct {
	Sport              string          `json:"sport" validate:"max=100"`
	Type               models.SlotType `json:"type" validate:"omitempty,oneof=Challenge Recruitment Pickup Tournament"`
	TimeStart          *time.Time      `json:"timeStart"`
	DurationMin        int             `json:"durationMin" validate:"gte=0"`
	Capacity           int             `json:"capacity" validate:"gte=0,lte=200"`
	SkillRequirement   models.Range    `json:"skillRequirement"`
	AgeGroup           models.Range    `json:"ageGroup"`
	GenderPreference   string          `json:"genderPreference" validate:"omitempty,oneof=any male female"`
	FeeAmount          float64         `json:"feeAmount" validate:"gte=0"`
	FeeModel           models.FeeModel `json:"feeModel" validate:"omitempty,oneof=Split Host Entry"`
	Location           *models.Point   `json:"location" validate:"-"`
	VenueID            *uuid.UUID      `json:"venueId"`
	VisibilityRadiusKm float64         `json:"visibilityRadiusKm" validate:"gte=0"`
	Metadata           datatypes.JSON  `json:"metadata" swaggertype:"object"`
}

func (r *CreateSlotRequest) ToInput() *services.CreateSlotInput {
	in := &services.CreateSlotInput{
		Sport:              r.Sport,
		Type:               r.Type,
		DurationMin:        r.DurationMin,
		Capacity:           r.Capacity,
		SkillRequirement:   r.SkillRequirement,
		AgeGroup:           r.AgeGroup,
		GenderPreference:   r.GenderPreference,
		FeeAmount:          r.FeeAmount,
		FeeModel:           r.FeeModel,
		Location:           r.Location,
		VenueID:            r.VenueID,
		VisibilityRadiusKm: r.VisibilityRadiusKm,
		Metadata:           r.Metadata,
	}
	if r.TimeStart != nil {
		in.TimeStart = *r.TimeStart
	}
	return in
}

type LocationRequest struct {
	Type        string    `json:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address" validate:"max=300"`
}

type UpdateProfileRequest struct {
	Gender          string           `json:"gender" validate:"omitempty,oneof=male female other Male Female Other"`
	Age             *int             `json:"age" validate:"omitempty,gte=5,lte=120"`
	PreferredSports string           `json:"preferredSports" validate:"max=500"`
	SkillLevel      string           `json:"skillLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	Bio             string           `json:"bio" validate:"max=1000"`
	Location        *LocationRequest `json:"location"`
}

// ToInput converts the request; the location has already passed validation
// but coordinates are range checked here.
func (r *UpdateProfileRequest) ToInput() (*services.UpdateProfileInput, error) {
	in := &services.UpdateProfileInput{
		Gender:          r.Gender,
		Age:             r.Age,
		PreferredSports: r.PreferredSports,
		SkillLevel:      r.SkillLevel,
		Bio:             r.Bio,
	}
	if r.Location != nil {
		gp, err := models.Point{Type: "Point", Coordinates: r.Location.Coordinates}.ToGeoPoint()
		if err != nil {
			return nil, err
		}
		in.Location = &models.UserLocation{GeoPoint: gp, Address: r.Location.Address}
	}
	return in, nil
}
