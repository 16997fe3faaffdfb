package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VenuePricing holds the optional rate card of a venue.
type VenuePricing struct {
	HourlyRate      float64  `json:"hourlyRate" yaml:"hourlyRate"`
	PeakHourRate    *float64 `json:"peakHourRate,omitempty" yaml:"peakHourRate"`
	WeekendRate     *float64 `json:"weekendRate,omitempty" yaml:"weekendRate"`
	PeakHours       string   `json:"peakHours,omitempty" yaml:"peakHours"`
	SecurityDeposit float64  `json:"securityDeposit" yaml:"securityDeposit"`
	Currency        string   `json:"currency" yaml:"currency"`
}

// Venue is a bookable location. Venues are seeded out of band and only read
// by the slot core.
type Venue struct {
	ID           uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                           `gorm:"not null" json:"name"`
	Address      string                           `gorm:"not null" json:"address"`
	Sports       datatypes.JSONSlice[string]      `json:"sport" swaggertype:"array,string"`
	OwnerID      *uuid.UUID                       `gorm:"type:uuid;index" json:"ownerId,omitempty"`
	PricePerHour float64                          `gorm:"not null;default:0" json:"pricePerHour"`
	Pricing      datatypes.JSONType[VenuePricing] `json:"pricing" swaggertype:"object"`
	Images       datatypes.JSONSlice[string]      `json:"images" swaggertype:"array,string"`
	Description  string                           `gorm:"type:text" json:"description,omitempty"`
	Amenities    datatypes.JSONSlice[string]      `json:"amenities" swaggertype:"array,string"`
	Capacity     int                              `gorm:"not null;default:10" json:"capacity"`
	Location     GeoPoint                         `gorm:"embedded;embeddedPrefix:location_" json:"location" swaggertype:"object"`
	Metadata     datatypes.JSON                   `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps pricePerHour in step with pricing.hourlyRate, which older
// clients still read.
func (v *Venue) BeforeSave(tx *gorm.DB) error {
	p := v.Pricing.Data()
	if p.Currency == "" {
		p.Currency = "INR"
		v.Pricing = datatypes.NewJSONType(p)
	}
	if p.HourlyRate > 0 {
		v.PricePerHour = p.HourlyRate
	}
	return nil
}
