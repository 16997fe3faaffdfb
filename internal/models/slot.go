package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SlotStatus is the lifecycle state of a slot.
type SlotStatus string

const (
	SlotOpen      SlotStatus = "Open"
	SlotFilled    SlotStatus = "Filled"
	SlotOngoing   SlotStatus = "Ongoing"
	SlotCompleted SlotStatus = "Completed"
	SlotCancelled SlotStatus = "Cancelled"
)

// Terminal reports whether no further transition can leave this status.
func (s SlotStatus) Terminal() bool {
	return s == SlotCancelled || s == SlotCompleted
}

type SlotType string

const (
	SlotChallenge   SlotType = "Challenge"
	SlotRecruitment SlotType = "Recruitment"
	SlotPickup      SlotType = "Pickup"
	SlotTournament  SlotType = "Tournament"
)

type FeeModel string

const (
	FeeSplit FeeModel = "Split"
	FeeHost  FeeModel = "Host"
	FeeEntry FeeModel = "Entry"
)

// Gender preferences a slot may declare.
const (
	GenderAny    = "any"
	GenderMale   = "male"
	GenderFemale = "female"
)

// Range is an optional inclusive [min, max] bound.
type Range struct {
	Min *int `gorm:"column:min" json:"min,omitempty"`
	Max *int `gorm:"column:max" json:"max,omitempty"`
}

// Slot is a scheduled game. players and status are only ever changed through
// SlotRepository.Mutate; player_count mirrors len(players) so the database
// can enforce the capacity bound on its own.
type Slot struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID          uuid.UUID      `gorm:"type:uuid;index;not null" json:"creatorId"`
	Creator            *User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Sport              string         `gorm:"not null;index" json:"sport"`
	Type               SlotType       `gorm:"type:varchar(16);not null" json:"type"`
	VenueID            *uuid.UUID     `gorm:"type:uuid;index" json:"venueId,omitempty"`
	Venue              *Venue         `gorm:"foreignKey:VenueID;constraint:OnDelete:SET NULL" json:"venue,omitempty"`
	TimeStart          time.Time      `gorm:"not null;index" json:"timeStart"`
	DurationMin        int            `gorm:"not null" json:"durationMin"`
	Capacity           int            `gorm:"not null" json:"capacity"`
	PlayerCount        int            `gorm:"not null;check:chk_slots_player_count,player_count <= capacity" json:"playerCount"`
	Players            []SlotPlayer   `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"players"`
	SkillRequirement   Range          `gorm:"embedded;embeddedPrefix:skill_" json:"skillRequirement"`
	AgeGroup           Range          `gorm:"embedded;embeddedPrefix:age_" json:"ageGroup"`
	GenderPreference   string         `gorm:"type:varchar(16);not null" json:"genderPreference"`
	FeeAmount          float64        `gorm:"not null;default:0" json:"feeAmount"`
	FeeModel           FeeModel       `gorm:"type:varchar(16);not null" json:"feeModel"`
	Location           GeoPoint       `gorm:"embedded;embeddedPrefix:location_" json:"location" swaggertype:"object"`
	VisibilityRadiusKm float64        `gorm:"not null;default:10" json:"visibilityRadiusKm"`
	Status             SlotStatus     `gorm:"type:varchar(16);not null;index:idx_slots_status_created,priority:1" json:"status"`
	Version            int            `gorm:"not null;default:0" json:"-"`
	Metadata           datatypes.JSON `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt          time.Time      `gorm:"index:idx_slots_status_created,priority:2" json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// SlotPlayer is one membership row; Position keeps join order stable.
type SlotPlayer struct {
	SlotID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"userId"`
	Position int       `gorm:"not null" json:"position"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.PlayerCount = len(s.Players)
	return nil
}

// HasPlayer reports whether userID is a member.
func (s *Slot) HasPlayer(userID uuid.UUID) bool {
	for _, p := range s.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// AddPlayer appends userID at the end of the join order. It does not check
// capacity or duplicates.
func (s *Slot) AddPlayer(userID uuid.UUID, at time.Time) {
	pos := 1
	for _, p := range s.Players {
		if p.Position >= pos {
			pos = p.Position + 1
		}
	}
	s.Players = append(s.Players, SlotPlayer{SlotID: s.ID, UserID: userID, Position: pos, JoinedAt: at})
	s.PlayerCount = len(s.Players)
}

// RemovePlayer drops userID and reports whether it was present.
func (s *Slot) RemovePlayer(userID uuid.UUID) bool {
	for i, p := range s.Players {
		if p.UserID == userID {
			s.Players = append(s.Players[:i:i], s.Players[i+1:]...)
			s.PlayerCount = len(s.Players)
			return true
		}
	}
	return false
}

// PlayerIDs returns member ids in join order.
func (s *Slot) PlayerIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p.UserID)
	}
	return out
}

// EndsAt is the scheduled end of the game.
func (s *Slot) EndsAt() time.Time {
	return s.TimeStart.Add(time.Duration(s.DurationMin) * time.Minute)
}
