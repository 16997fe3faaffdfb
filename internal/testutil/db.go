// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CoderHarshaVardhan/playX/internal/migrations"
	"github.com/CoderHarshaVardhan/playX/internal/models"
)

// NewDB opens a private in-memory SQLite database with the schema applied.
// The pool is pinned to one connection so every goroutine sees the same
// database and transactions serialize.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Run(context.Background(), db))
	return db
}

// CreateUser inserts a verified user with a unique email.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		IsVerified:   true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateVenue inserts a venue.
func CreateVenue(t testing.TB, db *gorm.DB, name string) *models.Venue {
	t.Helper()
	v := &models.Venue{
		Name:     name,
		Address:  name + " road",
		Sports:   []string{"Football (Soccer)"},
		Capacity: 10,
		Location: models.GeoPoint{Lng: 78.4, Lat: 17.4},
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

// SlotOption customizes a fixture slot.
type SlotOption func(*models.Slot)

func WithSport(s string) SlotOption { return func(sl *models.Slot) { sl.Sport = s } }
func WithCapacity(n int) SlotOption { return func(sl *models.Slot) { sl.Capacity = n } }
func WithStatus(st models.SlotStatus) SlotOption {
	return func(sl *models.Slot) { sl.Status = st }
}
func WithGender(g string) SlotOption { return func(sl *models.Slot) { sl.GenderPreference = g } }
func WithStart(ts time.Time) SlotOption {
	return func(sl *models.Slot) { sl.TimeStart = ts.UTC() }
}
func WithSkill(min, max *int) SlotOption {
	return func(sl *models.Slot) { sl.SkillRequirement = models.Range{Min: min, Max: max} }
}

// CreateSlot inserts an Open slot owned by creator, bypassing the service.
func CreateSlot(t testing.TB, db *gorm.DB, creator *models.User, opts ...SlotOption) *models.Slot {
	t.Helper()
	s := &models.Slot{
		ID:               uuid.New(),
		CreatorID:        creator.ID,
		Sport:            "Football (Soccer)",
		Type:             models.SlotPickup,
		TimeStart:        time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute),
		DurationMin:      90,
		Capacity:         4,
		GenderPreference: models.GenderAny,
		FeeModel:         models.FeeSplit,
		Location:         models.GeoPoint{Lng: 78.4, Lat: 17.4},
		Status:           models.SlotOpen,
	}
	for _, o := range opts {
		o(s)
	}
	s.AddPlayer(creator.ID, time.Now().UTC())
	require.NoError(t, db.Create(s).Error)
	return s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
