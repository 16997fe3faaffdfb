package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

// MaxMutateAttempts bounds how often Mutate retries after losing a race.
const MaxMutateAttempts = 5

const mutateBackoff = 5 * time.Millisecond

// SlotFilter narrows ListOpen. Zero values mean "no filter".
type SlotFilter struct {
	// Sport is matched case-insensitively as a substring.
	Sport            string
	GenderPreference string
	MinSkill         *int
	MaxSkill         *int
}

// MutateFunc applies a transition to a freshly loaded slot. Returning an
// error aborts the mutation and leaves the slot untouched.
type MutateFunc func(s *models.Slot) error

type SlotRepository interface {
	Create(ctx context.Context, s *models.Slot) error
	// GetByID loads the slot with creator, venue and players populated.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error)
	ListOpen(ctx context.Context, f SlotFilter) ([]models.Slot, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Slot, error)
	// Mutate runs an atomic read-modify-write of status and players.
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*models.Slot, error)
	// ListDueForSweep returns ids of live slots whose start time has passed.
	ListDueForSweep(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

var errStaleSlot = errors.New("slot version changed")

func playersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *slotRepository) Create(ctx context.Context, s *models.Slot) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create slot failed")
	}
	return nil
}

func (r *slotRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Venue").
		Preload("Players", playersInOrder).
		Preload("Players.User")
}

func (r *slotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	var s models.Slot
	if err := r.populated(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "slot", "get slot failed")
	}
	return &s, nil
}

func (r *slotRepository) ListOpen(ctx context.Context, f SlotFilter) ([]models.Slot, error) {
	q := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Players", playersInOrder).
		Where("status = ?", models.SlotOpen)

	if f.Sport != "" {
		q = q.Where("LOWER(sport) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(f.Sport))+"%")
	}
	if f.GenderPreference != "" && f.GenderPreference != models.GenderAny {
		q = q.Where("gender_preference = ?", f.GenderPreference)
	}
	// Overlap of [skill_min, skill_max] with the requested range; a missing
	// bound on either side is unbounded.
	if f.MaxSkill != nil {
		q = q.Where("(skill_min IS NULL OR skill_min <= ?)", *f.MaxSkill)
	}
	if f.MinSkill != nil {
		q = q.Where("(skill_max IS NULL OR skill_max >= ?)", *f.MinSkill)
	}

	var out []models.Slot
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list open slots failed")
	}
	return out, nil
}

func (r *slotRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Slot, error) {
	joined := r.db.Model(&models.SlotPlayer{}).Select("slot_id").Where("user_id = ?", userID)

	var out []models.Slot
	err := r.populated(ctx).
		Where("creator_id = ? OR id IN (?)", userID, joined).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list user slots failed")
	}
	return out, nil
}

func (r *slotRepository) ListDueForSweep(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Slot{}).
		Where("status IN ? AND time_start <= ?", []models.SlotStatus{models.SlotOpen, models.SlotFilled, models.SlotOngoing}, now).
		Order("time_start ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list slots due for sweep failed")
	}
	return ids, nil
}

// Mutate loads and locks the slot row inside a transaction, applies fn and
// writes the result back guarded by the version column. The row lock queues
// concurrent writers on postgres; the version guard catches anything that
// slips past it (dialects without row locks), in which case the whole
// read-modify-write is retried against the new state, up to
// MaxMutateAttempts times.
func (r *slotRepository) Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*models.Slot, error) {
	for attempt := 0; attempt < MaxMutateAttempts; attempt++ {
		if attempt > 0 {
			if err := waitRetry(ctx, attempt); err != nil {
				return nil, appErr.Wrap(err, appErr.CodeDeadline, "slot update aborted")
			}
		}
		var out *models.Slot
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			s, err := mutateOnce(tx, id, fn)
			out = s
			return err
		})
		if errors.Is(err, errStaleSlot) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, appErr.New(appErr.CodeConflict, "Slot is busy, please try again.").
		WithMeta("attempts", MaxMutateAttempts)
}

// waitRetry backs off linearly between attempts.
func waitRetry(ctx context.Context, attempt int) error {
	t := time.NewTimer(time.Duration(attempt) * mutateBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func mutateOnce(tx *gorm.DB, id uuid.UUID, fn MutateFunc) (*models.Slot, error) {
	var s models.Slot
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "slot", "load slot failed")
	}
	if err := playersInOrder(tx).Where("slot_id = ?", id).Find(&s.Players).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "load players failed")
	}

	before := make(map[uuid.UUID]struct{}, len(s.Players))
	for _, p := range s.Players {
		before[p.UserID] = struct{}{}
	}

	if err := fn(&s); err != nil {
		return nil, err
	}
	s.PlayerCount = len(s.Players)

	now := time.Now().UTC()
	res := tx.Model(&models.Slot{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"status":       s.Status,
			"player_count": s.PlayerCount,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, appErr.Wrap(res.Error, appErr.CodeInternal, "update slot failed")
	}
	if res.RowsAffected == 0 {
		return nil, errStaleSlot
	}

	after := make(map[uuid.UUID]struct{}, len(s.Players))
	var added []models.SlotPlayer
	for _, p := range s.Players {
		after[p.UserID] = struct{}{}
		if _, ok := before[p.UserID]; !ok {
			p.SlotID = s.ID
			added = append(added, p)
		}
	}
	var removed []uuid.UUID
	for uid := range before {
		if _, ok := after[uid]; !ok {
			removed = append(removed, uid)
		}
	}

	if len(removed) > 0 {
		if err := tx.Where("slot_id = ? AND user_id IN ?", s.ID, removed).Delete(&models.SlotPlayer{}).Error; err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "remove players failed")
		}
	}
	if len(added) > 0 {
		if err := tx.Create(&added).Error; err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "add players failed")
		}
	}

	s.Version++
	s.UpdatedAt = now
	return &s, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
