package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

const (
	defaultDurationMin = 90
	defaultRadiusKm    = 10
	minSlotCapacity    = 2
	maxSlotDurationMin = 24 * 60
)

type SlotService interface {
	CreateSlot(ctx context.Context, creatorID uuid.UUID, in *CreateSlotInput) (*models.Slot, error)
	ListOpenSlots(ctx context.Context, f *SlotFilters) ([]models.Slot, error)
	ListUserSlots(ctx context.Context, userID uuid.UUID) ([]models.Slot, error)
	GetSlot(ctx context.Context, slotID string) (*models.Slot, error)
	JoinSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error)
	LeaveSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error)
	CancelSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error)

	// AdvanceSchedule moves slots whose start or end time has passed.
	AdvanceSchedule(ctx context.Context, now time.Time) (SweepResult, error)
}

type CreateSlotInput struct {
	Sport              string
	Type               models.SlotType
	TimeStart          time.Time
	DurationMin        int
	Capacity           int
	SkillRequirement   models.Range
	AgeGroup           models.Range
	GenderPreference   string
	FeeAmount          float64
	FeeModel           models.FeeModel
	Location           *models.Point
	VenueID            *uuid.UUID
	VisibilityRadiusKm float64
	Metadata           datatypes.JSON
}

// SlotFilters are the browse filters. Lat, Lng and RadiusKm are accepted
// for compatibility and do not narrow the result.
type SlotFilters struct {
	Sport            string
	GenderPreference string
	MinSkill         *int
	MaxSkill         *int
	Lat, Lng         *float64
	RadiusKm         *float64
}

type SweepResult struct {
	Started   int `json:"started"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type slotService struct {
	slots    repository.SlotRepository
	venues   repository.VenueRepository
	notifier SlotNotifier
	now      func() time.Time
}

type SlotServiceOption func(*slotService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) SlotServiceOption {
	return func(s *slotService) { s.now = now }
}

func NewSlotService(slots repository.SlotRepository, venues repository.VenueRepository, notifier SlotNotifier, opts ...SlotServiceOption) SlotService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &slotService{slots: slots, venues: venues, notifier: notifier, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ SlotService = (*slotService)(nil)

func (s *slotService) CreateSlot(ctx context.Context, creatorID uuid.UUID, in *CreateSlotInput) (*models.Slot, error) {
	logger.Ctx(ctx).Info("create slot called", zap.String("user_id", creatorID.String()))

	slot, err := s.buildSlot(creatorID, in)
	if err != nil {
		return nil, err
	}

	if slot.VenueID != nil {
		ok, err := s.venues.Exists(ctx, *slot.VenueID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid("Venue not found.")
		}
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("slot created", zap.String("slot_id", slot.ID.String()), zap.String("user_id", creatorID.String()))
	s.publish(ctx, newSlotEvent(EventSlotCreated, slot, &creatorID, s.now().UTC()))
	return slot, nil
}

func (s *slotService) buildSlot(creatorID uuid.UUID, in *CreateSlotInput) (*models.Slot, error) {
	if in == nil || strings.TrimSpace(in.Sport) == "" || in.TimeStart.IsZero() || in.Capacity == 0 || in.Location == nil || len(in.Location.Coordinates) == 0 {
		return nil, ErrMissingSlotFields
	}
	if in.Capacity < minSlotCapacity {
		return nil, invalid("Capacity must be at least 2.")
	}
	loc, err := in.Location.ToGeoPoint()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "Location must be a GeoJSON point [lng, lat].")
	}

	slot := &models.Slot{
		ID:                 uuid.New(),
		CreatorID:          creatorID,
		Sport:              strings.TrimSpace(in.Sport),
		Type:               in.Type,
		VenueID:            in.VenueID,
		TimeStart:          in.TimeStart.UTC(),
		DurationMin:        in.DurationMin,
		Capacity:           in.Capacity,
		SkillRequirement:   in.SkillRequirement,
		AgeGroup:           in.AgeGroup,
		GenderPreference:   strings.ToLower(in.GenderPreference),
		FeeAmount:          in.FeeAmount,
		FeeModel:           in.FeeModel,
		Location:           loc,
		VisibilityRadiusKm: in.VisibilityRadiusKm,
		Status:             models.SlotOpen,
		Metadata:           in.Metadata,
	}
	if slot.Type == "" {
		slot.Type = models.SlotPickup
	}
	if slot.DurationMin == 0 {
		slot.DurationMin = defaultDurationMin
	}
	if slot.GenderPreference == "" {
		slot.GenderPreference = models.GenderAny
	}
	if slot.FeeModel == "" {
		slot.FeeModel = models.FeeSplit
	}
	if slot.VisibilityRadiusKm == 0 {
		slot.VisibilityRadiusKm = defaultRadiusKm
	}

	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	// The creator is always the first player; any list sent by the client
	// is ignored.
	slot.AddPlayer(creatorID, s.now().UTC())
	return slot, nil
}

func validateSlot(s *models.Slot) error {
	switch s.Type {
	case models.SlotChallenge, models.SlotRecruitment, models.SlotPickup, models.SlotTournament:
	default:
		return invalid("Invalid slot type.")
	}
	switch s.GenderPreference {
	case models.GenderAny, models.GenderMale, models.GenderFemale:
	default:
		return invalid("Invalid gender preference.")
	}
	switch s.FeeModel {
	case models.FeeSplit, models.FeeHost, models.FeeEntry:
	default:
		return invalid("Invalid fee model.")
	}
	if s.DurationMin < 1 || s.DurationMin > maxSlotDurationMin {
		return invalid("Duration must be between 1 and 1440 minutes.")
	}
	if s.FeeAmount < 0 {
		return invalid("Fee amount cannot be negative.")
	}
	if s.VisibilityRadiusKm < 0 {
		return invalid("Visibility radius cannot be negative.")
	}
	if r := s.SkillRequirement; r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return invalid("Skill requirement min cannot exceed max.")
	}
	if r := s.AgeGroup; r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return invalid("Age group min cannot exceed max.")
	}
	return nil
}

func (s *slotService) ListOpenSlots(ctx context.Context, f *SlotFilters) ([]models.Slot, error) {
	var rf repository.SlotFilter
	if f != nil {
		rf = repository.SlotFilter{
			Sport:            sportKeyword(f.Sport),
			GenderPreference: strings.ToLower(strings.TrimSpace(f.GenderPreference)),
			MinSkill:         f.MinSkill,
			MaxSkill:         f.MaxSkill,
		}
	}
	slots, err := s.slots.ListOpen(ctx, rf)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("open slots listed", zap.Int("count", len(slots)), zap.String("sport", rf.Sport))
	return slots, nil
}

// sportKeyword reduces "Football (Soccer)" to "Football".
func sportKeyword(sport string) string {
	return strings.TrimSpace(strings.SplitN(sport, "(", 2)[0])
}

func (s *slotService) ListUserSlots(ctx context.Context, userID uuid.UUID) ([]models.Slot, error) {
	slots, err := s.slots.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("user slots listed", zap.String("user_id", userID.String()), zap.Int("count", len(slots)))
	return slots, nil
}

func (s *slotService) GetSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (s *slotService) JoinSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error) {
	log := logger.Ctx(ctx).With(zap.String("slot_id", slotID), zap.String("user_id", userID.String()))
	log.Info("join slot called")

	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, ErrSlotNotOpen
	}
	now := s.now().UTC()
	slot, err := s.slots.Mutate(ctx, id, func(sl *models.Slot) error {
		return applyJoin(sl, userID, now)
	})
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrSlotNotOpen
		}
		log.Info("join slot rejected", zap.Error(err))
		return nil, err
	}

	log.Info("slot joined", zap.Int("players", len(slot.Players)), zap.String("status", string(slot.Status)))
	s.publish(ctx, newSlotEvent(EventSlotJoined, slot, &userID, now))
	if slot.Status == models.SlotFilled {
		s.publish(ctx, newSlotEvent(EventSlotFilled, slot, nil, now))
	}
	return s.reload(ctx, slot), nil
}

func (s *slotService) LeaveSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error) {
	log := logger.Ctx(ctx).With(zap.String("slot_id", slotID), zap.String("user_id", userID.String()))
	log.Info("leave slot called")

	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}
	slot, err := s.slots.Mutate(ctx, id, func(sl *models.Slot) error {
		return applyLeave(sl, userID)
	})
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrSlotNotFound
		}
		log.Info("leave slot rejected", zap.Error(err))
		return nil, err
	}

	log.Info("slot left", zap.Int("players", len(slot.Players)), zap.String("status", string(slot.Status)))
	s.publish(ctx, newSlotEvent(EventSlotLeft, slot, &userID, s.now().UTC()))
	return s.reload(ctx, slot), nil
}

func (s *slotService) CancelSlot(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error) {
	log := logger.Ctx(ctx).With(zap.String("slot_id", slotID), zap.String("user_id", userID.String()))
	log.Info("cancel slot called")

	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}
	slot, err := s.slots.Mutate(ctx, id, func(sl *models.Slot) error {
		return applyCancel(sl, userID)
	})
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrSlotNotFound
		}
		log.Info("cancel slot rejected", zap.Error(err))
		return nil, err
	}

	log.Info("slot cancelled")
	s.publish(ctx, newSlotEvent(EventSlotCancelled, slot, &userID, s.now().UTC()))
	return s.reload(ctx, slot), nil
}

func (s *slotService) AdvanceSchedule(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	now = now.UTC()

	ids, err := s.slots.ListDueForSweep(ctx, now)
	if err != nil {
		return res, err
	}

	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		slot, err := s.slots.Mutate(ctx, id, func(sl *models.Slot) error {
			return applySchedule(sl, now)
		})
		switch {
		case errors.Is(err, errNoTransition), appErr.IsCode(err, appErr.CodeNotFound):
			continue
		case err != nil:
			res.Failed++
			errs = append(errs, err)
			logger.Ctx(ctx).Warn("advance slot failed", zap.String("slot_id", id.String()), zap.Error(err))
			continue
		}

		switch slot.Status {
		case models.SlotOngoing:
			res.Started++
			s.publish(ctx, newSlotEvent(EventSlotStarted, slot, nil, now))
		case models.SlotCompleted:
			res.Completed++
			s.publish(ctx, newSlotEvent(EventSlotCompleted, slot, nil, now))
		}
	}

	logger.Ctx(ctx).Info("slot schedule advanced",
		zap.Int("due", len(ids)),
		zap.Int("started", res.Started),
		zap.Int("completed", res.Completed),
		zap.Int("failed", res.Failed),
	)
	return res, errors.Join(errs...)
}

// reload returns the populated view of a slot after a mutation. The write has
// already committed, so a failed read falls back to the mutated record.
func (s *slotService) reload(ctx context.Context, slot *models.Slot) *models.Slot {
	full, err := s.slots.GetByID(ctx, slot.ID)
	if err != nil {
		logger.Ctx(ctx).Warn("reload slot failed", zap.String("slot_id", slot.ID.String()), zap.Error(err))
		return slot
	}
	return full
}

func (s *slotService) publish(ctx context.Context, ev SlotEvent) {
	if err := s.notifier.Publish(ctx, ev); err != nil {
		logger.Ctx(ctx).Warn("publish slot event failed",
			zap.String("slot_id", ev.SlotID.String()),
			zap.String("event", string(ev.Type)),
			zap.Error(err),
		)
	}
}
