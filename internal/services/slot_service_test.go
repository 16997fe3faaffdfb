package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	"github.com/CoderHarshaVardhan/playX/internal/testutil"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []SlotEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, ev SlotEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) types() []SlotEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SlotEventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type slotFixture struct {
	db       *gorm.DB
	svc      SlotService
	notifier *recordingNotifier
}

func newSlotFixture(t *testing.T, opts ...SlotServiceOption) *slotFixture {
	t.Helper()
	db := testutil.NewDB(t)
	n := &recordingNotifier{}
	svc := NewSlotService(repository.NewSlotRepository(db), repository.NewVenueRepository(db), n, opts...)
	return &slotFixture{db: db, svc: svc, notifier: n}
}

func validInput(capacity int) *CreateSlotInput {
	return &CreateSlotInput{
		Sport:     "Football (Soccer)",
		TimeStart: time.Now().Add(48 * time.Hour).Truncate(time.Minute),
		Capacity:  capacity,
		Location:  &models.Point{Type: "Point", Coordinates: []float64{78.3444, 17.43}},
	}
}

func TestCreateSlot_Defaults(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")

	s, err := f.svc.CreateSlot(ctx, alice.ID, validInput(6))
	require.NoError(t, err)

	assert.Equal(t, models.SlotOpen, s.Status)
	assert.Equal(t, []uuid.UUID{alice.ID}, s.PlayerIDs())
	assert.Equal(t, models.SlotPickup, s.Type)
	assert.Equal(t, 90, s.DurationMin)
	assert.Equal(t, models.GenderAny, s.GenderPreference)
	assert.Equal(t, models.FeeSplit, s.FeeModel)
	assert.EqualValues(t, 10, s.VisibilityRadiusKm)
	assert.Equal(t, []SlotEventType{EventSlotCreated}, f.notifier.types())

	got, err := f.svc.GetSlot(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alice.ID}, got.PlayerIDs())
	assert.Equal(t, 1, got.PlayerCount)
}

func TestCreateSlot_Validation(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")

	cases := map[string]func(in *CreateSlotInput){
		"missing sport":      func(in *CreateSlotInput) { in.Sport = " " },
		"missing time":       func(in *CreateSlotInput) { in.TimeStart = time.Time{} },
		"missing capacity":   func(in *CreateSlotInput) { in.Capacity = 0 },
		"missing location":   func(in *CreateSlotInput) { in.Location = nil },
		"capacity one":       func(in *CreateSlotInput) { in.Capacity = 1 },
		"bad coordinates":    func(in *CreateSlotInput) { in.Location.Coordinates = []float64{181, 0} },
		"short coordinates":  func(in *CreateSlotInput) { in.Location.Coordinates = []float64{78} },
		"polygon location":   func(in *CreateSlotInput) { in.Location.Type = "Polygon" },
		"bad type":           func(in *CreateSlotInput) { in.Type = "Scrimmage" },
		"bad gender":         func(in *CreateSlotInput) { in.GenderPreference = "robots" },
		"bad fee model":      func(in *CreateSlotInput) { in.FeeModel = "Free" },
		"negative fee":       func(in *CreateSlotInput) { in.FeeAmount = -1 },
		"inverted skill":     func(in *CreateSlotInput) { in.SkillRequirement = models.Range{Min: testutil.Ptr(5), Max: testutil.Ptr(2)} },
		"unknown venue":      func(in *CreateSlotInput) { in.VenueID = testutil.Ptr(uuid.New()) },
		"duration too long":  func(in *CreateSlotInput) { in.DurationMin = 2000 },
		"negative radius":    func(in *CreateSlotInput) { in.VisibilityRadiusKm = -5 },
		"inverted age group": func(in *CreateSlotInput) { in.AgeGroup = models.Range{Min: testutil.Ptr(40), Max: testutil.Ptr(18)} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput(4)
			mutate(in)
			_, err := f.svc.CreateSlot(ctx, alice.ID, in)
			assert.True(t, appErr.IsCode(err, appErr.CodeInvalid), "got %v", err)
		})
	}

	_, err := f.svc.CreateSlot(ctx, alice.ID, validInput(0))
	assert.ErrorIs(t, err, ErrMissingSlotFields)
}

func TestCreateSlot_WithVenue(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	venue := testutil.CreateVenue(t, f.db, "Gachibowli Stadium Turf")

	in := validInput(4)
	in.VenueID = &venue.ID
	s, err := f.svc.CreateSlot(ctx, alice.ID, in)
	require.NoError(t, err)

	got, err := f.svc.GetSlot(ctx, s.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.Venue)
	assert.Equal(t, "Gachibowli Stadium Turf", got.Venue.Name)
}

func TestGetSlot_NotFound(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetSlot(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.svc.GetSlot(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// Create with capacity 2, B joins and fills it, B leaves and reopens it, the
// creator cancels and later joins are refused.
func TestSlotLifecycleScenario(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")
	c := testutil.CreateUser(t, f.db, "c")

	s, err := f.svc.CreateSlot(ctx, a.ID, validInput(2))
	require.NoError(t, err)
	id := s.ID.String()

	s, err = f.svc.JoinSlot(ctx, id, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, s.PlayerIDs())
	assert.Equal(t, models.SlotFilled, s.Status)
	require.NotNil(t, s.Creator)

	_, err = f.svc.JoinSlot(ctx, id, c.ID)
	assert.ErrorIs(t, err, ErrSlotNotOpen)

	s, err = f.svc.LeaveSlot(ctx, id, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, s.PlayerIDs())
	assert.Equal(t, models.SlotOpen, s.Status)

	_, err = f.svc.LeaveSlot(ctx, id, a.ID)
	assert.ErrorIs(t, err, ErrCreatorCannotLeave)

	_, err = f.svc.CancelSlot(ctx, id, b.ID)
	assert.ErrorIs(t, err, ErrNotSlotCreator)

	s, err = f.svc.CancelSlot(ctx, id, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotCancelled, s.Status)

	_, err = f.svc.CancelSlot(ctx, id, a.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	_, err = f.svc.JoinSlot(ctx, id, c.ID)
	assert.ErrorIs(t, err, ErrSlotNotOpen)

	got, err := f.svc.GetSlot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SlotCancelled, got.Status)
	assert.Equal(t, []uuid.UUID{a.ID}, got.PlayerIDs())

	assert.Equal(t, []SlotEventType{
		EventSlotCreated,
		EventSlotJoined, EventSlotFilled,
		EventSlotLeft,
		EventSlotCancelled,
	}, f.notifier.types())
}

func TestJoinThenLeaveRestoresSlot(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")

	s, err := f.svc.CreateSlot(ctx, a.ID, validInput(3))
	require.NoError(t, err)

	before, err := f.svc.GetSlot(ctx, s.ID.String())
	require.NoError(t, err)

	_, err = f.svc.JoinSlot(ctx, s.ID.String(), b.ID)
	require.NoError(t, err)
	after, err := f.svc.LeaveSlot(ctx, s.ID.String(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, before.PlayerIDs(), after.PlayerIDs())
	assert.Equal(t, before.Status, after.Status)
}

func TestJoinSlot_Errors(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")

	s, err := f.svc.CreateSlot(ctx, a.ID, validInput(3))
	require.NoError(t, err)

	_, err = f.svc.JoinSlot(ctx, s.ID.String(), a.ID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = f.svc.JoinSlot(ctx, uuid.NewString(), a.ID)
	assert.ErrorIs(t, err, ErrSlotNotOpen)

	_, err = f.svc.JoinSlot(ctx, "garbage", a.ID)
	assert.ErrorIs(t, err, ErrSlotNotOpen)

	_, err = f.svc.LeaveSlot(ctx, uuid.NewString(), a.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.svc.CancelSlot(ctx, "garbage", a.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	stranger := testutil.CreateUser(t, f.db, "stranger")
	_, err = f.svc.LeaveSlot(ctx, s.ID.String(), stranger.ID)
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestJoinSlot_ConcurrentNeverExceedsCapacity(t *testing.T) {
	const (
		capacity = 5
		joiners  = 20
	)
	f := newSlotFixture(t)
	ctx := context.Background()
	creator := testutil.CreateUser(t, f.db, "creator")

	users := make([]*models.User, joiners)
	for i := range users {
		users[i] = testutil.CreateUser(t, f.db, "joiner")
	}

	s, err := f.svc.CreateSlot(ctx, creator.ID, validInput(capacity))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
		other    []error
	)
	start := make(chan struct{})
	for _, u := range users {
		wg.Add(1)
		go func(uid uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := f.svc.JoinSlot(ctx, s.ID.String(), uid)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrSlotNotOpen), errors.Is(err, ErrSlotFull):
				rejected++
			default:
				other = append(other, err)
			}
		}(u.ID)
	}
	close(start)
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, capacity-1, ok)
	assert.Equal(t, joiners-(capacity-1), rejected)

	got, err := f.svc.GetSlot(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Len(t, got.Players, capacity)
	assert.Equal(t, capacity, got.PlayerCount)
	assert.Equal(t, models.SlotFilled, got.Status)
	assert.Equal(t, creator.ID, got.Players[0].UserID)
}

func TestListOpenSlots_SportKeyword(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")

	for _, sport := range []string{"Football", "Football (Soccer)", "Cricket"} {
		in := validInput(4)
		in.Sport = sport
		_, err := f.svc.CreateSlot(ctx, a.ID, in)
		require.NoError(t, err)
	}
	filled := validInput(2)
	filled.Sport = "Football (Soccer)"
	fs, err := f.svc.CreateSlot(ctx, a.ID, filled)
	require.NoError(t, err)
	b := testutil.CreateUser(t, f.db, "b")
	_, err = f.svc.JoinSlot(ctx, fs.ID.String(), b.ID)
	require.NoError(t, err)

	got, err := f.svc.ListOpenSlots(ctx, &SlotFilters{Sport: "football (soccer)", RadiusKm: testutil.Ptr(1.0)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Contains(t, s.Sport, "Football")
		assert.Equal(t, models.SlotOpen, s.Status)
	}
	// newest first
	assert.Equal(t, "Football (Soccer)", got[0].Sport)

	all, err := f.svc.ListOpenSlots(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListUserSlots(t *testing.T) {
	f := newSlotFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")

	own, err := f.svc.CreateSlot(ctx, a.ID, validInput(4))
	require.NoError(t, err)
	other, err := f.svc.CreateSlot(ctx, b.ID, validInput(4))
	require.NoError(t, err)
	_, err = f.svc.CreateSlot(ctx, b.ID, validInput(4))
	require.NoError(t, err)

	_, err = f.svc.JoinSlot(ctx, other.ID.String(), a.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelSlot(ctx, own.ID.String(), a.ID)
	require.NoError(t, err)

	got, err := f.svc.ListUserSlots(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, other.ID, got[0].ID)
	assert.Equal(t, own.ID, got[1].ID)
	require.NotNil(t, got[0].Creator)
	assert.Len(t, got[0].Players, 2)
}

func TestAdvanceSchedule(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	f := newSlotFixture(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")

	starting := testutil.CreateSlot(t, f.db, a, testutil.WithStart(now.Add(-30*time.Minute)))
	finished := testutil.CreateSlot(t, f.db, a, testutil.WithStart(now.Add(-2*time.Hour)), testutil.WithStatus(models.SlotOngoing))
	future := testutil.CreateSlot(t, f.db, a, testutil.WithStart(now.Add(time.Hour)))
	cancelled := testutil.CreateSlot(t, f.db, a, testutil.WithStart(now.Add(-time.Hour)), testutil.WithStatus(models.SlotCancelled))

	res, err := f.svc.AdvanceSchedule(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Started: 1, Completed: 1}, res)

	for id, want := range map[uuid.UUID]models.SlotStatus{
		starting.ID:  models.SlotOngoing,
		finished.ID:  models.SlotCompleted,
		future.ID:    models.SlotOpen,
		cancelled.ID: models.SlotCancelled,
	} {
		got, err := f.svc.GetSlot(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, id)
	}

	// A second sweep at the same instant is a no-op.
	res, err = f.svc.AdvanceSchedule(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)

	assert.ElementsMatch(t, []SlotEventType{EventSlotStarted, EventSlotCompleted}, f.notifier.types())
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newSlotFixture(t)
	f.notifier.err = errors.New("nats down")
	a := testutil.CreateUser(t, f.db, "a")

	_, err := f.svc.CreateSlot(context.Background(), a.ID, validInput(2))
	assert.NoError(t, err)
}
