package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

type staticAuth map[string]uuid.UUID

func (a staticAuth) Authenticate(token string) (uuid.UUID, error) {
	if id, ok := a[token]; ok {
		return id, nil
	}
	return uuid.Nil, services.ErrUnauthenticated
}

type slotSet map[uuid.UUID]bool

func (s slotSet) GetSlot(_ context.Context, id string) (*models.Slot, error) {
	uid, err := uuid.Parse(id)
	if err != nil || !s[uid] {
		return nil, services.ErrSlotNotFound
	}
	return &models.Slot{ID: uid, Status: models.SlotOpen}, nil
}

func TestMemoryBroker(t *testing.T) {
	b := NewMemoryBroker()

	var got []string
	sub, err := b.Subscribe("slots.a", func(d []byte) { got = append(got, string(d)) })
	require.NoError(t, err)

	require.NoError(t, b.Publish("slots.a", []byte("one")))
	require.NoError(t, b.Publish("slots.b", []byte("other")))
	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, b.Publish("slots.a", []byte("two")))

	assert.Equal(t, []string{"one"}, got)
	assert.Zero(t, b.subscribers("slots.a"))
}

func TestNotifierPublish(t *testing.T) {
	b := NewMemoryBroker()
	n := NewNotifier(b)
	slotID, userID := uuid.New(), uuid.New()

	var raw []byte
	_, err := b.Subscribe(SlotSubject(slotID), func(d []byte) { raw = d })
	require.NoError(t, err)

	ev := services.SlotEvent{
		Type:        services.EventSlotJoined,
		SlotID:      slotID,
		UserID:      &userID,
		Status:      models.SlotFilled,
		PlayerCount: 4,
		At:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, n.Publish(context.Background(), ev))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "slot.joined", decoded["type"])
	assert.Equal(t, slotID.String(), decoded["slotId"])
	assert.Equal(t, "Filled", decoded["status"])
	assert.EqualValues(t, 4, decoded["playerCount"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(n.Publish(ctx, ev), context.Canceled))
}

func newRoomServer(t *testing.T, b Broker, auth services.Authenticator, slots SlotFinder) *httptest.Server {
	t.Helper()
	logger.Use(zap.NewNop())

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/ws/slots/{id}", NewSlotRoomHandler(b, auth, slots, []string{"*"}, DefaultWSConfig()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestSlotRoomForwardsEvents(t *testing.T) {
	b := NewMemoryBroker()
	userID, slotID := uuid.New(), uuid.New()
	srv := newRoomServer(t, b, staticAuth{"good": userID}, slotSet{slotID: true})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/slots/"+slotID.String()+"?token=good"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var welcome map[string]any
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "welcome", welcome["type"])
	assert.Equal(t, slotID.String(), welcome["slotId"])

	require.NoError(t, NewNotifier(b).Publish(context.Background(), services.SlotEvent{
		Type:        services.EventSlotCancelled,
		SlotID:      slotID,
		Status:      models.SlotCancelled,
		PlayerCount: 2,
		At:          time.Now().UTC(),
	}))

	var ev services.SlotEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, services.EventSlotCancelled, ev.Type)
	assert.Equal(t, models.SlotCancelled, ev.Status)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return b.subscribers(SlotSubject(slotID)) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSlotRoomRejects(t *testing.T) {
	b := NewMemoryBroker()
	known := uuid.New()
	srv := newRoomServer(t, b, staticAuth{"good": uuid.New()}, slotSet{known: true})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/slots/"+known.String()+"?token=bad"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/slots/not-a-uuid?token=good"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// well-formed but unknown ids never reach the broker
	unknown := uuid.New()
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/slots/"+unknown.String()+"?token=good"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, b.subscribers(SlotSubject(unknown)))
}

type failingFinder struct{}

func (failingFinder) GetSlot(context.Context, string) (*models.Slot, error) {
	return nil, errors.New("connection reset")
}

func TestSlotRoomLookupFailure(t *testing.T) {
	srv := newRoomServer(t, NewMemoryBroker(), staticAuth{"good": uuid.New()}, failingFinder{})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/slots/"+uuid.NewString()+"?token=good"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}
