// Package client is a typed Go client for the playX HTTP API.
//
// Authentication is explicit: calls that need a signed-in user take a
// Session, which Login returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

// Session identifies a signed-in user.
type Session struct {
	Token  string
	UserID uuid.UUID
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("playx: %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SlotAction is the result of join, leave and cancel.
type SlotAction struct {
	Message string      `json:"message"`
	Slot    models.Slot `json:"slot"`
}

// SlotQuery mirrors the browse filters. Zero values are omitted.
type SlotQuery struct {
	Sport            string
	GenderPreference string
	MinSkill         *int
	MaxSkill         *int
}

func (q SlotQuery) values() url.Values {
	v := url.Values{}
	if q.Sport != "" {
		v.Set("sport", q.Sport)
	}
	if q.GenderPreference != "" {
		v.Set("genderPreference", q.GenderPreference)
	}
	if q.MinSkill != nil {
		v.Set("minSkill", strconv.Itoa(*q.MinSkill))
	}
	if q.MaxSkill != nil {
		v.Set("maxSkill", strconv.Itoa(*q.MaxSkill))
	}
	return v
}

func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (string, error) {
	var out types.MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out)
	return out.Message, err
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var out types.MessageResponse
	err := c.do(ctx, http.MethodGet, "/auth/verify/"+url.PathEscape(token), nil, nil, &out)
	return out.Message, err
}

// Login signs in and returns the session to pass to later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out services.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, types.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, UserID: out.User.ID}, nil
}

func (c *Client) Me(ctx context.Context, s *Session) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, s *Session, req types.UpdateProfileRequest) (*models.User, error) {
	var out struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/profile", s, req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Sports(ctx context.Context, s *Session) ([]services.Sport, error) {
	var out []services.Sport
	err := c.do(ctx, http.MethodGet, "/meta/sports", s, nil, &out)
	return out, err
}

func (c *Client) Venues(ctx context.Context, s *Session) ([]models.Venue, error) {
	var out []models.Venue
	err := c.do(ctx, http.MethodGet, "/meta/venues", s, nil, &out)
	return out, err
}

func (c *Client) CreateSlot(ctx context.Context, s *Session, req types.CreateSlotRequest) (*models.Slot, error) {
	var out models.Slot
	if err := c.do(ctx, http.MethodPost, "/slots", s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSlots(ctx context.Context, s *Session, q SlotQuery) ([]models.Slot, error) {
	path := "/slots"
	if qs := q.values().Encode(); qs != "" {
		path += "?" + qs
	}
	var out []models.Slot
	err := c.do(ctx, http.MethodGet, path, s, nil, &out)
	return out, err
}

func (c *Client) MySlots(ctx context.Context, s *Session) ([]models.Slot, error) {
	var out []models.Slot
	err := c.do(ctx, http.MethodGet, "/slots/my-slots", s, nil, &out)
	return out, err
}

func (c *Client) GetSlot(ctx context.Context, s *Session, id string) (*models.Slot, error) {
	var out models.Slot
	if err := c.do(ctx, http.MethodGet, "/slots/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinSlot(ctx context.Context, s *Session, id string) (*SlotAction, error) {
	return c.slotAction(ctx, s, id, "join")
}

func (c *Client) LeaveSlot(ctx context.Context, s *Session, id string) (*SlotAction, error) {
	return c.slotAction(ctx, s, id, "leave")
}

func (c *Client) CancelSlot(ctx context.Context, s *Session, id string) (*SlotAction, error) {
	return c.slotAction(ctx, s, id, "cancel")
}

func (c *Client) slotAction(ctx context.Context, s *Session, id, action string) (*SlotAction, error) {
	var out SlotAction
	if err := c.do(ctx, http.MethodPost, "/slots/"+url.PathEscape(id)+"/"+action, s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *types.APIError `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, s *Session, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&env); err != nil {
		return &Error{Status: resp.StatusCode, Code: "bad_response", Message: err.Error()}
	}
	if resp.StatusCode >= 300 || !env.Success {
		e := &Error{Status: resp.StatusCode, Code: "unknown", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			e.Code, e.Message = env.Error.Code, env.Error.Message
		}
		return e
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
