package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type SlotsHandler struct {
	slots    services.SlotService
	validate Validator
}

func NewSlotsHandler(slots services.SlotService, v Validator) *SlotsHandler {
	return &SlotsHandler{slots: slots, validate: v}
}

// Create godoc
// @Summary   Create a slot with the caller as first player
// @Tags      slots
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body types.CreateSlotRequest true "Slot"
// @Success   201 {object} types.APIResponse{data=models.Slot}
// @Failure   400 {object} types.APIResponse
// @Router    /slots [post]
func (h *SlotsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateSlotRequest
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	slot, err := h.slots.CreateSlot(r.Context(), uid, req.ToInput())
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// List godoc
// @Summary   Browse open slots, newest first
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Param     sport            query string false "Sport keyword"
// @Param     genderPreference query string false "male, female or any"
// @Param     minSkill         query int    false "Lowest skill the caller accepts"
// @Param     maxSkill         query int    false "Highest skill the caller accepts"
// @Param     lat              query number false "Ignored"
// @Param     lng              query number false "Ignored"
// @Param     radiusKm         query number false "Ignored"
// @Success   200 {object} types.APIResponse{data=[]models.Slot}
// @Failure   400 {object} types.APIResponse
// @Router    /slots [get]
func (h *SlotsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseSlotFilters(r.URL.Query())
	if err != nil {
		types.WriteInvalid(w, r, err.Error())
		return
	}
	slots, err := h.slots.ListOpenSlots(r.Context(), f)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeList(w, slots, len(slots))
}

func parseSlotFilters(q url.Values) (*services.SlotFilters, error) {
	f := &services.SlotFilters{
		Sport:            q.Get("sport"),
		GenderPreference: q.Get("genderPreference"),
	}
	var err error
	if f.MinSkill, err = optionalInt(q, "minSkill"); err != nil {
		return nil, err
	}
	if f.MaxSkill, err = optionalInt(q, "maxSkill"); err != nil {
		return nil, err
	}
	if f.Lat, err = optionalFloat(q, "lat"); err != nil {
		return nil, err
	}
	if f.Lng, err = optionalFloat(q, "lng"); err != nil {
		return nil, err
	}
	if f.RadiusKm, err = optionalFloat(q, "radiusKm"); err != nil {
		return nil, err
	}
	return f, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// Mine godoc
// @Summary   Slots the caller created or joined
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse{data=[]models.Slot}
// @Router    /slots/my-slots [get]
func (h *SlotsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	slots, err := h.slots.ListUserSlots(r.Context(), uid)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeList(w, slots, len(slots))
}

// Get godoc
// @Summary   Slot details with creator, players and venue
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Slot ID"
// @Success   200 {object} types.APIResponse{data=models.Slot}
// @Failure   404 {object} types.APIResponse
// @Router    /slots/{id} [get]
func (h *SlotsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slot, err := h.slots.GetSlot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

type slotAction func(ctx context.Context, slotID string, userID uuid.UUID) (*models.Slot, error)

func (h *SlotsHandler) action(w http.ResponseWriter, r *http.Request, do slotAction, message string) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	slot, err := do(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SlotActionResponse{Message: message, Slot: slot})
}

// Join godoc
// @Summary   Join an open slot
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Slot ID"
// @Success   200 {object} types.APIResponse{data=types.SlotActionResponse}
// @Failure   400 {object} types.APIResponse
// @Router    /slots/{id}/join [post]
func (h *SlotsHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.slots.JoinSlot, "Successfully joined the slot.")
}

// Leave godoc
// @Summary   Leave a slot
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Slot ID"
// @Success   200 {object} types.APIResponse{data=types.SlotActionResponse}
// @Failure   400 {object} types.APIResponse
// @Failure   404 {object} types.APIResponse
// @Router    /slots/{id}/leave [post]
func (h *SlotsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.slots.LeaveSlot, "Successfully left the slot.")
}

// Cancel godoc
// @Summary   Cancel a slot (creator only)
// @Tags      slots
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Slot ID"
// @Success   200 {object} types.APIResponse{data=types.SlotActionResponse}
// @Failure   400 {object} types.APIResponse
// @Failure   403 {object} types.APIResponse
// @Failure   404 {object} types.APIResponse
// @Router    /slots/{id}/cancel [post]
func (h *SlotsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.slots.CancelSlot, "Slot successfully cancelled.")
}
