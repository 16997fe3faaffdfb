package handlers

import (
	"net/http"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type MetaHandler struct {
	meta services.MetaService
}

func NewMetaHandler(meta services.MetaService) *MetaHandler {
	return &MetaHandler{meta: meta}
}

// Sports godoc
// @Summary   Sport catalog
// @Tags      meta
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse{data=[]services.Sport}
// @Router    /meta/sports [get]
func (h *MetaHandler) Sports(w http.ResponseWriter, r *http.Request) {
	sports := h.meta.ListSports()
	writeList(w, sports, len(sports))
}

// Venues godoc
// @Summary   Venue catalog
// @Tags      meta
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse{data=[]models.Venue}
// @Router    /meta/venues [get]
func (h *MetaHandler) Venues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.meta.ListVenues(r.Context())
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeList(w, venues, len(venues))
}
