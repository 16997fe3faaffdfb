package services

import (
	"context"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
)

// MaxVenues caps the venue dump.
const MaxVenues = 1000

type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var sportsCatalog = []Sport{
	{ID: "s1", Name: "Football (Soccer)"},
	{ID: "s2", Name: "Cricket"},
	{ID: "s3", Name: "Tennis"},
	{ID: "s4", Name: "Volleyball"},
}

type MetaService interface {
	ListSports() []Sport
	ListVenues(ctx context.Context) ([]models.Venue, error)
}

type metaService struct {
	venues repository.VenueRepository
}

func NewMetaService(venues repository.VenueRepository) MetaService {
	return &metaService{venues: venues}
}

func (s *metaService) ListSports() []Sport {
	out := make([]Sport, len(sportsCatalog))
	copy(out, sportsCatalog)
	return out
}

func (s *metaService) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return s.venues.List(ctx, MaxVenues)
}
