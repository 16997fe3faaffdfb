// Package seed holds the sample data loaded by the migrate command.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/CoderHarshaVardhan/playX/internal/models"
)

//go:embed venues.yaml
var venuesYAML []byte

type venueFile struct {
	Venues []venueSeed `yaml:"venues"`
}

type venueSeed struct {
	Name         string    `yaml:"name"`
	Address      string    `yaml:"address"`
	Sport        []string  `yaml:"sport"`
	PricePerHour float64   `yaml:"pricePerHour"`
	Capacity     int       `yaml:"capacity"`
	Coordinates  []float64 `yaml:"coordinates"`
}

// Venues returns the embedded sample venues.
func Venues() ([]models.Venue, error) {
	return ParseVenues(venuesYAML)
}

// ParseVenues decodes a venue seed document. Unknown keys are rejected.
func ParseVenues(data []byte) ([]models.Venue, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f venueFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode venue seed: %w", err)
	}

	out := make([]models.Venue, 0, len(f.Venues))
	for i, s := range f.Venues {
		if s.Name == "" || s.Address == "" {
			return nil, fmt.Errorf("venue %d: name and address are required", i)
		}
		loc, err := models.Point{Type: "Point", Coordinates: s.Coordinates}.ToGeoPoint()
		if err != nil {
			return nil, fmt.Errorf("venue %q: %w", s.Name, err)
		}
		capacity := s.Capacity
		if capacity == 0 {
			capacity = 10
		}
		out = append(out, models.Venue{
			Name:         s.Name,
			Address:      s.Address,
			Sports:       s.Sport,
			PricePerHour: s.PricePerHour,
			Capacity:     capacity,
			Location:     loc,
		})
	}
	return out, nil
}
