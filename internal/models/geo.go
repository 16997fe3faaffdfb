package models

import (
	"encoding/json"
	"fmt"
)

// GeoPoint is a longitude/latitude pair stored as two columns and
// serialized as a GeoJSON Point.
type GeoPoint struct {
	Lng float64 `gorm:"column:lng;not null;default:0"`
	Lat float64 `gorm:"column:lat;not null;default:0"`
}

// Point is the GeoJSON wire form accepted from clients.
type Point struct {
	Type        string    `json:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// ToGeoPoint converts a GeoJSON point. An empty type is read as "Point".
func (p Point) ToGeoPoint() (GeoPoint, error) {
	if p.Type != "" && p.Type != "Point" {
		return GeoPoint{}, fmt.Errorf("location type must be Point, got %q", p.Type)
	}
	if len(p.Coordinates) != 2 {
		return GeoPoint{}, fmt.Errorf("coordinates must be [lng, lat]")
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("coordinates out of range: [%v, %v]", lng, lat)
	}
	return GeoPoint{Lng: lng, Lat: lat}, nil
}

func (g GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(Point{Type: "Point", Coordinates: []float64{g.Lng, g.Lat}})
}

func (g *GeoPoint) UnmarshalJSON(b []byte) error {
	var p Point
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	gp, err := p.ToGeoPoint()
	if err != nil {
		return err
	}
	*g = gp
	return nil
}

// UserLocation is a point plus a free-text address.
type UserLocation struct {
	GeoPoint `gorm:"embedded"`
	Address  string `gorm:"column:address;not null;default:''"`
}

func (l UserLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
		Address     string    `json:"address"`
	}{"Point", []float64{l.Lng, l.Lat}, l.Address})
}

func (l *UserLocation) UnmarshalJSON(b []byte) error {
	var raw struct {
		Coordinates []float64 `json:"coordinates"`
		Address     string    `json:"address"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.Address = raw.Address
	if len(raw.Coordinates) == 0 {
		l.GeoPoint = GeoPoint{}
		return nil
	}
	gp, err := Point{Coordinates: raw.Coordinates}.ToGeoPoint()
	if err != nil {
		return err
	}
	l.GeoPoint = gp
	return nil
}
