package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenues(t *testing.T) {
	vs, err := Venues()
	require.NoError(t, err)
	require.Len(t, vs, 5)

	first := vs[0]
	assert.Equal(t, "Gachibowli Stadium Turf", first.Name)
	assert.Equal(t, []string{"Football (Soccer)", "Athletics"}, []string(first.Sports))
	assert.Equal(t, 1200.0, first.PricePerHour)
	assert.Equal(t, 20, first.Capacity)
	assert.InDelta(t, 78.3444, first.Location.Lng, 1e-9)
	assert.InDelta(t, 17.43, first.Location.Lat, 1e-9)
}

func TestParseVenuesRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "venues:\n  - name: A\n    address: B\n    coordinates: [1, 2]\n    colour: red\n"},
		{"missing address", "venues:\n  - name: A\n    coordinates: [1, 2]\n"},
		{"bad coordinates", "venues:\n  - name: A\n    address: B\n    coordinates: [200, 2]\n"},
		{"short coordinates", "venues:\n  - name: A\n    address: B\n    coordinates: [1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVenues([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	vs, err := ParseVenues([]byte("venues:\n  - name: A\n    address: B\n    coordinates: [1, 2]\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, vs[0].Capacity)
}
