package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineMeters(t *testing.T) {
	testCases := []struct {
		name string
		a    Coordinate
		b    Coordinate
		want float64
		tol  float64
	}{
		{
			name: "coincident points",
			a:    NewCoordinate(120.2, 23.0),
			b:    NewCoordinate(120.2, 23.0),
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of latitude",
			a:    NewCoordinate(120.0, 23.0),
			b:    NewCoordinate(120.0, 24.0),
			want: 111195, // 2*pi*6371000/360
			tol:  50,
		},
		{
			name: "tainan to kaohsiung",
			a:    NewCoordinate(120.2270, 22.9999),
			b:    NewCoordinate(120.3014, 22.6273),
			want: 42100,
			tol:  500,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMeters(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, tt.tol)
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := NewCoordinate(120.19, 22.99)
	b := NewCoordinate(120.31, 23.12)

	assert.InDelta(t, HaversineMeters(a, b), HaversineMeters(b, a), 1e-9)
}

func TestCentroid(t *testing.T) {
	points := []Coordinate{
		NewCoordinate(120.0, 23.0),
		NewCoordinate(120.2, 23.2),
		NewCoordinate(120.4, 23.4),
	}

	center, err := Centroid(points)
	require.NoError(t, err)
	assert.InDelta(t, 120.2, center.Lon, 1e-9)
	assert.InDelta(t, 23.2, center.Lat, 1e-9)
}

func TestCentroidEmpty(t *testing.T) {
	_, err := Centroid(nil)
	require.Error(t, err)
}

func TestCompactness(t *testing.T) {
	assert.Zero(t, Compactness(nil))
	assert.Zero(t, Compactness([]Coordinate{NewCoordinate(120.0, 23.0)}))

	// Two points: centroid sits midway, so compactness is half the
	// pairwise distance.
	a := NewCoordinate(120.0, 23.0)
	b := NewCoordinate(120.0, 23.02)
	want := HaversineMeters(a, b) / 2
	assert.InDelta(t, want, Compactness([]Coordinate{a, b}), 1.0)
}

func TestBound(t *testing.T) {
	points := []Coordinate{
		NewCoordinate(120.1, 23.3),
		NewCoordinate(120.5, 22.9),
		NewCoordinate(120.3, 23.1),
	}

	box, err := Bound(points)
	require.NoError(t, err)
	assert.InDelta(t, 120.1, box.MinLon, 1e-6)
	assert.InDelta(t, 22.9, box.MinLat, 1e-6)
	assert.InDelta(t, 120.5, box.MaxLon, 1e-6)
	assert.InDelta(t, 23.3, box.MaxLat, 1e-6)

	_, err = Bound(nil)
	require.Error(t, err)
}

func TestHaversineAgainstEquator(t *testing.T) {
	// A degree of longitude at the equator spans the same ground distance
	// as a degree of latitude anywhere.
	dLon := HaversineMeters(NewCoordinate(10.0, 0.0), NewCoordinate(11.0, 0.0))
	dLat := HaversineMeters(NewCoordinate(10.0, 0.0), NewCoordinate(10.0, 1.0))
	if math.Abs(dLon-dLat) > 1 {
		t.Errorf("equator lon degree %v != lat degree %v", dLon, dLat)
	}
}
