package spatialindex

import (
	"testing"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/stretchr/testify/assert"
)

func TestSearchWithinDegrees(t *testing.T) {
	points := []geo.Coordinate{
		geo.NewCoordinate(120.200, 23.000), // 0: query point itself
		geo.NewCoordinate(120.2005, 23.000), // 1: inside
		geo.NewCoordinate(120.200, 23.0008), // 2: inside
		geo.NewCoordinate(120.202, 23.000),  // 3: outside
		// 4: inside the bounding box but outside the circle
		geo.NewCoordinate(120.2009, 23.0009),
	}
	idx := NewPointIndex(points)
	assert.Equal(t, 5, idx.Len())

	got := idx.SearchWithinDegrees(points[0], 0.001)
	assert.ElementsMatch(t, []int{0, 1, 2}, got)
}

func TestSearchWithinDegreesEmpty(t *testing.T) {
	idx := NewPointIndex(nil)
	assert.Empty(t, idx.SearchWithinDegrees(geo.NewCoordinate(120.2, 23.0), 0.01))
}
