package spatialindex

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/tidwall/rtree"
)

// PointIndex is an r-tree over coordinate points, used to answer the
// eps-neighborhood queries of density clustering without scanning every
// point. Stored values are indices into the caller's point slice.
type PointIndex struct {
	tr     *rtree.RTreeG[int]
	points []geo.Coordinate
}

func NewPointIndex(points []geo.Coordinate) *PointIndex {
	var tr rtree.RTreeG[int]
	for i, p := range points {
		tr.Insert([2]float64{p.Lon, p.Lat}, [2]float64{p.Lon, p.Lat}, i)
	}
	return &PointIndex{
		tr:     &tr,
		points: points,
	}
}

// SearchWithinDegrees returns the indices of all points whose planar
// lon/lat distance from the query point is at most eps degrees. The r-tree
// prunes with the bounding box; the euclidean check trims the corners.
func (idx *PointIndex) SearchWithinDegrees(q geo.Coordinate, eps float64) []int {
	results := make([]int, 0, 8)

	idx.tr.Search(
		[2]float64{q.Lon - eps, q.Lat - eps},
		[2]float64{q.Lon + eps, q.Lat + eps},
		func(min, max [2]float64, i int) bool {
			p := idx.points[i]
			dLon := p.Lon - q.Lon
			dLat := p.Lat - q.Lat
			if math.Sqrt(dLon*dLon+dLat*dLat) <= eps {
				results = append(results, i)
			}
			return true
		})

	return results
}

func (idx *PointIndex) Len() int {
	return len(idx.points)
}
