package clustering

import (
	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/fieldops/surveyroute/pkg/spatialindex"
)

// noiseLabel marks points not assigned to any dense region.
const noiseLabel = -1

// dbscan labels each point with a cluster id >= 0 or noiseLabel. eps is a
// planar lon/lat radius in degrees; a point needs at least minPts neighbors
// (itself included) inside eps to seed or extend a dense region.
// Neighborhoods are answered by an r-tree instead of a full scan.
func dbscan(points []geo.Coordinate, eps float64, minPts int) []int {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noiseLabel
	}

	index := spatialindex.NewPointIndex(points)
	visited := make([]bool, n)
	nextCluster := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := index.SearchWithinDegrees(points[i], eps)
		if len(neighbors) < minPts {
			continue // stays noise unless a later expansion claims it
		}

		labels[i] = nextCluster
		expandCluster(index, points, neighbors, labels, visited, nextCluster, eps, minPts)
		nextCluster++
	}

	return labels
}

func expandCluster(index *spatialindex.PointIndex, points []geo.Coordinate,
	frontier []int, labels []int, visited []bool, cluster int, eps float64, minPts int) {

	for cursor := 0; cursor < len(frontier); cursor++ {
		j := frontier[cursor]

		if !visited[j] {
			visited[j] = true
			neighbors := index.SearchWithinDegrees(points[j], eps)
			if len(neighbors) >= minPts {
				frontier = append(frontier, neighbors...)
			}
		}

		// Border points keep the first cluster that reaches them.
		if labels[j] == noiseLabel {
			labels[j] = cluster
		}
	}
}
