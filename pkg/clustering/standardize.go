package clustering

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/fieldops/surveyroute/pkg/util"
)

// weightedStandardize maps WGS84 coordinates into the feature space the
// clustering distance runs in. Longitude is scaled by cos(mean latitude)
// first, because a degree of longitude covers less ground at higher
// latitudes; both columns are then standardized to zero mean and unit
// variance so neither axis dominates.
func weightedStandardize(coords []geo.Coordinate) [][2]float64 {
	n := len(coords)
	points := make([][2]float64, n)
	if n == 0 {
		return points
	}

	meanLat := 0.0
	for _, c := range coords {
		meanLat += c.Lat
	}
	meanLat /= float64(n)
	latWeight := math.Cos(util.DegreeToRadians(meanLat))

	for i, c := range coords {
		points[i] = [2]float64{c.Lon * latWeight, c.Lat}
	}

	for col := 0; col < 2; col++ {
		mean := 0.0
		for i := range points {
			mean += points[i][col]
		}
		mean /= float64(n)

		variance := 0.0
		for i := range points {
			d := points[i][col] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(n))
		if std == 0 {
			std = 1
		}

		for i := range points {
			points[i][col] = (points[i][col] - mean) / std
		}
	}

	return points
}
