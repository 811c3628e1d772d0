package clustering

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/util"
	"golang.org/x/exp/rand"
)

const (
	kmeansMaxIterations = 100
	kmeansRestarts      = 10
	kmeansTolerance     = 1e-6
)

// kMeans partitions 2-D points into k clusters and returns one label per
// point. The RNG is seeded by the caller, so identical input always yields
// identical labels. Runs kmeansRestarts independent k-means++ initializations
// and keeps the assignment with the lowest inertia.
//
// Fails with ErrInsufficientData when the input is degenerate (fewer points
// than clusters, or not enough distinct points to seed k centroids); callers
// downgrade that to a balanced split.
func kMeans(points [][2]float64, k int, seed uint64) ([]int, error) {
	if k <= 0 || len(points) < k {
		return nil, util.WrapErrorf(nil, util.ErrInsufficientData,
			"kmeans: %d points cannot form %d clusters", len(points), k)
	}

	rng := rand.New(rand.NewSource(seed))

	var (
		bestLabels  []int
		bestInertia = math.Inf(1)
	)

	for restart := 0; restart < kmeansRestarts; restart++ {
		labels, inertia, err := kMeansOnce(points, k, rng)
		if err != nil {
			return nil, err
		}
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}

	return bestLabels, nil
}

func kMeansOnce(points [][2]float64, k int, rng *rand.Rand) ([]int, float64, error) {
	centroids, err := seedCentroidsPlusPlus(points, k, rng)
	if err != nil {
		return nil, 0, err
	}

	labels := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		for i, p := range points {
			labels[i] = nearestCentroid(p, centroids)
		}

		next := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			next[labels[i]][0] += p[0]
			next[labels[i]][1] += p[1]
			counts[labels[i]]++
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// A starved cluster means the seeding collapsed; the
				// caller falls back rather than emitting short groups.
				return nil, 0, util.WrapErrorf(nil, util.ErrInsufficientData,
					"kmeans: cluster %d starved", c)
			}
			next[c][0] /= float64(counts[c])
			next[c][1] /= float64(counts[c])
			shift += squaredDistance(next[c], centroids[c])
			centroids[c] = next[c]
		}

		if shift < kmeansTolerance {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}

	return labels, inertia, nil
}

// seedCentroidsPlusPlus picks k initial centroids with the k-means++ scheme:
// each next centroid is drawn with probability proportional to its squared
// distance from the nearest centroid chosen so far.
func seedCentroidsPlusPlus(points [][2]float64, k int, rng *rand.Rand) ([][2]float64, error) {
	centroids := make([][2]float64, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	for len(centroids) < k {
		weights := make([]float64, len(points))
		total := 0.0
		for i, p := range points {
			minDist := math.Inf(1)
			for _, c := range centroids {
				if d := squaredDistance(p, c); d < minDist {
					minDist = d
				}
			}
			weights[i] = minDist
			total += minDist
		}

		if total == 0 {
			return nil, util.WrapErrorf(nil, util.ErrInsufficientData,
				"kmeans: fewer than %d distinct points", k)
		}

		target := rng.Float64() * total
		cumulative := 0.0
		picked := len(points) - 1
		for i, w := range weights {
			cumulative += w
			if cumulative >= target {
				picked = i
				break
			}
		}
		centroids = append(centroids, points[picked])
	}

	return centroids, nil
}

func nearestCentroid(p [2]float64, centroids [][2]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func squaredDistance(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
