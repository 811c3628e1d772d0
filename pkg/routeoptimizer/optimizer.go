// Package routeoptimizer orders the addresses of one group into a short
// visiting tour and computes its distance/time metrics.
//
// Every optimization is a pure function of its input list; nothing is shared
// between invocations, which is what lets the engine optimize groups in
// parallel. Members without coordinates are handled by a fixed policy: any
// leg touching a coordinate-less address has length zero, so such members
// ride along wherever the tour picks them up without distorting the rest of
// the tour. The metrics of a group containing them are correspondingly
// optimistic.
package routeoptimizer

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/util"
)

type Algorithm string

const (
	NearestNeighbor Algorithm = "nearest_neighbor"
	TwoOpt          Algorithm = "two_opt"
	Genetic         Algorithm = "genetic"
)

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case NearestNeighbor, TwoOpt, Genetic:
		return Algorithm(s), nil
	}
	return "", util.WrapErrorf(nil, util.ErrBadParamInput,
		"unknown route optimization algorithm %q", s)
}

// OptimizeRoute returns the member ids in visiting order. Lists of two or
// fewer are already optimal and come back as-is.
func OptimizeRoute(addrs []model.Address, algo Algorithm) []int {
	if len(addrs) <= 2 {
		ids := make([]int, len(addrs))
		for i := range addrs {
			ids[i] = addrs[i].ID
		}
		return ids
	}

	w := buildDistanceBuffer(addrs)

	var tour []int
	switch algo {
	case TwoOpt:
		tour = twoOpt(addrs, w, nearestNeighborTour(addrs, w))
	case Genetic:
		tour = geneticTour(addrs, w)
	default:
		tour = nearestNeighborTour(addrs, w)
	}

	ids := make([]int, len(tour))
	for i, idx := range tour {
		ids[i] = addrs[idx].ID
	}
	return ids
}

// buildDistanceBuffer precomputes pairwise distances into a dense buffer
// w[i*n+j] so the search loops stay allocation-free. Pairs with a missing
// coordinate get distance zero.
func buildDistanceBuffer(addrs []model.Address) []float64 {
	n := len(addrs)
	w := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, ok := addrs[i].DistanceTo(&addrs[j])
			if !ok {
				d = 0
			}
			w[i*n+j] = d
			w[j*n+i] = d
		}
	}
	return w
}

// nearestNeighborTour starts at the southernmost address (a deterministic,
// reproducible choice) and repeatedly hops to the nearest unvisited one,
// breaking ties by iteration order. Returned values are indices into addrs.
func nearestNeighborTour(addrs []model.Address, w []float64) []int {
	n := len(addrs)

	start := 0
	startLat := math.Inf(1)
	for i := range addrs {
		if addrs[i].Lat != nil && *addrs[i].Lat < startLat {
			startLat = *addrs[i].Lat
			start = i
		}
	}

	visited := make([]bool, n)
	visited[start] = true
	tour := make([]int, 1, n)
	tour[0] = start

	current := start
	for len(tour) < n {
		next := -1
		nextDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if d := w[current*n+j]; d < nextDist {
				nextDist = d
				next = j
			}
		}
		visited[next] = true
		tour = append(tour, next)
		current = next
	}

	return tour
}

// twoOpt improves an open tour by first-improvement segment reversal: any
// reversal that strictly shortens the tour is applied and the scan restarts;
// a full scan with no improvement is a local optimum. The result is never
// longer than the seed tour.
func twoOpt(addrs []model.Address, w []float64, seed []int) []int {
	n := len(seed)
	tour := make([]int, n)
	copy(tour, seed)

	at := func(u, v int) float64 { return w[tour[u]*len(addrs)+tour[v]] }

	improved := true
	for improved {
		improved = false
		for i := 1; i < n-1 && !improved; i++ {
			for j := i + 1; j < n; j++ {
				removed := at(i-1, i)
				added := at(i-1, j)
				if j < n-1 {
					removed += at(j, j+1)
					added += at(i, j+1)
				}
				if added < removed {
					reverseSegment(tour, i, j)
					improved = true
					break
				}
			}
		}
	}

	return tour
}

func reverseSegment(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

// tourLength sums the consecutive-leg distances of an open tour over the
// distance buffer.
func tourLength(tour []int, w []float64, n int) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		total += w[tour[i]*n+tour[i+1]]
	}
	return total
}
