package routeoptimizer

import (
	"github.com/fieldops/surveyroute/pkg/model"
)

const (
	walkingSpeedKmh = 5.0
	minutesPerStop  = 3
)

// RouteMetrics summarizes one optimized tour.
type RouteMetrics struct {
	TotalDistance  float64 `json:"total_distance"` // meters
	EstimatedTime  int     `json:"estimated_time"` // minutes
	AvgLegDistance float64 `json:"avg_distance_between_stops"`
	MaxLegDistance float64 `json:"max_distance_between_stops"`
}

// CalculateRouteMetrics walks routeOrder and sums consecutive-leg great
// circle distances. Time is walking at 5 km/h plus a fixed 3 minutes per
// stop, truncated to whole minutes. One stop or fewer yields all zeros.
func CalculateRouteMetrics(addrs []model.Address, routeOrder []int) RouteMetrics {
	if len(routeOrder) <= 1 {
		return RouteMetrics{}
	}

	byID := make(map[int]*model.Address, len(addrs))
	for i := range addrs {
		byID[addrs[i].ID] = &addrs[i]
	}

	var metrics RouteMetrics
	legs := 0
	for i := 0; i+1 < len(routeOrder); i++ {
		a, okA := byID[routeOrder[i]]
		b, okB := byID[routeOrder[i+1]]
		if !okA || !okB {
			continue
		}
		d, ok := a.DistanceTo(b)
		if !ok {
			d = 0
		}
		metrics.TotalDistance += d
		if d > metrics.MaxLegDistance {
			metrics.MaxLegDistance = d
		}
		legs++
	}

	if legs > 0 {
		metrics.AvgLegDistance = metrics.TotalDistance / float64(legs)
	}

	walkingMinutes := metrics.TotalDistance / 1000.0 / walkingSpeedKmh * 60.0
	metrics.EstimatedTime = int(walkingMinutes) + len(routeOrder)*minutesPerStop

	return metrics
}

// Comparison holds one algorithm's route and metrics on a shared input.
type Comparison struct {
	Route   []int        `json:"route"`
	Metrics RouteMetrics `json:"metrics"`
}

// CompareAlgorithms runs all three algorithms on the same addresses for
// diagnostic comparison. The input list is never mutated.
func CompareAlgorithms(addrs []model.Address) map[Algorithm]Comparison {
	results := make(map[Algorithm]Comparison, 3)
	for _, algo := range []Algorithm{NearestNeighbor, TwoOpt, Genetic} {
		route := OptimizeRoute(addrs, algo)
		results[algo] = Comparison{
			Route:   route,
			Metrics: CalculateRouteMetrics(addrs, route),
		}
	}
	return results
}
