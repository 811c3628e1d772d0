package routeoptimizer

import (
	"fmt"
	"testing"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(id int, lon, lat float64) model.Address {
	return model.Address{ID: id, Lon: &lon, Lat: &lat}
}

func addrNoCoords(id int) model.Address {
	return model.Address{ID: id}
}

// unitSquare is four corners roughly 111 meters apart, listed so that visiting
// them in input order crosses a diagonal.
func unitSquare() []model.Address {
	return []model.Address{
		addr(1, 120.2000, 23.0000),
		addr(2, 120.2010, 23.0010), // diagonal from 1
		addr(3, 120.2010, 23.0000),
		addr(4, 120.2000, 23.0010),
	}
}

func routeLength(addrs []model.Address, route []int) float64 {
	return CalculateRouteMetrics(addrs, route).TotalDistance
}

func assertPermutation(t *testing.T, addrs []model.Address, route []int) {
	t.Helper()
	want := make([]int, len(addrs))
	for i := range addrs {
		want[i] = addrs[i].ID
	}
	assert.ElementsMatch(t, want, route, "route must visit every id exactly once")
}

func TestOptimizeRouteSmallInputs(t *testing.T) {
	assert.Empty(t, OptimizeRoute(nil, TwoOpt))

	one := []model.Address{addr(7, 120.2, 23.0)}
	assert.Equal(t, []int{7}, OptimizeRoute(one, Genetic))

	two := []model.Address{addr(3, 120.2, 23.0), addr(9, 120.3, 23.1)}
	assert.Equal(t, []int{3, 9}, OptimizeRoute(two, NearestNeighbor))
}

func TestOptimizeRouteIsPermutation(t *testing.T) {
	addrs := []model.Address{
		addr(10, 120.200, 23.000),
		addr(11, 120.205, 23.004),
		addr(12, 120.198, 23.007),
		addr(13, 120.210, 23.001),
		addr(14, 120.203, 23.010),
		addr(15, 120.196, 23.002),
	}

	for _, algo := range []Algorithm{NearestNeighbor, TwoOpt, Genetic} {
		t.Run(string(algo), func(t *testing.T) {
			assertPermutation(t, addrs, OptimizeRoute(addrs, algo))
		})
	}
}

func TestNearestNeighborStartsSouthernmost(t *testing.T) {
	addrs := []model.Address{
		addr(1, 120.20, 23.05),
		addr(2, 120.21, 23.01), // southernmost
		addr(3, 120.22, 23.09),
	}

	route := OptimizeRoute(addrs, NearestNeighbor)
	require.NotEmpty(t, route)
	assert.Equal(t, 2, route[0])
}

func TestTwoOptNeverWorseThanNearestNeighbor(t *testing.T) {
	scenarios := [][]model.Address{
		unitSquare(),
		{
			addr(1, 120.200, 23.000),
			addr(2, 120.240, 23.000),
			addr(3, 120.210, 23.000),
			addr(4, 120.230, 23.000),
			addr(5, 120.220, 23.000),
		},
		{
			addr(1, 120.200, 23.000),
			addr(2, 120.207, 23.013),
			addr(3, 120.195, 23.006),
			addr(4, 120.214, 23.002),
			addr(5, 120.201, 23.018),
			addr(6, 120.190, 23.011),
			addr(7, 120.220, 23.009),
		},
	}

	for i, addrs := range scenarios {
		t.Run(fmt.Sprintf("scenario %d", i), func(t *testing.T) {
			nn := OptimizeRoute(addrs, NearestNeighbor)
			improved := OptimizeRoute(addrs, TwoOpt)
			assertPermutation(t, addrs, improved)
			assert.LessOrEqual(t, routeLength(addrs, improved), routeLength(addrs, nn))
		})
	}
}

func TestTwoOptResolvesSquareCrossing(t *testing.T) {
	addrs := unitSquare()
	route := OptimizeRoute(addrs, TwoOpt)

	// An open tour along three sides stays under 320 meters; any tour
	// crossing a diagonal is strictly longer.
	assert.Less(t, routeLength(addrs, route), 340.0)
}

func TestOptimizeRouteDeterministic(t *testing.T) {
	addrs := []model.Address{
		addr(1, 120.200, 23.000),
		addr(2, 120.207, 23.013),
		addr(3, 120.195, 23.006),
		addr(4, 120.214, 23.002),
		addr(5, 120.201, 23.018),
		addr(6, 120.190, 23.011),
	}

	for _, algo := range []Algorithm{NearestNeighbor, TwoOpt, Genetic} {
		t.Run(string(algo), func(t *testing.T) {
			first := OptimizeRoute(addrs, algo)
			second := OptimizeRoute(addrs, algo)
			assert.Equal(t, first, second)
		})
	}
}

func TestOptimizeRouteMissingCoordinates(t *testing.T) {
	addrs := []model.Address{
		addr(1, 120.200, 23.000),
		addrNoCoords(2),
		addr(3, 120.210, 23.005),
		addrNoCoords(4),
		addr(5, 120.205, 23.010),
	}

	for _, algo := range []Algorithm{NearestNeighbor, TwoOpt, Genetic} {
		t.Run(string(algo), func(t *testing.T) {
			assertPermutation(t, addrs, OptimizeRoute(addrs, algo))
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	algo, err := ParseAlgorithm("two_opt")
	require.NoError(t, err)
	assert.Equal(t, TwoOpt, algo)

	_, err = ParseAlgorithm("simulated_annealing")
	assert.Error(t, err)
}

func TestCalculateRouteMetrics(t *testing.T) {
	// Three stops on a meridian, each leg one millidegree of latitude,
	// about 111.2 meters.
	addrs := []model.Address{
		addr(1, 120.2, 23.000),
		addr(2, 120.2, 23.001),
		addr(3, 120.2, 23.002),
	}

	m := CalculateRouteMetrics(addrs, []int{1, 2, 3})
	assert.InDelta(t, 222.4, m.TotalDistance, 1.0)
	assert.InDelta(t, 111.2, m.AvgLegDistance, 0.5)
	assert.InDelta(t, 111.2, m.MaxLegDistance, 0.5)

	// 222 m at 5 km/h is about 2.7 walking minutes, truncated to 2,
	// plus 3 minutes per stop.
	assert.Equal(t, 2+3*3, m.EstimatedTime)
}

func TestCalculateRouteMetricsDegenerate(t *testing.T) {
	addrs := []model.Address{addr(1, 120.2, 23.0)}

	assert.Equal(t, RouteMetrics{}, CalculateRouteMetrics(addrs, nil))
	assert.Equal(t, RouteMetrics{}, CalculateRouteMetrics(addrs, []int{1}))
}

func TestCalculateRouteMetricsMissingCoordinates(t *testing.T) {
	addrs := []model.Address{
		addr(1, 120.2, 23.000),
		addrNoCoords(2),
		addr(3, 120.2, 23.001),
	}

	m := CalculateRouteMetrics(addrs, []int{1, 2, 3})
	assert.Equal(t, 0.0, m.TotalDistance, "legs touching coordinate-less stops count zero")
	assert.Equal(t, 0+3*3, m.EstimatedTime)
}

func TestCompareAlgorithms(t *testing.T) {
	addrs := unitSquare()
	snapshot := make([]model.Address, len(addrs))
	copy(snapshot, addrs)

	results := CompareAlgorithms(addrs)
	require.Len(t, results, 3)

	for algo, comparison := range results {
		assertPermutation(t, addrs, comparison.Route)
		assert.Greaterf(t, comparison.Metrics.TotalDistance, 0.0, "algorithm %s", algo)
	}
	assert.LessOrEqual(t,
		results[TwoOpt].Metrics.TotalDistance,
		results[NearestNeighbor].Metrics.TotalDistance)
	assert.Equal(t, snapshot, addrs, "input must not be mutated")
}
