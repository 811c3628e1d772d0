package model

import (
	"github.com/fieldops/surveyroute/pkg/util"
)

// GroupingStrategy selects how the engine assembles candidate groups.
type GroupingStrategy string

const (
	// StrategyAuto classifies addresses first and picks the grouping path
	// per category bucket.
	StrategyAuto GroupingStrategy = "auto"
	// StrategyGeographic ignores classification and clusters the whole
	// input by coordinates.
	StrategyGeographic GroupingStrategy = "geographic"
	// StrategyStreetFirst groups by street name, splitting oversized
	// streets geographically.
	StrategyStreetFirst GroupingStrategy = "street-first"
	// StrategyNeighborFirst groups by neighborhood number, splitting
	// oversized neighborhoods geographically.
	StrategyNeighborFirst GroupingStrategy = "neighbor-first"
	// StrategyDistanceBased uses density clustering over the whole input.
	StrategyDistanceBased GroupingStrategy = "distance-based"
	// StrategySimple splits the input into balanced chunks in order.
	StrategySimple GroupingStrategy = "simple"
)

func ParseGroupingStrategy(s string) (GroupingStrategy, error) {
	switch GroupingStrategy(s) {
	case StrategyAuto, StrategyGeographic, StrategyStreetFirst,
		StrategyNeighborFirst, StrategyDistanceBased, StrategySimple:
		return GroupingStrategy(s), nil
	}
	return "", util.WrapErrorf(nil, util.ErrBadParamInput,
		"unknown grouping strategy %q", s)
}

// ClusteringAlgorithm selects the coordinate clustering backend.
type ClusteringAlgorithm string

const (
	AlgorithmKMeans      ClusteringAlgorithm = "kmeans"
	AlgorithmDBSCAN      ClusteringAlgorithm = "dbscan"
	AlgorithmSimpleSplit ClusteringAlgorithm = "simple"
)

func ParseClusteringAlgorithm(s string) (ClusteringAlgorithm, error) {
	switch ClusteringAlgorithm(s) {
	case AlgorithmKMeans, AlgorithmDBSCAN, AlgorithmSimpleSplit:
		return ClusteringAlgorithm(s), nil
	}
	return "", util.WrapErrorf(nil, util.ErrBadParamInput,
		"unknown clustering algorithm %q", s)
}
