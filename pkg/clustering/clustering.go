// Package clustering partitions addresses into spatially coherent,
// size-balanced candidate groups.
//
// Every operation is a pure function of its input: coordinate clustering is
// seeded with a fixed RNG seed, so a run is reproducible bit for bit. A
// clustering attempt never errors out to the caller — degenerate input is
// downgraded to a balanced split, and the Outcome records that the fallback
// was taken.
package clustering

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/fieldops/surveyroute/pkg/model"
	"go.uber.org/zap"
)

const (
	// rngSeed fixes k-means initialization for reproducible runs.
	rngSeed uint64 = 42

	// densityEps is the DBSCAN neighborhood radius for splitting oversized
	// groups: roughly 200 meters expressed in degrees.
	densityEps = 200.0 / 111320.0

	// standardizedEps is the DBSCAN radius when clustering runs in the
	// standardized feature space instead of raw degrees.
	standardizedEps = 0.1

	// oversizeFactor is the hard ceiling on a dense region before it is
	// re-clustered by coordinates.
	oversizeFactor = 1.5
)

// Outcome is the result of one clustering attempt.
//
// Unplaced holds the addresses the operation could not position (no valid
// coordinates, or density noise in the standardized pipeline); the caller
// reconciles them. Fallback reports that the attempt was degraded to a
// balanced split.
type Outcome struct {
	Groups   []model.RouteGroup
	Unplaced []model.Address
	Fallback bool
}

type Clustering struct {
	algorithm model.ClusteringAlgorithm
	log       *zap.Logger
}

func New(algorithm model.ClusteringAlgorithm, log *zap.Logger) *Clustering {
	if log == nil {
		log = zap.NewNop()
	}
	return &Clustering{
		algorithm: algorithm,
		log:       log,
	}
}

// ClusterByCoordinates partitions the valid-coordinate addresses into
// k = max(1, round(valid/targetSize)) groups. Addresses without coordinates
// are returned in Outcome.Unplaced, never positioned here.
func (c *Clustering) ClusterByCoordinates(addrs []model.Address, targetSize int) Outcome {
	valid, invalid := model.SplitByCoordinateValidity(addrs)
	if len(valid) == 0 {
		return Outcome{Unplaced: invalid, Fallback: true}
	}

	k := int(math.Max(1, math.Round(float64(len(valid))/float64(targetSize))))
	if k == 1 {
		return Outcome{
			Groups:   []model.RouteGroup{model.NewRouteGroup(valid)},
			Unplaced: invalid,
		}
	}

	outcome := c.clusterValid(valid, k, targetSize)
	outcome.Unplaced = append(outcome.Unplaced, invalid...)
	return outcome
}

// ClusterByTargetGroups runs the same weighted-standardization pipeline with
// a caller-fixed group count. With no more valid addresses than groups it
// degenerates to one address per group.
func (c *Clustering) ClusterByTargetGroups(addrs []model.Address, targetGroups int) Outcome {
	valid, invalid := model.SplitByCoordinateValidity(addrs)
	if len(valid) == 0 {
		return Outcome{Unplaced: invalid, Fallback: true}
	}

	if len(valid) <= targetGroups {
		groups := make([]model.RouteGroup, len(valid))
		for i := range valid {
			groups[i] = model.NewRouteGroup([]model.Address{valid[i]})
		}
		return Outcome{Groups: groups, Unplaced: invalid}
	}

	points := weightedStandardize(model.Coordinates(valid))
	labels, err := kMeans(points, targetGroups, rngSeed)
	if err != nil {
		c.log.Warn("clustering by target groups fell back to balanced split",
			zap.Int("target_groups", targetGroups), zap.Error(err))
		return Outcome{
			Groups:   SplitByCount(valid, targetGroups),
			Unplaced: invalid,
			Fallback: true,
		}
	}

	return Outcome{
		Groups:   groupsFromLabels(valid, labels, targetGroups),
		Unplaced: invalid,
	}
}

// clusterValid clusters addresses that all carry valid coordinates into k
// groups, dispatching on the configured algorithm.
func (c *Clustering) clusterValid(valid []model.Address, k, targetSize int) Outcome {
	coords := model.Coordinates(valid)
	points := weightedStandardize(coords)

	switch c.algorithm {
	case model.AlgorithmKMeans:
		labels, err := kMeans(points, k, rngSeed)
		if err != nil {
			c.log.Warn("kmeans clustering fell back to simple split",
				zap.Int("clusters", k), zap.Error(err))
			return Outcome{Groups: SimpleSplit(valid, targetSize), Fallback: true}
		}
		return Outcome{Groups: groupsFromLabels(valid, labels, k)}

	case model.AlgorithmDBSCAN:
		minPts := max(2, targetSize/8)
		labels := dbscanStandardized(points, standardizedEps, minPts)

		clusterCount := 0
		for _, label := range labels {
			if label >= clusterCount {
				clusterCount = label + 1
			}
		}
		if clusterCount == 0 {
			c.log.Warn("density clustering found no dense region, falling back to simple split",
				zap.Int("min_pts", minPts))
			return Outcome{Groups: SimpleSplit(valid, targetSize), Fallback: true}
		}

		outcome := Outcome{Groups: groupsFromLabels(valid, labels, clusterCount)}
		for i, label := range labels {
			if label == noiseLabel {
				outcome.Unplaced = append(outcome.Unplaced, valid[i])
			}
		}
		return outcome

	default:
		return Outcome{Groups: SimpleSplit(valid, targetSize)}
	}
}

// dbscanStandardized runs density clustering in the standardized feature
// space, where the r-tree degree search still applies since the metric is
// planar either way.
func dbscanStandardized(points [][2]float64, eps float64, minPts int) []int {
	coords := make([]geo.Coordinate, len(points))
	for i, p := range points {
		coords[i] = geo.NewCoordinate(p[0], p[1])
	}
	return dbscan(coords, eps, minPts)
}

// SplitByGeography breaks a group larger than targetSize into dense
// sub-regions. Density noise is balanced-split; regions still above
// oversizeFactor*targetSize are re-clustered by coordinates.
func (c *Clustering) SplitByGeography(addrs []model.Address, targetSize int) Outcome {
	if len(addrs) <= targetSize {
		return Outcome{Groups: []model.RouteGroup{model.NewRouteGroup(addrs)}}
	}

	valid, invalid := model.SplitByCoordinateValidity(addrs)
	if len(valid) < 2 {
		return Outcome{Groups: SimpleSplit(addrs, targetSize), Fallback: true}
	}

	minPts := max(2, targetSize/4)
	labels := dbscan(model.Coordinates(valid), densityEps, minPts)

	clusters := make(map[int][]model.Address)
	var noise []model.Address
	for i, label := range labels {
		if label == noiseLabel {
			noise = append(noise, valid[i])
			continue
		}
		clusters[label] = append(clusters[label], valid[i])
	}

	outcome := Outcome{Unplaced: invalid}
	ceiling := float64(targetSize) * oversizeFactor

	for label := 0; label < len(clusters); label++ {
		members := clusters[label]
		if float64(len(members)) > ceiling {
			sub := c.ClusterByCoordinates(members, targetSize)
			outcome.Groups = append(outcome.Groups, sub.Groups...)
			outcome.Unplaced = append(outcome.Unplaced, sub.Unplaced...)
			outcome.Fallback = outcome.Fallback || sub.Fallback
			continue
		}
		outcome.Groups = append(outcome.Groups, model.NewRouteGroup(members))
	}

	if len(noise) > 0 {
		outcome.Groups = append(outcome.Groups, SimpleSplit(noise, targetSize)...)
	}

	return outcome
}

// SimpleSplit is the universal fallback: a balanced partition with no
// geographic awareness. Sizes differ by at most one and input order is kept.
func SimpleSplit(addrs []model.Address, targetSize int) []model.RouteGroup {
	if len(addrs) == 0 {
		return nil
	}

	nGroups := int(math.Max(1, math.Round(float64(len(addrs))/float64(targetSize))))
	return SplitByCount(addrs, nGroups)
}

// SplitByCount partitions addrs into nGroups contiguous chunks; the first
// len(addrs)%nGroups chunks take one extra member.
func SplitByCount(addrs []model.Address, nGroups int) []model.RouteGroup {
	if len(addrs) == 0 || nGroups <= 0 {
		return nil
	}

	base := len(addrs) / nGroups
	remainder := len(addrs) % nGroups

	groups := make([]model.RouteGroup, 0, nGroups)
	start := 0
	for i := 0; i < nGroups; i++ {
		size := base
		if i < remainder {
			size++
		}
		if size == 0 {
			continue
		}
		// Cap each chunk so appending to one group can never write into
		// the next group's members.
		groups = append(groups, model.NewRouteGroup(addrs[start:start+size:start+size]))
		start += size
	}

	return groups
}

// groupsFromLabels materializes labeled addresses into groups, recording the
// compactness hint on each. Empty labels yield no group.
func groupsFromLabels(addrs []model.Address, labels []int, clusterCount int) []model.RouteGroup {
	buckets := make([][]model.Address, clusterCount)
	for i, label := range labels {
		if label < 0 || label >= clusterCount {
			continue
		}
		buckets[label] = append(buckets[label], addrs[i])
	}

	groups := make([]model.RouteGroup, 0, clusterCount)
	for _, members := range buckets {
		if len(members) == 0 {
			continue
		}
		group := model.NewRouteGroup(members)
		group.Compactness = geo.Compactness(model.Coordinates(members))
		groups = append(groups, group)
	}

	return groups
}
