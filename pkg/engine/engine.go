// Package engine orchestrates one grouping run: classification, strategy
// dispatch, clustering, group-id assignment and per-group route
// optimization.
package engine

import (
	"fmt"
	"sort"

	"github.com/fieldops/surveyroute/pkg/clustering"
	"github.com/fieldops/surveyroute/pkg/concurrent"
	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/routeoptimizer"
	"github.com/fieldops/surveyroute/pkg/util"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultTargetSize = 35

	// singleStopMinutes is the fixed per-stop cost applied to a group of
	// one, mirroring the per-stop term of the route metrics.
	singleStopMinutes = 3
)

// Config is the construction-time configuration of one engine. TargetSize
// and TargetGroupCount are mutually exclusive; when both are set the group
// count takes priority. Zero values fall back to the defaults (target size
// 35, AUTO strategy, k-means clustering, nearest-neighbor routing).
type Config struct {
	TargetSize       int `mapstructure:"target_size" validate:"min=0"`
	TargetGroupCount int `mapstructure:"target_group_count" validate:"min=0"`

	Strategy  model.GroupingStrategy    `mapstructure:"strategy" validate:"omitempty,oneof=auto geographic street-first neighbor-first distance-based simple"`
	Algorithm model.ClusteringAlgorithm `mapstructure:"clustering_algorithm" validate:"omitempty,oneof=kmeans dbscan simple"`

	RouteAlgorithm routeoptimizer.Algorithm `mapstructure:"route_algorithm" validate:"omitempty,oneof=nearest_neighbor two_opt genetic"`

	// Workers bounds the route-optimization worker pool; 0 means one
	// worker per CPU.
	Workers int `mapstructure:"workers" validate:"min=0"`
}

func (cfg *Config) applyDefaults() {
	if cfg.TargetSize == 0 && cfg.TargetGroupCount == 0 {
		cfg.TargetSize = defaultTargetSize
	}
	if cfg.Strategy == "" {
		cfg.Strategy = model.StrategyAuto
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = model.AlgorithmKMeans
	}
	if cfg.RouteAlgorithm == "" {
		cfg.RouteAlgorithm = routeoptimizer.NearestNeighbor
	}
}

type Engine struct {
	cfg        Config
	clustering *clustering.Clustering
	group      groupingFunc
	log        *zap.Logger
}

// New validates cfg and builds an engine. Misconfiguration is the only
// error this package surfaces; everything downstream recovers via fallback.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid engine config")
	}

	cfg.applyDefaults()

	e := &Engine{
		cfg:        cfg,
		clustering: clustering.New(cfg.Algorithm, log),
		log:        log,
	}
	e.group = e.resolveStrategy(cfg.Strategy)

	return e, nil
}

// CreateGroups partitions addrs into finalized route groups: every input
// address appears in exactly one returned group, each group carries an id of
// the form "{district}{village}-NN" and an optimized visiting order.
func (e *Engine) CreateGroups(addrs []model.Address, district, village string) ([]model.RouteGroup, error) {
	if len(addrs) == 0 {
		return nil, nil
	}

	var (
		groups   []model.RouteGroup
		unplaced []model.Address
	)

	if e.cfg.TargetGroupCount > 0 {
		groups, unplaced = e.groupByTargetCount(addrs)
	} else {
		groups, unplaced = e.group(addrs)
	}

	groups = reconcileUnplaced(groups, unplaced, e.targetForSplit())

	e.log.Info("assembled candidate groups",
		zap.String("district", district),
		zap.String("village", village),
		zap.String("strategy", string(e.cfg.Strategy)),
		zap.Int("addresses", len(addrs)),
		zap.Int("groups", len(groups)),
		zap.Int("unplaced_reconciled", len(unplaced)))

	targetSize := e.cfg.TargetSize
	if targetSize == 0 && e.cfg.TargetGroupCount > 0 {
		// In target-group-count mode the effective per-group target is
		// the input spread over the requested count.
		targetSize = (len(addrs) + e.cfg.TargetGroupCount - 1) / e.cfg.TargetGroupCount
	}

	for i := range groups {
		groups[i].ID = fmt.Sprintf("%s%s-%02d", district, village, i+1)
		groups[i].TargetSize = targetSize
	}

	e.optimizeGroups(groups)

	return groups, nil
}

// Run executes a full grouping run and wraps the groups into the read-only
// result aggregate.
func (e *Engine) Run(addrs []model.Address, district, village string) (*model.GroupingResult, error) {
	groups, err := e.CreateGroups(addrs, district, village)
	if err != nil {
		return nil, err
	}
	return model.NewGroupingResult(district, village, e.cfg.TargetSize, groups), nil
}

// groupByTargetCount clusters the valid-coordinate addresses into the
// requested number of groups and spreads coordinate-less addresses over the
// result. With no usable coordinates at all it degrades to a balanced split
// by count.
func (e *Engine) groupByTargetCount(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	outcome := e.clustering.ClusterByTargetGroups(addrs, e.cfg.TargetGroupCount)
	if len(outcome.Groups) == 0 {
		return clustering.SplitByCount(addrs, e.cfg.TargetGroupCount), nil
	}
	return outcome.Groups, outcome.Unplaced
}

// targetForSplit is the chunk size used when unplaced addresses must form
// groups of their own.
func (e *Engine) targetForSplit() int {
	if e.cfg.TargetSize > 0 {
		return e.cfg.TargetSize
	}
	return defaultTargetSize
}

// reconcileUnplaced folds addresses the strategy could not position back
// into the result. With existing groups they are dealt round-robin starting
// at the smallest groups, so no group absorbs a disproportionate share;
// with no groups at all they form a balanced split of their own.
func reconcileUnplaced(groups []model.RouteGroup, unplaced []model.Address, targetSize int) []model.RouteGroup {
	if len(unplaced) == 0 {
		return groups
	}
	if len(groups) == 0 {
		return clustering.SimpleSplit(unplaced, targetSize)
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return groups[order[a]].Size() < groups[order[b]].Size()
	})

	for i := range unplaced {
		idx := order[i%len(order)]
		groups[idx].Addresses = append(groups[idx].Addresses, unplaced[i])
	}

	return groups
}

type optimizeJob struct {
	index int
	group model.RouteGroup
}

type optimizeResult struct {
	index int
	group model.RouteGroup
}

// optimizeGroups computes each group's visiting order and metrics. Groups
// share nothing, so one job per group is fanned out on a worker pool and the
// results are written back by index to keep output order deterministic.
func (e *Engine) optimizeGroups(groups []model.RouteGroup) {
	if len(groups) == 0 {
		return
	}

	wp := concurrent.NewWorkerPool[optimizeJob, optimizeResult](e.cfg.Workers, len(groups))
	for i := range groups {
		wp.AddJob(optimizeJob{index: i, group: groups[i]})
	}
	wp.Close()

	wp.Start(func(job optimizeJob) optimizeResult {
		job.group = e.optimizeGroup(job.group)
		return optimizeResult{index: job.index, group: job.group}
	})
	wp.Wait()

	for res := range wp.CollectResults() {
		groups[res.index] = res.group
	}
}

func (e *Engine) optimizeGroup(group model.RouteGroup) model.RouteGroup {
	switch group.Size() {
	case 0:
		return group
	case 1:
		group.RouteOrder = []int{group.Addresses[0].ID}
		group.EstimatedDistance = 0
		group.EstimatedTime = singleStopMinutes
		return group
	}

	group.RouteOrder = routeoptimizer.OptimizeRoute(group.Addresses, e.cfg.RouteAlgorithm)
	metrics := routeoptimizer.CalculateRouteMetrics(group.Addresses, group.RouteOrder)
	group.EstimatedDistance = util.RoundFloat(metrics.TotalDistance, 2)
	group.EstimatedTime = metrics.EstimatedTime

	return group
}
