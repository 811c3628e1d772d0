package engine

import (
	"strings"

	"github.com/fieldops/surveyroute/pkg/classifier"
	"github.com/fieldops/surveyroute/pkg/clustering"
	"github.com/fieldops/surveyroute/pkg/model"
)

// groupingFunc assembles candidate groups for one strategy. Addresses the
// strategy could not place are returned separately and reconciled by the
// engine, so no strategy ever drops an address.
type groupingFunc func(addrs []model.Address) ([]model.RouteGroup, []model.Address)

// resolveStrategy maps a strategy tag to its grouping function once, at
// construction. Adding a strategy means adding a case here.
func (e *Engine) resolveStrategy(strategy model.GroupingStrategy) groupingFunc {
	switch strategy {
	case model.StrategyGeographic:
		return e.groupGeographic
	case model.StrategyStreetFirst:
		return e.groupStreetFirst
	case model.StrategyNeighborFirst:
		return e.groupNeighborFirst
	case model.StrategyDistanceBased:
		return e.groupDistanceBased
	case model.StrategySimple:
		return e.groupSimple
	default:
		return e.groupAuto
	}
}

// groupAuto classifies every address and picks the grouping path per
// category bucket: street buckets stay together unless oversized (then split
// by geography), area buckets go straight to coordinate clustering, and
// neighborhood buckets cluster by coordinates only when oversized.
func (e *Engine) groupAuto(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	classified := classifier.Enrich(addrs)

	byCategory := make(map[model.AddressCategory][]model.ClassifiedAddress)
	for _, ca := range classified {
		byCategory[ca.Category] = append(byCategory[ca.Category], ca)
	}

	var (
		groups   []model.RouteGroup
		unplaced []model.Address
	)

	// Fixed bucket order keeps group ids stable across runs.
	for _, category := range []model.AddressCategory{
		model.CategoryStreet, model.CategoryArea, model.CategoryNeighbor,
	} {
		members := byCategory[category]
		if len(members) == 0 {
			continue
		}

		switch category {
		case model.CategoryStreet:
			for _, b := range bucketByKey(members) {
				if len(b.addrs) <= e.cfg.TargetSize {
					groups = append(groups, model.NewRouteGroup(b.addrs))
					continue
				}
				outcome := e.clustering.SplitByGeography(b.addrs, e.cfg.TargetSize)
				groups = append(groups, outcome.Groups...)
				unplaced = append(unplaced, outcome.Unplaced...)
			}

		case model.CategoryArea:
			outcome := e.clustering.ClusterByCoordinates(stripClassification(members), e.cfg.TargetSize)
			groups = append(groups, outcome.Groups...)
			unplaced = append(unplaced, outcome.Unplaced...)

		case model.CategoryNeighbor:
			for _, b := range bucketByKey(members) {
				if len(b.addrs) <= e.cfg.TargetSize {
					groups = append(groups, model.NewRouteGroup(b.addrs))
					continue
				}
				outcome := e.clustering.ClusterByCoordinates(b.addrs, e.cfg.TargetSize)
				groups = append(groups, outcome.Groups...)
				unplaced = append(unplaced, outcome.Unplaced...)
			}
		}
	}

	return groups, unplaced
}

func (e *Engine) groupGeographic(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	outcome := e.clustering.ClusterByCoordinates(addrs, e.cfg.TargetSize)
	return outcome.Groups, outcome.Unplaced
}

func (e *Engine) groupStreetFirst(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	return e.groupByExtractedKey(addrs, func(addr *model.Address) string {
		return extractStreetName(addr.FullAddress)
	})
}

func (e *Engine) groupNeighborFirst(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	return e.groupByExtractedKey(addrs, func(addr *model.Address) string {
		return classifier.NeighborhoodKey(addr.Neighborhood)
	})
}

// groupByExtractedKey buckets addresses by a key, keeping each bucket whole
// when it fits the target size and clustering it by coordinates otherwise.
func (e *Engine) groupByExtractedKey(addrs []model.Address, keyOf func(*model.Address) string) ([]model.RouteGroup, []model.Address) {
	var (
		order   []string
		buckets = make(map[string][]model.Address)
	)
	for i := range addrs {
		key := keyOf(&addrs[i])
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], addrs[i])
	}

	var (
		groups   []model.RouteGroup
		unplaced []model.Address
	)
	for _, key := range order {
		members := buckets[key]
		if len(members) <= e.cfg.TargetSize {
			groups = append(groups, model.NewRouteGroup(members))
			continue
		}
		outcome := e.clustering.ClusterByCoordinates(members, e.cfg.TargetSize)
		groups = append(groups, outcome.Groups...)
		unplaced = append(unplaced, outcome.Unplaced...)
	}

	return groups, unplaced
}

func (e *Engine) groupDistanceBased(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	outcome := e.clustering.SplitByGeography(addrs, e.cfg.TargetSize)
	return outcome.Groups, outcome.Unplaced
}

func (e *Engine) groupSimple(addrs []model.Address) ([]model.RouteGroup, []model.Address) {
	return clustering.SimpleSplit(addrs, e.cfg.TargetSize), nil
}

// keyBucket preserves first-seen key order so grouping output is stable.
type keyBucket struct {
	key   string
	addrs []model.Address
}

func bucketByKey(classified []model.ClassifiedAddress) []keyBucket {
	var (
		order   []string
		buckets = make(map[string][]model.Address)
	)
	for _, ca := range classified {
		if _, seen := buckets[ca.Key]; !seen {
			order = append(order, ca.Key)
		}
		buckets[ca.Key] = append(buckets[ca.Key], ca.Address)
	}

	out := make([]keyBucket, len(order))
	for i, key := range order {
		out[i] = keyBucket{key: key, addrs: buckets[key]}
	}
	return out
}

func stripClassification(classified []model.ClassifiedAddress) []model.Address {
	addrs := make([]model.Address, len(classified))
	for i, ca := range classified {
		addrs[i] = ca.Address
	}
	return addrs
}

// streetKeywords are the suffixes a street segment ends with in a rendered
// address, covering both local and romanized forms.
var streetKeywords = []string{"路", "街", "巷", "弄", "大道", "Avenue", "Street", "Road"}

// extractStreetName pulls a street-ish grouping key out of a full address
// string. Addresses with no recognizable street token fall back to their
// leading characters so they still bucket together by prefix.
func extractStreetName(fullAddress string) string {
	for _, keyword := range streetKeywords {
		idx := strings.Index(fullAddress, keyword)
		if idx < 0 {
			continue
		}
		head := fullAddress[:idx]
		if fields := strings.Fields(head); len(fields) > 0 {
			head = fields[len(fields)-1]
		}
		return head + keyword
	}

	runes := []rune(fullAddress)
	if len(runes) > 5 {
		return string(runes[:5])
	}
	return fullAddress
}
