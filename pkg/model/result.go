package model

import (
	"time"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/fieldops/surveyroute/pkg/util"
)

// GroupingResult is the read-only aggregate of one grouping run.
type GroupingResult struct {
	District   string       `json:"district"`
	Village    string       `json:"village"`
	TargetSize int          `json:"target_size"`
	Groups     []RouteGroup `json:"groups"`
	CreatedAt  time.Time    `json:"created_at"`
}

func NewGroupingResult(district, village string, targetSize int, groups []RouteGroup) *GroupingResult {
	return &GroupingResult{
		District:   district,
		Village:    village,
		TargetSize: targetSize,
		Groups:     groups,
		CreatedAt:  time.Now(),
	}
}

func (r *GroupingResult) TotalAddresses() int {
	total := 0
	for i := range r.Groups {
		total += r.Groups[i].Size()
	}
	return total
}

func (r *GroupingResult) TotalGroups() int {
	return len(r.Groups)
}

// Statistics over the group sizes and estimates, computed on demand.
type Statistics struct {
	AvgGroupSize           float64 `json:"avg_group_size"`
	MinGroupSize           int     `json:"min_group_size"`
	MaxGroupSize           int     `json:"max_group_size"`
	TotalEstimatedDistance float64 `json:"total_estimated_distance"`
	TotalEstimatedTime     int     `json:"total_estimated_time"`
}

func (r *GroupingResult) Statistics() Statistics {
	if len(r.Groups) == 0 {
		return Statistics{}
	}

	stats := Statistics{
		MinGroupSize: r.Groups[0].Size(),
		MaxGroupSize: r.Groups[0].Size(),
	}

	sum := 0
	for i := range r.Groups {
		size := r.Groups[i].Size()
		sum += size
		stats.MinGroupSize = util.MinInt(stats.MinGroupSize, size)
		stats.MaxGroupSize = util.MaxInt(stats.MaxGroupSize, size)
		stats.TotalEstimatedDistance += r.Groups[i].EstimatedDistance
		stats.TotalEstimatedTime += r.Groups[i].EstimatedTime
	}
	stats.AvgGroupSize = float64(sum) / float64(len(r.Groups))

	return stats
}

// Coverage is the bounding box over every member with valid coordinates
// across all groups, ok == false when no member has any.
func (r *GroupingResult) Coverage() (geo.BoundingBox, bool) {
	var coords []geo.Coordinate
	for i := range r.Groups {
		coords = append(coords, Coordinates(r.Groups[i].Addresses)...)
	}

	box, err := geo.Bound(coords)
	if err != nil {
		return geo.BoundingBox{}, false
	}
	return box, true
}
