package model

import (
	"github.com/fieldops/surveyroute/pkg/geo"
)

// RouteGroup is one finalized visit group. Clustering creates it with an
// empty ID and no route order; the grouping engine sets ID, RouteOrder and
// the distance/time estimates exactly once. Exporters treat it as read-only.
type RouteGroup struct {
	ID        string    `json:"group_id"`
	Addresses []Address `json:"addresses"`

	// RouteOrder is a permutation of the member address ids describing the
	// visiting sequence. Empty until route optimization ran.
	RouteOrder []int `json:"route_order,omitempty"`

	EstimatedDistance float64 `json:"estimated_distance"` // meters
	EstimatedTime     int     `json:"estimated_time"`     // minutes
	TargetSize        int     `json:"target_size,omitempty"`

	// Compactness is the mean member distance from the group centroid,
	// recorded as a hint by coordinate clustering.
	Compactness float64 `json:"compactness,omitempty"`
}

func NewRouteGroup(addrs []Address) RouteGroup {
	return RouteGroup{Addresses: addrs}
}

func (g *RouteGroup) Size() int {
	return len(g.Addresses)
}

func (g *RouteGroup) AddressIDs() []int {
	ids := make([]int, len(g.Addresses))
	for i := range g.Addresses {
		ids[i] = g.Addresses[i].ID
	}
	return ids
}

// Centroid of the members with valid coordinates, ok == false when none have
// any.
func (g *RouteGroup) Centroid() (geo.Coordinate, bool) {
	center, err := geo.Centroid(Coordinates(g.Addresses))
	if err != nil {
		return geo.Coordinate{}, false
	}
	return center, true
}

func (g *RouteGroup) BoundingBox() (geo.BoundingBox, bool) {
	box, err := geo.Bound(Coordinates(g.Addresses))
	if err != nil {
		return geo.BoundingBox{}, false
	}
	return box, true
}

// CountByNeighborhood tallies members per neighborhood number.
func (g *RouteGroup) CountByNeighborhood() map[int]int {
	counts := make(map[int]int)
	for i := range g.Addresses {
		counts[g.Addresses[i].Neighborhood]++
	}
	return counts
}

// AddressesInRouteOrder returns the members ordered by RouteOrder, or in
// member order when no route has been computed.
func (g *RouteGroup) AddressesInRouteOrder() []Address {
	if len(g.RouteOrder) == 0 {
		ordered := make([]Address, len(g.Addresses))
		copy(ordered, g.Addresses)
		return ordered
	}

	byID := make(map[int]Address, len(g.Addresses))
	for i := range g.Addresses {
		byID[g.Addresses[i].ID] = g.Addresses[i]
	}

	ordered := make([]Address, 0, len(g.RouteOrder))
	for _, id := range g.RouteOrder {
		if addr, ok := byID[id]; ok {
			ordered = append(ordered, addr)
		}
	}
	return ordered
}
