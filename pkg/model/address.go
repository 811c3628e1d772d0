package model

import (
	"github.com/fieldops/surveyroute/pkg/geo"
)

// AddressCategory is the classification tier an address falls into. The
// classifier assigns exactly one of these per address.
type AddressCategory string

const (
	CategoryStreet   AddressCategory = "street"
	CategoryArea     AddressCategory = "area"
	CategoryNeighbor AddressCategory = "neighbor"
)

// Address is one physical location to visit. Lon/Lat are optional; an address
// without both is still grouped, just never placed by coordinate clustering.
type Address struct {
	ID           int    `json:"id"`
	District     string `json:"district"`
	Village      string `json:"village"`
	Neighborhood int    `json:"neighborhood"`

	Street string `json:"street,omitempty"`
	Area   string `json:"area,omitempty"`
	Lane   string `json:"lane,omitempty"`
	Alley  string `json:"alley,omitempty"`
	Number string `json:"number,omitempty"`

	Lon *float64 `json:"lon,omitempty"`
	Lat *float64 `json:"lat,omitempty"`

	FullAddress string `json:"full_address"`
}

func (a *Address) HasValidCoordinates() bool {
	return a.Lon != nil && a.Lat != nil
}

// Coordinate returns the (lon, lat) pair, ok == false when either is missing.
func (a *Address) Coordinate() (geo.Coordinate, bool) {
	if !a.HasValidCoordinates() {
		return geo.Coordinate{}, false
	}
	return geo.NewCoordinate(*a.Lon, *a.Lat), true
}

// DistanceTo. great-circle distance in meters. ok == false when either side
// lacks coordinates.
func (a *Address) DistanceTo(other *Address) (float64, bool) {
	ca, okA := a.Coordinate()
	cb, okB := other.Coordinate()
	if !okA || !okB {
		return 0, false
	}
	return geo.HaversineMeters(ca, cb), true
}

// ClassifiedAddress pairs an address with its classification. Classification
// is a pure transform; the underlying record is never mutated.
type ClassifiedAddress struct {
	Address  Address
	Category AddressCategory
	Key      string
}

// Coordinates extracts the valid coordinates of addrs, in input order.
func Coordinates(addrs []Address) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(addrs))
	for i := range addrs {
		if c, ok := addrs[i].Coordinate(); ok {
			coords = append(coords, c)
		}
	}
	return coords
}

// SplitByCoordinateValidity partitions addrs into the ones clustering can
// place and the ones it cannot, both in input order.
func SplitByCoordinateValidity(addrs []Address) (valid, invalid []Address) {
	for i := range addrs {
		if addrs[i].HasValidCoordinates() {
			valid = append(valid, addrs[i])
		} else {
			invalid = append(invalid, addrs[i])
		}
	}
	return valid, invalid
}
