package geo

import (
	"math"

	"github.com/fieldops/surveyroute/pkg/util"
	"github.com/golang/geo/s2"
)

type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{
		Lon: lon,
		Lat: lat,
	}
}

const (
	earthRadiusM = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// HaversineMeters. great-circle distance between two WGS84 points in meters.
func HaversineMeters(a, b Coordinate) float64 {
	latOne := util.DegreeToRadians(a.Lat)
	longOne := util.DegreeToRadians(a.Lon)
	latTwo := util.DegreeToRadians(b.Lat)
	longTwo := util.DegreeToRadians(b.Lon)

	h := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(h))
	return earthRadiusM * c
}

// Centroid. arithmetic mean of longitude and latitude. Returns
// ErrInsufficientData on an empty input.
func Centroid(points []Coordinate) (Coordinate, error) {
	if len(points) == 0 {
		return Coordinate{}, util.WrapErrorf(nil, util.ErrInsufficientData,
			"centroid of zero points")
	}

	var sumLon, sumLat float64
	for _, p := range points {
		sumLon += p.Lon
		sumLat += p.Lat
	}
	n := float64(len(points))
	return NewCoordinate(sumLon/n, sumLat/n), nil
}

// Compactness. mean distance of the points from their centroid, in meters.
// Zero for fewer than two points.
func Compactness(points []Coordinate) float64 {
	if len(points) < 2 {
		return 0
	}

	center, err := Centroid(points)
	if err != nil {
		return 0
	}

	var sum float64
	for _, p := range points {
		sum += HaversineMeters(center, p)
	}
	return sum / float64(len(points))
}

type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Bound. smallest rectangle covering all points. The rectangle is built with
// s2 so longitude wrap-around near the antimeridian is handled correctly.
func Bound(points []Coordinate) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, util.WrapErrorf(nil, util.ErrInsufficientData,
			"bounding box of zero points")
	}

	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	return BoundingBox{
		MinLon: util.RadiansToDegree(rect.Lng.Lo),
		MinLat: util.RadiansToDegree(rect.Lat.Lo),
		MaxLon: util.RadiansToDegree(rect.Lng.Hi),
		MaxLat: util.RadiansToDegree(rect.Lat.Hi),
	}, nil
}
