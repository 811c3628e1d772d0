package exporter

import (
	"encoding/json"
	"os"

	"github.com/fieldops/surveyroute/pkg/geo"
	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/util"
	"github.com/twpayne/go-polyline"
)

type jsonGroup struct {
	GroupID           string               `json:"group_id"`
	Size              int                  `json:"size"`
	TargetSize        int                  `json:"target_size"`
	EstimatedDistance float64              `json:"estimated_distance"`
	EstimatedTime     int                  `json:"estimated_time"`
	RouteOrder        []int                `json:"route_order"`
	RoutePolyline     string               `json:"route_polyline,omitempty"`
	Center            *geo.Coordinate      `json:"center,omitempty"`
	BoundingBox       *geo.BoundingBox     `json:"bounding_box,omitempty"`
	NeighborhoodCount map[int]int          `json:"neighborhood_count"`
	Addresses         []model.Address      `json:"addresses"`
}

type jsonDocument struct {
	District       string           `json:"district"`
	Village        string           `json:"village"`
	TargetSize     int              `json:"target_size"`
	TotalAddresses int              `json:"total_addresses"`
	TotalGroups    int              `json:"total_groups"`
	CreatedAt      string           `json:"created_at"`
	Statistics     model.Statistics `json:"statistics"`
	Coverage       *geo.BoundingBox `json:"coverage,omitempty"`
	Groups         []jsonGroup      `json:"groups"`
}

// ExportJSON writes the full result document, including a Google-encoded
// polyline of each group's visiting order for lightweight map rendering.
func ExportJSON(result *model.GroupingResult, path string) error {
	doc := jsonDocument{
		District:       result.District,
		Village:        result.Village,
		TargetSize:     result.TargetSize,
		TotalAddresses: result.TotalAddresses(),
		TotalGroups:    result.TotalGroups(),
		CreatedAt:      result.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Statistics:     result.Statistics(),
	}
	if coverage, ok := result.Coverage(); ok {
		doc.Coverage = &coverage
	}

	for i := range result.Groups {
		group := &result.Groups[i]

		jg := jsonGroup{
			GroupID:           group.ID,
			Size:              group.Size(),
			TargetSize:        group.TargetSize,
			EstimatedDistance: group.EstimatedDistance,
			EstimatedTime:     group.EstimatedTime,
			RouteOrder:        group.RouteOrder,
			RoutePolyline:     routePolyline(group),
			NeighborhoodCount: group.CountByNeighborhood(),
			Addresses:         group.Addresses,
		}
		if center, ok := group.Centroid(); ok {
			jg.Center = &center
		}
		if box, ok := group.BoundingBox(); ok {
			jg.BoundingBox = &box
		}

		doc.Groups = append(doc.Groups, jg)
	}

	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "create json export %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// routePolyline encodes the valid-coordinate stops of a group's visiting
// order. Empty when fewer than two stops carry coordinates.
func routePolyline(group *model.RouteGroup) string {
	var coords [][]float64
	for _, addr := range group.AddressesInRouteOrder() {
		if c, ok := addr.Coordinate(); ok {
			coords = append(coords, []float64{c.Lat, c.Lon})
		}
	}
	if len(coords) < 2 {
		return ""
	}
	return string(polyline.EncodeCoords(coords))
}
