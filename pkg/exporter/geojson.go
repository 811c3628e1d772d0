package exporter

import (
	"encoding/json"
	"os"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/util"
)

type geoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   geoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// ExportGeoJSON writes a FeatureCollection with one Point per address and
// one LineString per group tracing its visiting order, for map tools that
// consume GeoJSON directly.
func ExportGeoJSON(result *model.GroupingResult, path string) error {
	collection := geoJSONCollection{Type: "FeatureCollection"}

	for i := range result.Groups {
		group := &result.Groups[i]

		var line [][]float64
		for order, addr := range group.AddressesInRouteOrder() {
			c, ok := addr.Coordinate()
			if !ok {
				continue
			}
			line = append(line, []float64{c.Lon, c.Lat})

			collection.Features = append(collection.Features, geoJSONFeature{
				Type: "Feature",
				Geometry: geoJSONGeometry{
					Type:        "Point",
					Coordinates: []float64{c.Lon, c.Lat},
				},
				Properties: map[string]interface{}{
					"group_id":     group.ID,
					"address_id":   addr.ID,
					"full_address": addr.FullAddress,
					"neighborhood": addr.Neighborhood,
					"visit_order":  order + 1,
				},
			})
		}

		if len(line) >= 2 {
			collection.Features = append(collection.Features, geoJSONFeature{
				Type: "Feature",
				Geometry: geoJSONGeometry{
					Type:        "LineString",
					Coordinates: line,
				},
				Properties: map[string]interface{}{
					"group_id":             group.ID,
					"size":                 group.Size(),
					"estimated_distance_m": group.EstimatedDistance,
					"estimated_time_min":   group.EstimatedTime,
				},
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "create geojson export %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(collection)
}
