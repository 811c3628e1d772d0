package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportAddr(id int, lon, lat float64) model.Address {
	return model.Address{
		ID:           id,
		District:     "東區",
		Village:      "富強里",
		Neighborhood: 1,
		Lon:          &lon,
		Lat:          &lat,
		FullAddress:  "台南市東區中華東路",
	}
}

func sampleResult() *model.GroupingResult {
	groupOne := model.NewRouteGroup([]model.Address{
		exportAddr(1, 120.2245, 22.9832),
		exportAddr(2, 120.2251, 22.9840),
		{ID: 3, District: "東區", Village: "富強里", Neighborhood: 2, FullAddress: "台南市東區富強里2鄰12號"},
	})
	groupOne.ID = "東區富強里-01"
	groupOne.RouteOrder = []int{2, 1, 3}
	groupOne.EstimatedDistance = 110.5
	groupOne.EstimatedTime = 10
	groupOne.TargetSize = 3

	groupTwo := model.NewRouteGroup([]model.Address{
		exportAddr(4, 120.2310, 22.9901),
	})
	groupTwo.ID = "東區富強里-02"
	groupTwo.RouteOrder = []int{4}
	groupTwo.EstimatedTime = 3
	groupTwo.TargetSize = 3

	return model.NewGroupingResult("東區", "富強里", 3,
		[]model.RouteGroup{groupOne, groupTwo})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportGroupsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.csv")
	require.NoError(t, ExportGroupsCSV(sampleResult(), path))

	records := readCSV(t, path)
	require.Len(t, records, 5, "header plus one row per address")

	header := records[0]
	assert.Equal(t, "group_id", header[0])
	assert.Equal(t, "visit_order", header[1])

	// Rows follow the route order, not the member order.
	assert.Equal(t, []string{"東區富強里-01", "1", "2"}, records[1][:3])
	assert.Equal(t, []string{"東區富強里-01", "2", "1"}, records[2][:3])
	assert.Equal(t, []string{"東區富強里-01", "3", "3"}, records[3][:3])
	assert.Equal(t, []string{"東區富強里-02", "1", "4"}, records[4][:3])

	// Never geocoded: lon and lat cells stay empty.
	lonCol := len(header) - 2
	assert.Empty(t, records[3][lonCol])
	assert.Empty(t, records[3][lonCol+1])
}

func TestExportSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, ExportSummaryCSV(sampleResult(), path))

	records := readCSV(t, path)
	require.Len(t, records, 3, "header plus one row per group")

	assert.Equal(t, []string{"東區富強里-01", "3", "3", "110.50", "10"}, records[1][:5])
	assert.Equal(t, []string{"東區富強里-02", "1", "3", "0.00", "3"}, records[2][:5])
	assert.NotEmpty(t, records[1][5], "centroid present when members have coordinates")
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, ExportJSON(sampleResult(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		District       string `json:"district"`
		TotalAddresses int    `json:"total_addresses"`
		TotalGroups    int    `json:"total_groups"`
		Groups         []struct {
			GroupID       string `json:"group_id"`
			Size          int    `json:"size"`
			RouteOrder    []int  `json:"route_order"`
			RoutePolyline string `json:"route_polyline"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "東區", doc.District)
	assert.Equal(t, 4, doc.TotalAddresses)
	assert.Equal(t, 2, doc.TotalGroups)
	require.Len(t, doc.Groups, 2)
	assert.Equal(t, []int{2, 1, 3}, doc.Groups[0].RouteOrder)
	assert.NotEmpty(t, doc.Groups[0].RoutePolyline, "two geocoded stops encode a polyline")
	assert.Empty(t, doc.Groups[1].RoutePolyline, "a single stop encodes nothing")
}

func TestExportGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.geojson")
	require.NoError(t, ExportGeoJSON(sampleResult(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &collection))

	assert.Equal(t, "FeatureCollection", collection.Type)

	points, lines := 0, 0
	for _, feature := range collection.Features {
		switch feature.Geometry.Type {
		case "Point":
			points++
			assert.Contains(t, feature.Properties, "visit_order")
		case "LineString":
			lines++
			assert.Equal(t, "東區富強里-01", feature.Properties["group_id"])
		}
	}
	assert.Equal(t, 3, points, "one point per geocoded address")
	assert.Equal(t, 1, lines, "only the multi-stop group traces a line")
}
