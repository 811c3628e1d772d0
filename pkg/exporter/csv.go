// Package exporter renders a grouping result into the formats field teams
// consume: per-address CSV sheets, a JSON result document and GeoJSON for
// map tooling. Exporters read the result, never mutate it; group ids and
// route orders are written through verbatim.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/util"
)

// ExportGroupsCSV writes one row per address, in visiting order within each
// group.
func ExportGroupsCSV(result *model.GroupingResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "create csv export %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"group_id", "visit_order", "address_id", "full_address",
		"district", "village", "neighborhood",
		"street", "area", "lane", "alley", "number",
		"lon", "lat",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Groups {
		group := &result.Groups[i]
		for order, addr := range group.AddressesInRouteOrder() {
			record := []string{
				group.ID,
				strconv.Itoa(order + 1),
				strconv.Itoa(addr.ID),
				addr.FullAddress,
				addr.District,
				addr.Village,
				strconv.Itoa(addr.Neighborhood),
				addr.Street,
				addr.Area,
				addr.Lane,
				addr.Alley,
				addr.Number,
				formatOptionalCoord(addr.Lon),
				formatOptionalCoord(addr.Lat),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ExportSummaryCSV writes one row per group with its size and estimates.
func ExportSummaryCSV(result *model.GroupingResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "create csv summary %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"group_id", "size", "target_size",
		"estimated_distance_m", "estimated_time_min",
		"center_lon", "center_lat",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Groups {
		group := &result.Groups[i]

		centerLon, centerLat := "", ""
		if center, ok := group.Centroid(); ok {
			centerLon = formatCoord(center.Lon)
			centerLat = formatCoord(center.Lat)
		}

		record := []string{
			group.ID,
			strconv.Itoa(group.Size()),
			strconv.Itoa(group.TargetSize),
			fmt.Sprintf("%.2f", group.EstimatedDistance),
			strconv.Itoa(group.EstimatedTime),
			centerLon,
			centerLat,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return formatCoord(*v)
}
