// Package importer loads address records from CSV files.
//
// Expected header: id, district, village, neighborhood, street, area, lane,
// alley, number, lon, lat, full_address. Column order is free; unknown
// columns are ignored. lon/lat may be blank for addresses that were never
// geocoded.
package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/util"
)

// ReadAddresses parses the CSV file at path into address records. Parse
// problems are reported with their 1-based row number.
func ReadAddresses(path string) ([]model.Address, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "open address csv %s", path)
	}
	defer f.Close()

	return parseAddresses(f)
}

func parseAddresses(r io.Reader) ([]model.Address, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "read csv header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		// A UTF-8 BOM on the first cell is common in spreadsheet exports.
		name = strings.TrimPrefix(name, "\ufeff")
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "district", "village", "neighborhood", "full_address"} {
		if _, ok := col[required]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"address csv is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var addrs []model.Address
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "read csv row %d", row)
		}

		id, err := strconv.Atoi(field(record, "id"))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput,
				"row %d: invalid address id %q", row, field(record, "id"))
		}

		neighborhood, err := strconv.Atoi(field(record, "neighborhood"))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput,
				"row %d: invalid neighborhood %q", row, field(record, "neighborhood"))
		}

		addr := model.Address{
			ID:           id,
			District:     field(record, "district"),
			Village:      field(record, "village"),
			Neighborhood: neighborhood,
			Street:       field(record, "street"),
			Area:         field(record, "area"),
			Lane:         field(record, "lane"),
			Alley:        field(record, "alley"),
			Number:       field(record, "number"),
			FullAddress:  field(record, "full_address"),
		}

		if addr.Lon, err = parseOptionalFloat(field(record, "lon")); err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput,
				"row %d: invalid longitude %q", row, field(record, "lon"))
		}
		if addr.Lat, err = parseOptionalFloat(field(record, "lat")); err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput,
				"row %d: invalid latitude %q", row, field(record, "lat"))
		}

		if addr.FullAddress == "" {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"row %d: empty full address", row)
		}

		addrs = append(addrs, addr)
	}

	return addrs, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
