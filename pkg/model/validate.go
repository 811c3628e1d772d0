package model

import (
	"fmt"
	"strings"
)

// Survey-area coordinate bounds (WGS84, Taiwan).
const (
	minSurveyLon = 119.0
	maxSurveyLon = 122.5
	minSurveyLat = 21.5
	maxSurveyLat = 25.5
)

// ValidateAddress reports the problems that would make an address unusable
// for grouping. An empty slice means the address is well formed.
func ValidateAddress(addr *Address) []string {
	var problems []string

	if strings.TrimSpace(addr.District) == "" {
		problems = append(problems, "missing district")
	}
	if strings.TrimSpace(addr.Village) == "" {
		problems = append(problems, "missing village")
	}
	if addr.Neighborhood < 1 {
		problems = append(problems, fmt.Sprintf("invalid neighborhood number %d", addr.Neighborhood))
	}
	if strings.TrimSpace(addr.FullAddress) == "" {
		problems = append(problems, "empty full address")
	}

	if addr.HasValidCoordinates() {
		if *addr.Lon < minSurveyLon || *addr.Lon > maxSurveyLon {
			problems = append(problems, fmt.Sprintf("longitude %v outside survey area", *addr.Lon))
		}
		if *addr.Lat < minSurveyLat || *addr.Lat > maxSurveyLat {
			problems = append(problems, fmt.Sprintf("latitude %v outside survey area", *addr.Lat))
		}
	}

	return problems
}
