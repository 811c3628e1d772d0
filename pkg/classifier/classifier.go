// Package classifier assigns each address a category and a grouping key.
//
// The priority is strict: a non-blank street wins, then a non-blank area,
// then the neighborhood number. Blank or whitespace-only fields count as
// absent. Classification is a pure transform and can be re-run freely.
package classifier

import (
	"fmt"
	"strings"

	"github.com/fieldops/surveyroute/pkg/model"
)

// Classify returns the category and grouping key of one address.
func Classify(addr *model.Address) (model.AddressCategory, string) {
	if street := strings.TrimSpace(addr.Street); street != "" {
		return model.CategoryStreet, street
	}

	if area := strings.TrimSpace(addr.Area); area != "" {
		return model.CategoryArea, area
	}

	return model.CategoryNeighbor, NeighborhoodKey(addr.Neighborhood)
}

// NeighborhoodKey formats the grouping key used for addresses that fall
// through to the neighborhood tier.
func NeighborhoodKey(neighborhood int) string {
	return fmt.Sprintf("neighborhood %d", neighborhood)
}

// Enrich classifies every address, pairing each record with its category and
// key. The input is not mutated.
func Enrich(addrs []model.Address) []model.ClassifiedAddress {
	classified := make([]model.ClassifiedAddress, len(addrs))
	for i := range addrs {
		category, key := Classify(&addrs[i])
		classified[i] = model.ClassifiedAddress{
			Address:  addrs[i],
			Category: category,
			Key:      key,
		}
	}
	return classified
}
