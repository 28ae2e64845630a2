package budget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mepalumni/mepbudget/internal/model"
)

// DefaultCatalog returns the fixed heading table the simulation starts from.
// Amounts are in billions.
func DefaultCatalog() []model.HeadingSpec {
	return []model.HeadingSpec{
		{ID: 1, Name: "Single Market, Innovation, Digital", TotalBudget: 260, InitialNegotiable: 70},
		{ID: 2, Name: "Cohesion, Resilience, Values", TotalBudget: 700, InitialNegotiable: 50},
		{ID: 3, Name: "Natural Resources, Environment", TotalBudget: 500, InitialNegotiable: 25},
		{ID: 4, Name: "Migration and Border Management", TotalBudget: 60, InitialNegotiable: 10},
		{ID: 5, Name: "Security and Defence", TotalBudget: 100, InitialNegotiable: 100},
		{ID: 6, Name: "Neighbourhood and the World", TotalBudget: 180, InitialNegotiable: 45},
		{ID: 7, Name: "European Public Administration", TotalBudget: 160, InitialNegotiable: 0},
	}
}

// ValidateCatalog checks that a catalog can seed a session: at least one
// heading, unique positive IDs, non-empty names and non-negative amounts.
func ValidateCatalog(catalog []model.HeadingSpec) error {
	if len(catalog) == 0 {
		return errors.New("catalog has no headings")
	}
	seen := make(map[int]struct{}, len(catalog))
	for i, h := range catalog {
		if h.ID <= 0 {
			return fmt.Errorf("catalog row %d: heading id must be positive, got %d", i, h.ID)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("catalog row %d: duplicate heading id %d", i, h.ID)
		}
		seen[h.ID] = struct{}{}
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("catalog row %d: heading %d has no name", i, h.ID)
		}
		if h.TotalBudget < 0 || h.InitialNegotiable < 0 {
			return fmt.Errorf("catalog row %d: heading %d has a negative budget", i, h.ID)
		}
	}
	return nil
}
