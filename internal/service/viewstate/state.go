// Package viewstate holds the dashboard view state and the only code allowed to
// change it. Reduce is a pure transition function; Synchronizer serializes events
// into it and performs the fetches the transitions ask for.
package viewstate

import (
	"math"
	"sort"
	"strings"

	"github.com/ougirez/transport-index/internal/domain"
)

type State struct {
	Category   domain.Category
	Customers  map[domain.Category][]domain.Customer
	DropRates  []domain.DropRate
	DropLoaded bool
	SelectedID string
	Loading    bool
	LastError  string

	// Requests maps a category to the id of the newest fetch issued for it.
	// Responses carrying any other id are stale.
	Requests    map[domain.Category]uint64
	LastRequest uint64

	// PendingSelect is applied by the next successful fetch that contains it.
	PendingSelect string
}

// List is the loaded customer list of the current category.
func (s State) List() []domain.Customer {
	return s.Customers[s.Category]
}

func (s State) Loaded(c domain.Category) bool {
	if c == domain.CategoryDROP {
		return s.DropLoaded
	}
	_, ok := s.Customers[c]
	return ok
}

func (s State) Selected() (domain.Customer, bool) {
	if s.SelectedID == "" {
		return domain.Customer{}, false
	}
	for _, c := range s.List() {
		if c.ID == s.SelectedID {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// SortedRates returns the selected customer's rates, cheapest first. Rates with a
// NaN price go last.
func (s State) SortedRates() []domain.SupplierRate {
	c, ok := s.Selected()
	if !ok {
		return []domain.SupplierRate{}
	}
	return SortRates(c.Rates)
}

func SortRates(rates []domain.SupplierRate) []domain.SupplierRate {
	sorted := make([]domain.SupplierRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Price, sorted[j].Price
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
	return sorted
}

// Search filters the current list by a case-insensitive substring of the name.
func (s State) Search(query string) []domain.Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	found := make([]domain.Customer, 0)
	for _, c := range s.List() {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
			found = append(found, c)
		}
	}
	return found
}

func contains(list []domain.Customer, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

// repairSelection keeps selected if it is still in list, otherwise falls back to
// the first customer or to nothing.
func repairSelection(selected string, list []domain.Customer) string {
	if selected != "" && contains(list, selected) {
		return selected
	}
	if len(list) > 0 {
		return list[0].ID
	}
	return ""
}
