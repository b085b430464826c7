package viewstate

import (
	"github.com/ougirez/transport-index/internal/domain"
)

type Event interface {
	isEvent()
}

type CategoryChanged struct {
	Category domain.Category
}

type RefreshRequested struct{}

type FetchSucceeded struct {
	Category  domain.Category
	Request   uint64
	Customers []domain.Customer
	DropRates []domain.DropRate
}

type FetchFailed struct {
	Category domain.Category
	Request  uint64
	Err      error
}

type CustomerSelected struct {
	ID string
}

type MutationStarted struct{}

// MutationSucceeded asks for a full reload of the current category. SelectID, when
// set, becomes the selection once the reload contains it.
type MutationSucceeded struct {
	SelectID string
}

type MutationFailed struct {
	Err error
}

// ErrorReported surfaces an error from outside the fetch/mutation cycle, such as a
// misconfigured role check.
type ErrorReported struct {
	Err error
}

func (CategoryChanged) isEvent() {}
func (RefreshRequested) isEvent() {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent() {}
func (CustomerSelected) isEvent() {}
func (MutationStarted) isEvent() {}
func (MutationSucceeded) isEvent() {}
func (MutationFailed) isEvent() {}
func (ErrorReported) isEvent() {}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s State) withRequest() State {
	requests := make(map[domain.Category]uint64, len(s.Requests)+1)
	for k, v := range s.Requests {
		requests[k] = v
	}
	s.LastRequest++
	requests[s.Category] = s.LastRequest
	s.Requests = requests
	s.Loading = true
	return s
}

func (s State) stale(category domain.Category, request uint64) bool {
	return category != s.Category || request != s.Requests[category]
}

// Reduce returns the state after ev. It never modifies the maps or slices of s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case CategoryChanged:
		s.Category = ev.Category
		s.LastError = ""
		s.PendingSelect = ""
		if ev.Category.HasCustomers() {
			s.SelectedID = repairSelection(s.SelectedID, s.Customers[ev.Category])
		} else {
			s.SelectedID = ""
		}
		return s.withRequest()

	case RefreshRequested:
		return s.withRequest()

	case FetchSucceeded:
		if s.stale(ev.Category, ev.Request) {
			return s
		}
		if ev.Category.HasCustomers() {
			customers := make(map[domain.Category][]domain.Customer, len(s.Customers)+1)
			for k, v := range s.Customers {
				customers[k] = v
			}
			list := ev.Customers
			if list == nil {
				list = []domain.Customer{}
			}
			customers[ev.Category] = list
			s.Customers = customers

			selected := s.SelectedID
			if s.PendingSelect != "" && contains(list, s.PendingSelect) {
				selected = s.PendingSelect
			}
			s.SelectedID = repairSelection(selected, list)
		} else {
			drops := ev.DropRates
			if drops == nil {
				drops = []domain.DropRate{}
			}
			s.DropRates = drops
			s.DropLoaded = true
		}
		s.PendingSelect = ""
		s.Loading = false
		return s

	case FetchFailed:
		if s.stale(ev.Category, ev.Request) {
			return s
		}
		s.LastError = errText(ev.Err)
		s.Loading = false
		return s

	case CustomerSelected:
		if s.Category.HasCustomers() && contains(s.List(), ev.ID) {
			s.SelectedID = ev.ID
		}
		return s

	case MutationStarted:
		s.LastError = ""
		return s

	case MutationSucceeded:
		s.PendingSelect = ev.SelectID
		return s.withRequest()

	case MutationFailed:
		s.LastError = errText(ev.Err)
		return s

	case ErrorReported:
		s.LastError = errText(ev.Err)
		return s
	}

	return s
}
