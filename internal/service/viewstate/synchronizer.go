package viewstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/service/mapper"
)

// Synchronizer owns one dashboard's State. Events are applied one at a time; the
// gateway is never called while the lock is held, so a slow fetch does not block
// selection or category switches.
type Synchronizer struct {
	fetcher gateway.Fetcher

	mu    sync.Mutex
	state State
}

func NewSynchronizer(fetcher gateway.Fetcher) *Synchronizer {
	return &Synchronizer{
		fetcher: fetcher,
		state: State{
			Customers: map[domain.Category][]domain.Customer{},
			Requests:  map[domain.Category]uint64{},
			DropRates: []domain.DropRate{},
		},
	}
}

// Dispatch applies ev and returns the resulting state.
func (s *Synchronizer) Dispatch(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ev)
	return s.state
}

// State returns a snapshot. Reduce never mutates a previous state's maps, so the
// snapshot stays valid after later events.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetCategory switches the active category and loads its data. A response for a
// category that is no longer active is dropped.
func (s *Synchronizer) SetCategory(ctx context.Context, category domain.Category) error {
	st := s.Dispatch(CategoryChanged{Category: category})
	return s.fetch(ctx, category, st.Requests[category])
}

func (s *Synchronizer) Refresh(ctx context.Context) error {
	st := s.Dispatch(RefreshRequested{})
	return s.fetch(ctx, st.Category, st.Requests[st.Category])
}

// Select changes the selection to a customer of the current list.
func (s *Synchronizer) Select(id string) error {
	st := s.Dispatch(CustomerSelected{ID: id})
	if st.SelectedID != id {
		return fmt.Errorf("select customer %q: %w", id, constants.ErrDBNotFound)
	}
	return nil
}

func (s *Synchronizer) MutationStarted() {
	s.Dispatch(MutationStarted{})
}

func (s *Synchronizer) MutationFailed(err error) {
	s.Dispatch(MutationFailed{Err: err})
}

// MutationSucceeded reloads the current category. selectID, if not empty, is
// selected once the reloaded list contains it.
func (s *Synchronizer) MutationSucceeded(ctx context.Context, selectID string) error {
	st := s.Dispatch(MutationSucceeded{SelectID: selectID})
	return s.fetch(ctx, st.Category, st.Requests[st.Category])
}

func (s *Synchronizer) ReportError(err error) {
	if err == nil {
		return
	}
	s.Dispatch(ErrorReported{Err: err})
}

func (s *Synchronizer) fetch(ctx context.Context, category domain.Category, request uint64) error {
	if category.HasCustomers() {
		rows, err := s.fetcher.ListCustomers(ctx, category)
		if err != nil {
			err = constants.NewGatewayError(err)
			logger.Errorf(ctx, "viewstate.fetch %s: %v", category, err)
			s.Dispatch(FetchFailed{Category: category, Request: request, Err: err})
			return err
		}
		s.Dispatch(FetchSucceeded{Category: category, Request: request, Customers: mapper.MapRows(rows)})
		return nil
	}

	rows, err := s.fetcher.ListDropRates(ctx)
	if err != nil {
		err = constants.NewGatewayError(err)
		logger.Errorf(ctx, "viewstate.fetch %s: %v", category, err)
		s.Dispatch(FetchFailed{Category: category, Request: request, Err: err})
		return err
	}
	s.Dispatch(FetchSucceeded{Category: category, Request: request, DropRates: mapper.MapDropRows(rows)})
	return nil
}

// Fetch loads category without touching the state. Used by export for categories
// that were never opened.
func (s *Synchronizer) Fetch(ctx context.Context, category domain.Category) ([]domain.Customer, []domain.DropRate, error) {
	if category.HasCustomers() {
		rows, err := s.fetcher.ListCustomers(ctx, category)
		if err != nil {
			return nil, nil, constants.NewGatewayError(err)
		}
		return mapper.MapRows(rows), nil, nil
	}
	rows, err := s.fetcher.ListDropRates(ctx)
	if err != nil {
		return nil, nil, constants.NewGatewayError(err)
	}
	return nil, mapper.MapDropRows(rows), nil
}
