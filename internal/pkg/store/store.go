package store

import (
	"context"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store is the PostgreSQL implementation of the remote data gateway.
type Store interface {
	ListCustomers(ctx context.Context, category domain.Category) ([]*dto.CustomerRow, error)
	InsertCustomer(ctx context.Context, c dto.NewCustomer) (string, error)
	DeleteCustomer(ctx context.Context, id string) error

	InsertRate(ctx context.Context, r dto.RateInput) (string, error)
	UpdateRate(ctx context.Context, id string, r dto.RateInput) error
	DeleteRate(ctx context.Context, id string) error

	ListDropRates(ctx context.Context) ([]*dto.DropRateRow, error)
	UpsertDropRate(ctx context.Context, r dto.DropRateInput) error
	DeleteDropRate(ctx context.Context, supplier string) error

	IsAdmin(ctx context.Context, userID string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
