// Package gateway describes the remote data gateway: the hosted relational store
// with its auth API and the privileged role-check function. Row-level security
// lives behind this contract; clients never read role flags directly.
package gateway

import (
	"context"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
)

type Auth interface {
	// GetSession returns nil when nobody is signed in.
	GetSession(ctx context.Context) (*domain.AuthSession, error)
	// OnAuthStateChange registers fn for sign-in, sign-out and token refresh
	// notifications. The returned func removes the listener.
	OnAuthStateChange(fn func(domain.AuthEvent, *domain.AuthSession)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context) error
}

// Authority answers the privileged "is this user an admin" question server-side.
type Authority interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Fetcher interface {
	ListCustomers(ctx context.Context, category domain.Category) ([]*dto.CustomerRow, error)
	ListDropRates(ctx context.Context) ([]*dto.DropRateRow, error)
}

type Writer interface {
	InsertCustomer(ctx context.Context, c dto.NewCustomer) (string, error)
	DeleteCustomer(ctx context.Context, id string) error
	InsertRate(ctx context.Context, r dto.RateInput) (string, error)
	UpdateRate(ctx context.Context, id string, r dto.RateInput) error
	DeleteRate(ctx context.Context, id string) error
	UpsertDropRate(ctx context.Context, r dto.DropRateInput) error
	DeleteDropRate(ctx context.Context, supplier string) error
}

type Users interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Gateway is everything a dashboard needs from the data side.
type Gateway interface {
	Fetcher
	Writer
	Authority
	Users
}
