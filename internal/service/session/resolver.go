// Package session derives the current identity and admin role from the auth
// session and the privileged role check.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
)

// Resolver keeps the latest resolved Session. Until a resolution finishes, the
// session counts as unresolved and Current reports false.
type Resolver struct {
	auth      gateway.Auth
	authority gateway.Authority

	mu         sync.RWMutex
	session    domain.Session
	resolved   bool
	err        error
	generation uint64

	onResolved func(domain.Session, error)
}

func NewResolver(auth gateway.Auth, authority gateway.Authority) *Resolver {
	return &Resolver{auth: auth, authority: authority}
}

// OnResolved registers fn to be called after every completed resolution. Only one
// callback is kept.
func (r *Resolver) OnResolved(fn func(domain.Session, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResolved = fn
}

func (r *Resolver) Current() (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session, r.resolved
}

// Err is the error of the latest resolution, if any.
func (r *Resolver) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Resolve recomputes the session. A failing role check fails closed: the identity
// is kept, IsAdmin is false and the error wraps constants.ErrRoleCheckMisconfigured.
func (r *Resolver) Resolve(ctx context.Context) (domain.Session, error) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.resolved = false
	r.mu.Unlock()

	sess, err := r.resolve(ctx)

	r.mu.Lock()
	if gen != r.generation {
		// a newer auth event started another resolution
		r.mu.Unlock()
		logger.Debugf(ctx, "dropping stale session resolution %d", gen)
		return sess, err
	}
	r.session = sess
	r.resolved = true
	r.err = err
	cb := r.onResolved
	r.mu.Unlock()

	if cb != nil {
		cb(sess, err)
	}
	return sess, err
}

func (r *Resolver) resolve(ctx context.Context) (domain.Session, error) {
	authSession, err := r.auth.GetSession(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("auth.GetSession: %w", constants.NewGatewayError(err))
	}
	if authSession == nil || authSession.UserID == "" {
		return domain.Session{}, nil
	}

	sess := domain.Session{Identity: authSession.Email}
	if sess.Identity == "" {
		sess.Identity = authSession.UserID
	}

	isAdmin, err := r.authority.IsAdmin(ctx, authSession.UserID)
	if err != nil {
		logger.Errorf(ctx, "is_admin check failed for %s: %s", authSession.UserID, err.Error())
		return sess, fmt.Errorf("%w: %v", constants.ErrRoleCheckMisconfigured, err)
	}

	sess.IsAdmin = isAdmin
	return sess, nil
}

// Start resolves once and then again on every auth state change until the
// returned stop func is called.
func (r *Resolver) Start(ctx context.Context) (stop func()) {
	unsubscribe := r.auth.OnAuthStateChange(func(event domain.AuthEvent, _ *domain.AuthSession) {
		logger.Debugf(ctx, "auth state changed: %s", event)
		_, _ = r.Resolve(ctx)
	})

	_, _ = r.Resolve(ctx)
	return unsubscribe
}
