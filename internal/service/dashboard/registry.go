package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/service/auth"
)

type Registry struct {
	gw  gateway.Gateway
	ttl time.Duration

	mu         sync.RWMutex
	dashboards map[string]*Dashboard
}

func NewRegistry(gw gateway.Gateway, ttl time.Duration) *Registry {
	return &Registry{
		gw:         gw,
		ttl:        ttl,
		dashboards: make(map[string]*Dashboard),
	}
}

// Login signs in and opens a dashboard for the new auth session.
func (r *Registry) Login(ctx context.Context, email, password string) (*Dashboard, *domain.AuthSession, error) {
	client := auth.NewClient(r.gw, r.ttl)
	sess, err := client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	d := open(r.gw, client, sess.SessionID)

	r.mu.Lock()
	r.dashboards[sess.SessionID] = d
	r.mu.Unlock()

	logger.Infof(ctx, "dashboard %s opened for %s", sess.SessionID, sess.Email)
	return d, sess, nil
}

// Get returns the dashboard of a live session. Dashboards whose session has
// expired are closed and forgotten.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Dashboard, error) {
	r.mu.RLock()
	d, ok := r.dashboards[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, constants.ErrUnauthorized
	}

	sess, err := d.auth.GetSession(ctx)
	if err != nil || sess == nil {
		r.remove(sessionID)
		d.close()
		return nil, constants.ErrUnauthorized
	}
	return d, nil
}

func (r *Registry) Logout(ctx context.Context, sessionID string) error {
	d := r.remove(sessionID)
	if d == nil {
		return nil
	}

	logger.Infof(ctx, "dashboard %s closed", sessionID)
	return d.signOut(ctx)
}

func (r *Registry) remove(sessionID string) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.dashboards[sessionID]
	delete(r.dashboards, sessionID)
	return d
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dashboards)
}

// Close closes every dashboard. Used on server shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	dashboards := r.dashboards
	r.dashboards = make(map[string]*Dashboard)
	r.mu.Unlock()

	for _, d := range dashboards {
		d.close()
	}
}
