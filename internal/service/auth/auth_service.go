// Package auth is the auth side of the remote data gateway: password sign-in
// against the users table, signed access tokens and state-change notifications.
// One Client represents one signed-in browser.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type listener func(domain.AuthEvent, *domain.AuthSession)

type Client struct {
	users gateway.Users
	ttl   time.Duration

	mu        sync.Mutex
	session   *domain.AuthSession
	listeners map[int]listener
	nextID    int
}

func NewClient(users gateway.Users, ttl time.Duration) *Client {
	return &Client{
		users:     users,
		ttl:       ttl,
		listeners: make(map[int]listener),
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	user, err := c.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrBadCredentials
		}
		return nil, fmt.Errorf("users.GetUserByEmail: %w", constants.NewGatewayError(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, constants.ErrBadCredentials
	}

	sess, err := c.issue(user.ID, user.Email, uuid.NewString())
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "login: userID: [%v]", user.ID)

	c.set(sess, domain.AuthEventSignedIn)
	return sess, nil
}

// Refresh re-issues the access token of the current session.
func (c *Client) Refresh(ctx context.Context) (*domain.AuthSession, error) {
	current, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrUnauthorized
	}

	sess, err := c.issue(current.UserID, current.Email, current.SessionID)
	if err != nil {
		return nil, err
	}

	c.set(sess, domain.AuthEventTokenRefreshed)
	return sess, nil
}

func (c *Client) SignOut(context.Context) error {
	c.set(nil, domain.AuthEventSignedOut)
	return nil
}

// GetSession returns nil once the access token has expired.
func (c *Client) GetSession(ctx context.Context) (*domain.AuthSession, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil, nil
	}

	if _, err := utils.ParseAuthToken(sess.AccessToken); err != nil {
		logger.Debugf(ctx, "session %s is no longer valid: %s", sess.SessionID, err.Error())
		return nil, nil
	}

	cp := *sess
	return &cp, nil
}

func (c *Client) OnAuthStateChange(fn func(domain.AuthEvent, *domain.AuthSession)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) issue(userID, email, sessionID string) (*domain.AuthSession, error) {
	wrapper := &utils.AuthTokenWrapper{UserID: userID, Email: email, SessionID: sessionID}
	token, err := utils.GenerateAuthToken(wrapper, c.ttl)
	if err != nil {
		return nil, fmt.Errorf("utils.GenerateAuthToken: %w", err)
	}

	return &domain.AuthSession{
		SessionID:   sessionID,
		UserID:      userID,
		Email:       email,
		AccessToken: token,
		ExpiresAt:   wrapper.ExpiresAt,
	}, nil
}

// set swaps the session and notifies listeners outside the lock, so a listener may
// call back into the client.
func (c *Client) set(sess *domain.AuthSession, event domain.AuthEvent) {
	c.mu.Lock()
	c.session = sess
	fns := make([]listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	var payload *domain.AuthSession
	if sess != nil {
		cp := *sess
		payload = &cp
	}
	for _, fn := range fns {
		fn(event, payload)
	}
}
