package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/spf13/viper"
)

// AuthTokenWrapper is the payload of an access token.
type AuthTokenWrapper struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"-"`
}

type authClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.StandardClaims
}

func secret() ([]byte, error) {
	s := viper.GetString(constants.ViperSecretKey)
	if s == "" {
		return nil, fmt.Errorf("%s is empty", constants.ViperSecretKey)
	}
	return []byte(s), nil
}

// GenerateAuthToken signs wrapper with the configured secret. The token expires
// after ttl.
func GenerateAuthToken(wrapper *AuthTokenWrapper, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := authClaims{
		UserID:    wrapper.UserID,
		Email:     wrapper.Email,
		SessionID: wrapper.SessionID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Subject:   wrapper.UserID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString: %w", err)
	}

	wrapper.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	return token, nil
}

// ParseAuthToken validates signature and expiry. Any failure is reported as
// constants.ErrInvalidAuthToken.
func ParseAuthToken(token string) (*AuthTokenWrapper, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	var claims authClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrInvalidAuthToken, err)
	}

	return &AuthTokenWrapper{
		UserID:    claims.UserID,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}
