package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/spf13/viper"
)

func withSecret(t *testing.T, s string) {
	t.Helper()
	viper.Set(constants.ViperSecretKey, s)
	t.Cleanup(viper.Reset)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret")

	in := &AuthTokenWrapper{UserID: "u-1", Email: "a@b.c", SessionID: "s-1"}
	token, err := GenerateAuthToken(in, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}
	if in.ExpiresAt.IsZero() {
		t.Fatal("expected ExpiresAt to be filled")
	}

	out, err := ParseAuthToken(token)
	if err != nil {
		t.Fatalf("ParseAuthToken: %v", err)
	}
	if out.UserID != "u-1" || out.Email != "a@b.c" || out.SessionID != "s-1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestParseAuthTokenRejectsExpired(t *testing.T) {
	withSecret(t, "test-secret")

	token, err := GenerateAuthToken(&AuthTokenWrapper{UserID: "u-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	_, err = ParseAuthToken(token)
	if !errors.Is(err, constants.ErrInvalidAuthToken) {
		t.Fatalf("expected ErrInvalidAuthToken, got %v", err)
	}
}

func TestParseAuthTokenRejectsForeignSecret(t *testing.T) {
	withSecret(t, "one")
	token, err := GenerateAuthToken(&AuthTokenWrapper{UserID: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	viper.Set(constants.ViperSecretKey, "two")
	if _, err := ParseAuthToken(token); !errors.Is(err, constants.ErrInvalidAuthToken) {
		t.Fatalf("expected ErrInvalidAuthToken, got %v", err)
	}
}
