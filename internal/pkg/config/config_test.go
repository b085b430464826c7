package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("TI_AUTH_SECRET", "s3cret")

	if err := Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := viper.GetString(constants.ViperGatewayDriverKey); got != constants.GatewayDriverMemory {
		t.Fatalf("gateway driver = %q, want %q", got, constants.GatewayDriverMemory)
	}
	if got := viper.GetDuration(constants.ViperTokenTTLKey); got != 12*time.Hour {
		t.Fatalf("token ttl = %v", got)
	}
	if got := viper.GetString(constants.ViperSecretKey); got != "s3cret" {
		t.Fatalf("secret from env = %q", got)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	resetViper(t)

	if err := Load(""); err == nil {
		t.Fatal("expected error without auth secret")
	}
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "auth:\n  secret: abc\ngateway:\n  driver: postgres\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Load(path); err == nil {
		t.Fatal("expected error for postgres driver without dsn")
	}

	t.Setenv("TI_POSTGRES_DSN", "postgres://localhost/ti")
	if err := Load(path); err != nil {
		t.Fatalf("Load with dsn: %v", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	resetViper(t)
	t.Setenv("TI_AUTH_SECRET", "x")
	t.Setenv("TI_GATEWAY_DRIVER", "mongo")

	if err := Load(""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
