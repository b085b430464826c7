package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/spf13/viper"
)

const envPrefix = "TI"

func setDefaults() {
	viper.SetDefault(constants.ViperServerAddrKey, ":8080")
	viper.SetDefault(constants.ViperLogLevelKey, "info")
	viper.SetDefault(constants.ViperGatewayDriverKey, constants.GatewayDriverMemory)
	viper.SetDefault(constants.ViperPostgresConnectRetries, 10)
	viper.SetDefault(constants.ViperPostgresConnectInterval, 2*time.Second)
	viper.SetDefault(constants.ViperTokenTTLKey, 12*time.Hour)
	viper.SetDefault(constants.ViperCookieNameKey, "ti_session")
	viper.SetDefault(constants.ViperMemoryAdminEmailKey, "admin@transport.local")
	viper.SetDefault(constants.ViperMemoryAdminPasswordKey, "admin123")
	viper.SetDefault(constants.ViperMemoryViewerEmailKey, "viewer@transport.local")
	viper.SetDefault(constants.ViperMemoryViewerPasswordKey, "viewer123")
	viper.SetDefault(constants.ViperCORSAllowOriginsKey, []string{"http://localhost:3000"})
}

// Load fills the global viper instance from defaults, the optional config file at
// path and TI_* environment variables (TI_POSTGRES_DSN and so on).
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("viper.ReadInConfig: %w", err)
			}
		}
	}

	return validate()
}

func validate() error {
	if viper.GetString(constants.ViperSecretKey) == "" {
		return fmt.Errorf("%s is not set", constants.ViperSecretKey)
	}

	switch driver := viper.GetString(constants.ViperGatewayDriverKey); driver {
	case constants.GatewayDriverMemory:
	case constants.GatewayDriverPostgres:
		if viper.GetString(constants.ViperPostgresDSNKey) == "" {
			return fmt.Errorf("%s is required for the %s gateway", constants.ViperPostgresDSNKey, driver)
		}
	default:
		return fmt.Errorf("unknown gateway driver %q", driver)
	}

	return nil
}
