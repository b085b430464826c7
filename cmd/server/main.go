package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/transport-index/internal/api"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/gateway/memgw"
	"github.com/ougirez/transport-index/internal/pkg/config"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/pkg/store"
	"github.com/ougirez/transport-index/internal/pkg/store/xpgx"
	"github.com/ougirez/transport-index/internal/service/dashboard"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a config file")
	pflag.Parse()

	if err := config.Load(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogLevelKey)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, closeGateway, err := openGateway(ctx)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer closeGateway()

	registry := dashboard.NewRegistry(gw, viper.GetDuration(constants.ViperTokenTTLKey))
	defer registry.Close()

	svc, err := api.NewAPIService(registry)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	errCh := make(chan error, 1)
	go func() {
		addr := viper.GetString(constants.ViperServerAddrKey)
		logger.Infof(ctx, "listening on %s", addr)
		errCh <- svc.Serve(addr)
	}()

	select {
	case err := <-errCh:
		logger.Fatal(ctx, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %v", err)
	}
	logger.Infof(shutdownCtx, "server stopped")
}

func openGateway(ctx context.Context) (gateway.Gateway, func(), error) {
	switch viper.GetString(constants.ViperGatewayDriverKey) {
	case constants.GatewayDriverPostgres:
		pool, err := xpgx.Connect(ctx,
			viper.GetString(constants.ViperPostgresDSNKey),
			uint64(viper.GetInt(constants.ViperPostgresConnectRetries)),
			viper.GetDuration(constants.ViperPostgresConnectInterval),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("xpgx.Connect: %w", err)
		}
		return store.NewStore(pool), pool.Close, nil

	default:
		gw := memgw.New()
		if err := gw.Seed(ctx); err != nil {
			return nil, nil, fmt.Errorf("memgw.Seed: %w", err)
		}
		users := []struct {
			email, password string
			admin           bool
		}{
			{viper.GetString(constants.ViperMemoryAdminEmailKey), viper.GetString(constants.ViperMemoryAdminPasswordKey), true},
			{viper.GetString(constants.ViperMemoryViewerEmailKey), viper.GetString(constants.ViperMemoryViewerPasswordKey), false},
		}
		for _, u := range users {
			if _, err := gw.AddUser(u.email, u.password, u.admin); err != nil {
				return nil, nil, fmt.Errorf("memgw.AddUser %s: %w", u.email, err)
			}
		}
		logger.Infof(ctx, "using in-memory gateway with demo data")
		return gw, func() {}, nil
	}
}
