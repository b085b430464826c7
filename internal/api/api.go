package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/transport-index/internal/api/controller"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/service/dashboard"
	"github.com/spf13/viper"
)

type APIService struct {
	router   *echo.Echo
	registry *dashboard.Registry
}

// Serve blocks until the server stops. A regular shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(registry *dashboard.Registry) (*APIService, error) {
	svc := &APIService{router: echo.New(), registry: registry}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.WARN)
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	svc.router.Use(svc.LoggerMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     viper.GetStringSlice(constants.ViperCORSAllowOriginsKey),
		AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	cntrl := controller.NewController(registry)

	svc.router.GET("/health", cntrl.Health)

	api := svc.router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", cntrl.Login)
	auth.POST("/logout", cntrl.Logout, svc.AuthMiddleware)
	auth.POST("/refresh", cntrl.RefreshToken, svc.AuthMiddleware)

	board := api.Group("/dashboard", svc.AuthMiddleware)
	board.GET("", cntrl.GetDashboard)
	board.GET("/customers", cntrl.SearchCustomers)
	board.POST("/category", cntrl.SetCategory)
	board.POST("/select", cntrl.SelectCustomer)
	board.POST("/refresh", cntrl.RefreshDashboard)

	customers := api.Group("/customers", svc.AuthMiddleware)
	customers.POST("", cntrl.AddCustomer)
	customers.DELETE("/:id", cntrl.DeleteCustomer)

	rates := api.Group("/rates", svc.AuthMiddleware)
	rates.POST("", cntrl.AddRate)
	rates.PUT("/:id", cntrl.UpdateRate)
	rates.DELETE("/:id", cntrl.DeleteRate)

	drops := api.Group("/drop-rates", svc.AuthMiddleware)
	drops.POST("", cntrl.UpsertDropRate)
	drops.DELETE("/:supplier", cntrl.DeleteDropRate)

	api.GET("/export", cntrl.Export, svc.AuthMiddleware)

	return svc, nil
}
