package api

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LoggerMiddleware puts the request id on the request context's logger.
func (svc *APIService) LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Response().Header().Get(echo.HeaderXRequestID)
		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.With(req.Context(), zap.String("request_id", id))))
		return next(ctx)
	}
}

// AuthMiddleware resolves the session cookie to the caller's dashboard.
func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(viper.GetString(constants.ViperCookieNameKey))
		if err != nil || cookie.Value == "" {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		reqCtx := logger.With(ctx.Request().Context(), zap.String("session_id", token.SessionID))
		d, err := svc.registry.Get(reqCtx, token.SessionID)
		if err != nil {
			return err
		}

		ctx.SetRequest(ctx.Request().WithContext(reqCtx))
		ctx.Set(constants.CtxKeySessionID, token.SessionID)
		ctx.Set(constants.CtxKeyDashboard, d)

		return next(ctx)
	}
}
