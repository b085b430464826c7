package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/spf13/viper"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func setSessionCookie(ctx echo.Context, sess *domain.AuthSession) {
	ctx.SetCookie(&http.Cookie{
		Name:     viper.GetString(constants.ViperCookieNameKey),
		Value:    sess.AccessToken,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Controller) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	d, sess, err := c.registry.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookie(ctx, sess)
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) Logout(ctx echo.Context) error {
	sessionID, _ := ctx.Get(constants.CtxKeySessionID).(string)
	if err := c.registry.Logout(ctx.Request().Context(), sessionID); err != nil {
		return err
	}

	ctx.SetCookie(&http.Cookie{
		Name:     viper.GetString(constants.ViperCookieNameKey),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) RefreshToken(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	sess, err := d.RefreshToken(ctx.Request().Context())
	if err != nil {
		return err
	}

	setSessionCookie(ctx, sess)
	current, _ := d.Session()
	return ctx.JSON(http.StatusOK, current)
}

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
