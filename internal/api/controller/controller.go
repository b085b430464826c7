package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/service/dashboard"
)

type Controller struct {
	registry *dashboard.Registry
}

func NewController(registry *dashboard.Registry) *Controller {
	return &Controller{registry: registry}
}

func dashboardFrom(ctx echo.Context) (*dashboard.Dashboard, error) {
	d, ok := ctx.Get(constants.CtxKeyDashboard).(*dashboard.Dashboard)
	if !ok || d == nil {
		return nil, constants.ErrUnauthorized
	}
	return d, nil
}
