package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/service/dashboard"
)

type categoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type selectRequest struct {
	ID string `json:"id" validate:"required"`
}

func (c *Controller) GetDashboard(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) SearchCustomers(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	found := d.Search(ctx.QueryParam("search"))
	return ctx.JSON(http.StatusOK, dashboard.CustomerViews(found))
}

func (c *Controller) SetCategory(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return err
	}

	if err := d.SetCategory(ctx.Request().Context(), category); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) SelectCustomer(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req selectRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := d.Select(req.ID); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) RefreshDashboard(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	if err := d.Refresh(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}
