package controller

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/service/gate"
)

// number accepts a JSON number or a string holding one. Parsing is left to the
// gate so that malformed input gets a field error.
type number string

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := sonic.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = number(str)
	default:
		*n = number(s)
	}
	return nil
}

// Form fields are checked by the gate after the role check, so these requests
// carry no validation tags.

type customerRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type rateRequest struct {
	Supplier string `json:"supplier"`
	Price    number `json:"price"`
	Note     string `json:"note"`
}

func (r rateRequest) form() gate.RateForm {
	return gate.RateForm{Supplier: r.Supplier, Price: string(r.Price), Note: r.Note}
}

type dropRateRequest struct {
	Supplier  string `json:"supplier"`
	Heavy     number `json:"heavy"`
	Light     number `json:"light"`
	OpenCheck number `json:"open_check"`
}

func (c *Controller) AddCustomer(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	form := gate.CustomerForm{Name: req.Name, Location: req.Location}
	if _, err := d.Gate().AddCustomer(ctx.Request().Context(), form); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

func (c *Controller) DeleteCustomer(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	if err := d.Gate().DeleteCustomer(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) AddRate(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req rateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if _, err := d.Gate().AddRate(ctx.Request().Context(), req.form()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

func (c *Controller) UpdateRate(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req rateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := d.Gate().UpdateRate(ctx.Request().Context(), ctx.Param("id"), req.form()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) DeleteRate(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	if err := d.Gate().DeleteRate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) UpsertDropRate(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var req dropRateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	form := gate.DropRateForm{
		Supplier:  req.Supplier,
		Heavy:     string(req.Heavy),
		Light:     string(req.Light),
		OpenCheck: string(req.OpenCheck),
	}
	if err := d.Gate().UpsertDropRate(ctx.Request().Context(), form); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (c *Controller) DeleteDropRate(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	if err := d.Gate().DeleteDropRate(ctx.Request().Context(), ctx.Param("supplier")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d.View())
}
