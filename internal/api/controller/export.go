package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/service/export"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (c *Controller) Export(ctx echo.Context) error {
	d, err := dashboardFrom(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := d.Export(ctx.Request().Context(), &buf); err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName(time.Now())))
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
