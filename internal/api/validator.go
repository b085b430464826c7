package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/transport-index/internal/pkg/constants"
)

type requestValidator struct {
	validate *validator.Validate
}

func NewValidator() echo.Validator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrValidation, err.Error())
	}
	return nil
}

// binder validates every request it binds.
type binder struct {
	echo.DefaultBinder
}

func NewBinder() echo.Binder {
	return &binder{}
}

func (b *binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		return err
	}
	return c.Validate(i)
}
