package gate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

type CustomerForm struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

type RateForm struct {
	Supplier string `json:"supplier" validate:"required"`
	Price    string `json:"price" validate:"required,decimal"`
	Note     string `json:"note"`
}

type DropRateForm struct {
	Supplier  string `json:"supplier" validate:"required"`
	Heavy     string `json:"heavy" validate:"omitempty,decimal"`
	Light     string `json:"light" validate:"omitempty,decimal"`
	OpenCheck string `json:"open_check" validate:"omitempty,decimal"`
}

// Forms are the drafts of the last submitted writes. A failed write keeps its
// draft, a successful one clears it.
type Forms struct {
	Customer CustomerForm `json:"customer"`
	Rate     RateForm     `json:"rate"`
	DropRate DropRateForm `json:"drop_rate"`
}

func (f CustomerForm) trimmed() CustomerForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

func (f RateForm) trimmed() RateForm {
	f.Supplier = strings.TrimSpace(f.Supplier)
	f.Price = strings.TrimSpace(f.Price)
	f.Note = strings.TrimSpace(f.Note)
	return f
}

func (f DropRateForm) trimmed() DropRateForm {
	f.Supplier = strings.TrimSpace(f.Supplier)
	f.Heavy = strings.TrimSpace(f.Heavy)
	f.Light = strings.TrimSpace(f.Light)
	f.OpenCheck = strings.TrimSpace(f.OpenCheck)
	return f
}

// FieldError names the form field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return constants.ErrValidation
}

var vehicleTypeRule = "required,oneof=" + strings.Join(domain.VehicleTypes, " ")

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	return v
}

// fieldError turns the first validator failure into a FieldError. field is used
// for errors from Var, which carry no field name.
func fieldError(err error, field string) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("%w: %v", constants.ErrValidation, err)
	}

	fe := errs[0]
	if name := fe.Field(); name != "" {
		field = name
	}

	switch fe.Tag() {
	case "required":
		return &FieldError{Field: field, Message: "is required"}
	case "decimal":
		return &FieldError{Field: field, Message: "must be a number"}
	case "oneof":
		return &FieldError{Field: field, Message: "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")}
	}
	return &FieldError{Field: field, Message: "is invalid"}
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
