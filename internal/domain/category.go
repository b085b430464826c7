package domain

import (
	"fmt"
	"strings"

	"github.com/ougirez/transport-index/internal/pkg/constants"
)

type Category string

const (
	CategoryFCL  Category = "FCL"
	CategoryLCL  Category = "LCL"
	CategoryDROP Category = "DROP"
)

var Categories = []Category{CategoryFCL, CategoryLCL, CategoryDROP}

// HasCustomers reports whether the category is partitioned into customers with
// per-customer rates. DROP rates stand alone.
func (c Category) HasCustomers() bool {
	return c == CategoryFCL || c == CategoryLCL
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryFCL, CategoryLCL, CategoryDROP:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", constants.ErrUnknownCategory, s)
}

// VehicleTypes are the note codes accepted for LCL rates.
var VehicleTypes = []string{"4W", "6W", "10W"}
