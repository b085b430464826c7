// Package mapper turns gateway rows into the dashboard view model.
package mapper

import (
	"math"
	"strings"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/shopspring/decimal"
)

// ParseNumber returns NaN for anything that is not a finite decimal number.
func ParseNumber(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return math.NaN()
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// MapRows keeps the gateway's order. Rates are never nil.
func MapRows(rows []*dto.CustomerRow) []domain.Customer {
	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}

		rates := make([]domain.SupplierRate, 0, len(row.Rates))
		for _, r := range row.Rates {
			rates = append(rates, domain.SupplierRate{
				ID:         r.ID,
				CustomerID: r.CustomerID,
				Supplier:   r.Supplier,
				Price:      ParseNumber(r.Price.String()),
				Note:       r.Note,
			})
		}

		customers = append(customers, domain.Customer{
			ID:       row.ID,
			Category: domain.Category(row.Mode),
			Name:     row.Name,
			Location: row.Location,
			Rates:    rates,
		})
	}
	return customers
}

func MapDropRows(rows []*dto.DropRateRow) []domain.DropRate {
	drops := make([]domain.DropRate, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		drops = append(drops, domain.DropRate{
			ID:        row.ID,
			Supplier:  row.Supplier,
			Heavy:     ParseNumber(row.Heavy),
			Light:     ParseNumber(row.Light),
			OpenCheck: ParseNumber(row.OpenCheck),
		})
	}
	return drops
}
