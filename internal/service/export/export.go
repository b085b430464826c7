// Package export renders the price lists as an Excel workbook with one sheet per
// category.
package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var (
	customerHeader = []interface{}{"Mode", "Customer", "GoogleMap", "Supplier", "Note", "Price"}
	dropHeader     = []interface{}{"Mode", "Supplier", "Heavy", "Light", "OpenCheck"}
)

type Data struct {
	FCL       []domain.Customer
	LCL       []domain.Customer
	DropRates []domain.DropRate
}

func FileName(now time.Time) string {
	return fmt.Sprintf("transport_index_%s.xlsx", now.Format("2006-01-02"))
}

// number leaves the cell blank for NaN.
func number(f float64) interface{} {
	if math.IsNaN(f) {
		return ""
	}
	return f
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// writeCustomers emits one row per rate. Customers without rates have no rows.
func writeCustomers(f *excelize.File, category domain.Category, customers []domain.Customer) error {
	sheet := string(category)
	if err := setRow(f, sheet, 1, customerHeader); err != nil {
		return err
	}

	row := 2
	for _, c := range customers {
		for _, r := range c.Rates {
			values := []interface{}{string(category), c.Name, c.Location, r.Supplier, r.Note, number(r.Price)}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeDropRates(f *excelize.File, drops []domain.DropRate) error {
	sheet := string(domain.CategoryDROP)
	if err := setRow(f, sheet, 1, dropHeader); err != nil {
		return err
	}

	for i, d := range drops {
		values := []interface{}{sheet, d.Supplier, number(d.Heavy), number(d.Light), number(d.OpenCheck)}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

// Workbook builds the FCL, LCL and DROP sheets. The caller closes the file.
func Workbook(data Data) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(defaultSheet, string(domain.CategoryFCL)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("excelize.SetSheetName: %w", err)
	}
	for _, sheet := range []domain.Category{domain.CategoryLCL, domain.CategoryDROP} {
		if _, err := f.NewSheet(string(sheet)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("excelize.NewSheet %s: %w", sheet, err)
		}
	}

	if err := writeCustomers(f, domain.CategoryFCL, data.FCL); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export FCL: %w", err)
	}
	if err := writeCustomers(f, domain.CategoryLCL, data.LCL); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export LCL: %w", err)
	}
	if err := writeDropRates(f, data.DropRates); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export DROP: %w", err)
	}

	return f, nil
}

func Write(w io.Writer, data Data) error {
	f, err := Workbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excelize.Write: %w", err)
	}
	return nil
}
