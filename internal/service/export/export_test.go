package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)
	if got := FileName(now); got != "transport_index_2026-03-07.xlsx" {
		t.Fatalf("file name = %q", got)
	}
}

func TestWrite(t *testing.T) {
	data := Data{
		FCL: []domain.Customer{
			{ID: "1", Name: "yahu", Location: "https://maps.google.com/?q=yahu", Rates: []domain.SupplierRate{
				{Supplier: "ppp", Price: 4000},
				{Supplier: "urich", Price: math.NaN()},
			}},
			{ID: "2", Name: "no rates", Rates: []domain.SupplierRate{}},
		},
		LCL: []domain.Customer{
			{ID: "3", Name: "summer free zone", Rates: []domain.SupplierRate{{Supplier: "s", Price: 2000, Note: "6W"}}},
		},
		DropRates: []domain.DropRate{{Supplier: "default", Heavy: 2500, Light: 1500}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"FCL", "LCL", "DROP"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	fcl, err := f.GetRows("FCL")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(fcl) != 3 {
		t.Fatalf("FCL has %d rows, want header + 2", len(fcl))
	}
	if fcl[0][0] != "Mode" || fcl[0][5] != "Price" {
		t.Fatalf("header = %v", fcl[0])
	}
	if fcl[1][1] != "yahu" || fcl[1][3] != "ppp" || fcl[1][5] != "4000" {
		t.Fatalf("row = %v", fcl[1])
	}
	if len(fcl[2]) > 5 && fcl[2][5] != "" {
		t.Fatalf("NaN price exported as %q", fcl[2][5])
	}

	lcl, _ := f.GetRows("LCL")
	if len(lcl) != 2 || lcl[1][4] != "6W" {
		t.Fatalf("LCL rows = %v", lcl)
	}

	drop, _ := f.GetRows("DROP")
	if len(drop) != 2 || drop[1][1] != "default" || drop[1][2] != "2500" || drop[1][3] != "1500" {
		t.Fatalf("DROP rows = %v", drop)
	}
}
