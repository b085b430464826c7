package dto

import (
	"encoding/json"

	"github.com/ougirez/transport-index/internal/domain"
)

// RateRow is one element of the nested rates collection of a customer row.
type RateRow struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Supplier   string      `json:"supplier"`
	Price      json.Number `json:"price"`
	Note       string      `json:"note"`
}

// CustomerRow is a customer with its rates embedded, as the gateway returns it.
type CustomerRow struct {
	ID        string    `db:"id"`
	Mode      string    `db:"mode"`
	Name      string    `db:"name"`
	Location  string    `db:"location"`
	RatesJSON []byte    `db:"rates"`
	Rates     []RateRow `db:"-"`
}

type DropRateRow struct {
	ID        string `db:"id"`
	Supplier  string `db:"supplier"`
	Heavy     string `db:"heavy"`
	Light     string `db:"light"`
	OpenCheck string `db:"open_check"`
}

type NewCustomer struct {
	Category domain.Category
	Name     string
	Location string
}

type RateInput struct {
	CustomerID string
	Supplier   string
	Price      string
	Note       string
}

type DropRateInput struct {
	Supplier  string
	Heavy     string
	Light     string
	OpenCheck string
}
