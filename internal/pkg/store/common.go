package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/transport-index/internal/pkg/constants"
)

const (
	tableUsers     = "users"
	tableCustomers = "customers"
	tableRates     = "rates"
	tableDropRates = "drop_rates"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	if pgxscan.NotFound(err) {
		return constants.ErrDBNotFound
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
