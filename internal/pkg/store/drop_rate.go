package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
)

var dropRateColumns = []string{
	"id::text as id",
	"supplier",
	"heavy::text as heavy",
	"light::text as light",
	"open_check::text as open_check",
}

func listDropRatesQuery() sq.SelectBuilder {
	return builder().Select(dropRateColumns...).
		From(tableDropRates).
		OrderBy("supplier")
}

func (s *store) ListDropRates(ctx context.Context) ([]*dto.DropRateRow, error) {
	var selected []*dto.DropRateRow
	if err := s.pool.Selectx(ctx, &selected, listDropRatesQuery()); err != nil {
		logger.Errorf(ctx, "ListDropRates: %s", err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

// upsertDropRateQuery updates the existing row of the same supplier in place.
func upsertDropRateQuery(r dto.DropRateInput) sq.InsertBuilder {
	return builder().Insert(tableDropRates).
		Columns("supplier", "heavy", "light", "open_check").
		Values(
			r.Supplier,
			sq.Expr("?::numeric", r.Heavy),
			sq.Expr("?::numeric", r.Light),
			sq.Expr("?::numeric", r.OpenCheck),
		).
		Suffix(`
on conflict (supplier)
do update
set
	heavy = excluded.heavy,
	light = excluded.light,
	open_check = excluded.open_check`)
}

func (s *store) UpsertDropRate(ctx context.Context, r dto.DropRateInput) error {
	if _, err := s.pool.Execx(ctx, upsertDropRateQuery(r)); err != nil {
		logger.Error(ctx, err.Error())
		return wrapErr(err)
	}

	return nil
}

func (s *store) DeleteDropRate(ctx context.Context, supplier string) error {
	tag, err := s.pool.Execx(ctx, builder().Delete(tableDropRates).Where(sq.Eq{"supplier": supplier}))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("drop rate %s: %w", supplier, constants.ErrDBNotFound)
	}

	return nil
}
