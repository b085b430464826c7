package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/pkg/constants"
)

func nullableNote(note string) interface{} {
	if note == "" {
		return nil
	}
	return note
}

func insertRateQuery(r dto.RateInput) sq.InsertBuilder {
	return builder().Insert(tableRates).
		Columns("customer_id", "supplier", "price", "note").
		Values(r.CustomerID, r.Supplier, sq.Expr("?::numeric", r.Price), nullableNote(r.Note)).
		Suffix("RETURNING id::text")
}

func (s *store) InsertRate(ctx context.Context, r dto.RateInput) (string, error) {
	sql, args, err := insertRateQuery(r).ToSql()
	if err != nil {
		return "", err
	}

	var id string
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return "", wrapErr(err)
	}

	return id, nil
}

func updateRateQuery(id string, r dto.RateInput) sq.UpdateBuilder {
	return builder().Update(tableRates).
		Set("supplier", r.Supplier).
		Set("price", sq.Expr("?::numeric", r.Price)).
		Set("note", nullableNote(r.Note)).
		Where(sq.Eq{"id": id})
}

func (s *store) UpdateRate(ctx context.Context, id string, r dto.RateInput) error {
	tag, err := s.pool.Execx(ctx, updateRateQuery(id, r))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rate %s: %w", id, constants.ErrDBNotFound)
	}

	return nil
}

func (s *store) DeleteRate(ctx context.Context, id string) error {
	tag, err := s.pool.Execx(ctx, builder().Delete(tableRates).Where(sq.Eq{"id": id}))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rate %s: %w", id, constants.ErrDBNotFound)
	}

	return nil
}
