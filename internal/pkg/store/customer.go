package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
)

var customerColumns = []string{
	"c.id::text as id",
	"c.mode",
	"c.name",
	"coalesce(c.location, '') as location",
	`coalesce(
	json_agg(json_build_object(
		'id', r.id::text,
		'customer_id', r.customer_id::text,
		'supplier', r.supplier,
		'price', r.price,
		'note', coalesce(r.note, '')
	)) filter (where r.id is not null),
	'[]'::json) as rates`,
}

func listCustomersQuery(category domain.Category) sq.SelectBuilder {
	return builder().Select(customerColumns...).
		From(tableCustomers + " c").
		LeftJoin(tableRates + " r on r.customer_id = c.id").
		Where(sq.Eq{"c.mode": string(category)}).
		GroupBy("c.id").
		OrderBy("c.created_at")
}

func (s *store) ListCustomers(ctx context.Context, category domain.Category) ([]*dto.CustomerRow, error) {
	var selected []*dto.CustomerRow
	if err := s.pool.Selectx(ctx, &selected, listCustomersQuery(category)); err != nil {
		logger.Errorf(ctx, "ListCustomers, mode-%s: %s", category, err.Error())
		return nil, wrapErr(err)
	}

	for _, row := range selected {
		if len(row.RatesJSON) == 0 {
			continue
		}
		if err := sonic.Unmarshal(row.RatesJSON, &row.Rates); err != nil {
			return nil, fmt.Errorf("decode rates, customer_id-%s: %w", row.ID, err)
		}
	}

	return selected, nil
}

func insertCustomerQuery(c dto.NewCustomer) sq.InsertBuilder {
	var location interface{}
	if c.Location != "" {
		location = c.Location
	}

	return builder().Insert(tableCustomers).
		Columns("mode", "name", "location").
		Values(string(c.Category), c.Name, location).
		Suffix("RETURNING id::text")
}

func (s *store) InsertCustomer(ctx context.Context, c dto.NewCustomer) (string, error) {
	sql, args, err := insertCustomerQuery(c).ToSql()
	if err != nil {
		return "", err
	}

	var id string
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return "", wrapErr(err)
	}

	return id, nil
}

func (s *store) DeleteCustomer(ctx context.Context, id string) error {
	query := builder().Delete(tableCustomers).Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, constants.ErrDBNotFound)
	}

	return nil
}
