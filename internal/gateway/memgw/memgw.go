// Package memgw is an in-memory remote data gateway. It backs local development
// and the test suites, and follows the PostgreSQL gateway's semantics: generated
// ids, cascading customer deletes and upsert on supplier.
package memgw

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	OpListCustomers  = "list_customers"
	OpListDropRates  = "list_drop_rates"
	OpInsertCustomer = "insert_customer"
	OpDeleteCustomer = "delete_customer"
	OpInsertRate     = "insert_rate"
	OpUpdateRate     = "update_rate"
	OpDeleteRate     = "delete_rate"
	OpUpsertDropRate = "upsert_drop_rate"
	OpDeleteDropRate = "delete_drop_rate"
	OpIsAdmin        = "is_admin"
)

var writeOps = map[string]bool{
	OpInsertCustomer: true,
	OpDeleteCustomer: true,
	OpInsertRate:     true,
	OpUpdateRate:     true,
	OpDeleteRate:     true,
	OpUpsertDropRate: true,
	OpDeleteDropRate: true,
}

type customer struct {
	id       string
	mode     domain.Category
	name     string
	location string
}

type rate struct {
	id         string
	customerID string
	supplier   string
	price      decimal.Decimal
	note       string
}

type dropRate struct {
	id        string
	supplier  string
	heavy     decimal.Decimal
	light     decimal.Decimal
	openCheck decimal.Decimal
}

type Gateway struct {
	mu        sync.Mutex
	customers []*customer
	rates     []*rate
	drops     map[string]*dropRate
	users     map[string]*domain.User
	admins    map[string]bool
	calls     map[string]int
	failures  map[string]error
}

func New() *Gateway {
	return &Gateway{
		drops:    make(map[string]*dropRate),
		users:    make(map[string]*domain.User),
		admins:   make(map[string]bool),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// FailOn makes every following call of op return err. A nil err clears it.
func (g *Gateway) FailOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		delete(g.failures, op)
		return
	}
	g.failures[op] = err
}

func (g *Gateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

// Writes counts every write call that reached the gateway, failed or not.
func (g *Gateway) Writes() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for op, c := range g.calls {
		if writeOps[op] {
			n += c
		}
	}
	return n
}

// enter must be called with g.mu held.
func (g *Gateway) enter(op string) error {
	g.calls[op]++
	return g.failures[op]
}

// AddUser registers a user with a bcrypt hash of password and returns its id.
func (g *Gateway) AddUser(email, password string, admin bool) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	g.users[u.Email] = u
	if admin {
		g.admins[u.ID] = true
	}
	return u.ID, nil
}

func (g *Gateway) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *u
	return &cp, nil
}

func (g *Gateway) IsAdmin(_ context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpIsAdmin); err != nil {
		return false, err
	}
	return g.admins[userID], nil
}

func (g *Gateway) ListCustomers(_ context.Context, category domain.Category) ([]*dto.CustomerRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpListCustomers); err != nil {
		return nil, err
	}

	rows := make([]*dto.CustomerRow, 0)
	for _, c := range g.customers {
		if c.mode != category {
			continue
		}
		row := &dto.CustomerRow{ID: c.id, Mode: string(c.mode), Name: c.name, Location: c.location}
		for _, r := range g.rates {
			if r.customerID != c.id {
				continue
			}
			row.Rates = append(row.Rates, dto.RateRow{
				ID:         r.id,
				CustomerID: r.customerID,
				Supplier:   r.supplier,
				Price:      json.Number(r.price.String()),
				Note:       r.note,
			})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *Gateway) InsertCustomer(_ context.Context, c dto.NewCustomer) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpInsertCustomer); err != nil {
		return "", err
	}
	if !c.Category.HasCustomers() {
		return "", fmt.Errorf(`new row for relation "customers" violates check constraint "customers_mode_check"`)
	}
	if c.Name == "" {
		return "", fmt.Errorf(`new row for relation "customers" violates check constraint "customers_name_check"`)
	}

	id := uuid.NewString()
	g.customers = append(g.customers, &customer{id: id, mode: c.Category, name: c.Name, location: c.Location})
	return id, nil
}

func (g *Gateway) DeleteCustomer(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpDeleteCustomer); err != nil {
		return err
	}

	idx := -1
	for i, c := range g.customers {
		if c.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("customer %s: %w", id, constants.ErrDBNotFound)
	}
	g.customers = append(g.customers[:idx], g.customers[idx+1:]...)

	kept := g.rates[:0]
	for _, r := range g.rates {
		if r.customerID != id {
			kept = append(kept, r)
		}
	}
	g.rates = kept
	return nil
}

func (g *Gateway) hasCustomer(id string) bool {
	for _, c := range g.customers {
		if c.id == id {
			return true
		}
	}
	return false
}

func (g *Gateway) InsertRate(_ context.Context, in dto.RateInput) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpInsertRate); err != nil {
		return "", err
	}
	if !g.hasCustomer(in.CustomerID) {
		return "", fmt.Errorf(`insert or update on table "rates" violates foreign key constraint "rates_customer_id_fkey"`)
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return "", fmt.Errorf("invalid input syntax for type numeric: %q", in.Price)
	}

	id := uuid.NewString()
	g.rates = append(g.rates, &rate{id: id, customerID: in.CustomerID, supplier: in.Supplier, price: price, note: in.Note})
	return id, nil
}

func (g *Gateway) UpdateRate(_ context.Context, id string, in dto.RateInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpUpdateRate); err != nil {
		return err
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return fmt.Errorf("invalid input syntax for type numeric: %q", in.Price)
	}

	for _, r := range g.rates {
		if r.id == id {
			r.supplier = in.Supplier
			r.price = price
			r.note = in.Note
			return nil
		}
	}
	return fmt.Errorf("rate %s: %w", id, constants.ErrDBNotFound)
}

func (g *Gateway) DeleteRate(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpDeleteRate); err != nil {
		return err
	}

	for i, r := range g.rates {
		if r.id == id {
			g.rates = append(g.rates[:i], g.rates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rate %s: %w", id, constants.ErrDBNotFound)
}

func (g *Gateway) ListDropRates(_ context.Context) ([]*dto.DropRateRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpListDropRates); err != nil {
		return nil, err
	}

	rows := make([]*dto.DropRateRow, 0, len(g.drops))
	for _, d := range g.drops {
		rows = append(rows, &dto.DropRateRow{
			ID:        d.id,
			Supplier:  d.supplier,
			Heavy:     d.heavy.String(),
			Light:     d.light.String(),
			OpenCheck: d.openCheck.String(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Supplier < rows[j].Supplier })
	return rows, nil
}

func parseNumeric(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid input syntax for type numeric: %q", s)
	}
	return d, nil
}

// UpsertDropRate updates the row with the same supplier in place, or inserts one.
func (g *Gateway) UpsertDropRate(_ context.Context, in dto.DropRateInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpUpsertDropRate); err != nil {
		return err
	}

	heavy, err := parseNumeric(in.Heavy)
	if err != nil {
		return err
	}
	light, err := parseNumeric(in.Light)
	if err != nil {
		return err
	}
	openCheck, err := parseNumeric(in.OpenCheck)
	if err != nil {
		return err
	}

	d, ok := g.drops[in.Supplier]
	if !ok {
		d = &dropRate{id: uuid.NewString(), supplier: in.Supplier}
		g.drops[in.Supplier] = d
	}
	d.heavy, d.light, d.openCheck = heavy, light, openCheck
	return nil
}

func (g *Gateway) DeleteDropRate(_ context.Context, supplier string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpDeleteDropRate); err != nil {
		return err
	}
	if _, ok := g.drops[supplier]; !ok {
		return fmt.Errorf("drop rate %s: %w", supplier, constants.ErrDBNotFound)
	}
	delete(g.drops, supplier)
	return nil
}
