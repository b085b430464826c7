// Package gate is the single path for writes to the price lists. Every write is
// checked against the current category, the admin role and the form rules before
// it reaches the gateway.
package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/service/viewstate"
)

type SessionSource interface {
	Current() (domain.Session, bool)
}

type Synchronizer interface {
	State() viewstate.State
	MutationStarted()
	MutationFailed(err error)
	MutationSucceeded(ctx context.Context, selectID string) error
}

type Gate struct {
	writer   gateway.Writer
	session  SessionSource
	sync     Synchronizer
	validate *validator.Validate

	mu    sync.Mutex
	forms Forms
}

func New(writer gateway.Writer, session SessionSource, synchronizer Synchronizer) *Gate {
	return &Gate{
		writer:   writer,
		session:  session,
		sync:     synchronizer,
		validate: newValidator(),
	}
}

func (g *Gate) Forms() Forms {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.forms
}

func (g *Gate) updateForms(fn func(*Forms)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.forms)
}

// begin runs the checks shared by every write and returns the state they were
// made against.
func (g *Gate) begin(dropOp bool) (viewstate.State, error) {
	g.sync.MutationStarted()
	st := g.sync.State()

	applies := st.Category.HasCustomers()
	if dropOp {
		applies = st.Category == domain.CategoryDROP
	}
	if !applies {
		return st, fmt.Errorf("%w: %q", constants.ErrCategoryMismatch, st.Category)
	}

	sess, resolved := g.session.Current()
	if !resolved || !sess.IsAdmin {
		return st, constants.ErrNotAuthorized
	}
	return st, nil
}

func (g *Gate) fail(ctx context.Context, op string, err error) error {
	logger.Warnf(ctx, "gate.%s: %v", op, err)
	g.sync.MutationFailed(err)
	return err
}

func (g *Gate) succeed(ctx context.Context, op, selectID string) {
	if err := g.sync.MutationSucceeded(ctx, selectID); err != nil {
		logger.Errorf(ctx, "gate.%s: reload after write: %v", op, err)
	}
}

// AddCustomer creates a customer in the current category and selects it.
func (g *Gate) AddCustomer(ctx context.Context, form CustomerForm) (string, error) {
	form = form.trimmed()
	g.updateForms(func(f *Forms) { f.Customer = form })

	st, err := g.begin(false)
	if err != nil {
		return "", g.fail(ctx, "AddCustomer", err)
	}
	if err := g.validate.Struct(form); err != nil {
		return "", g.fail(ctx, "AddCustomer", fieldError(err, "name"))
	}

	id, err := g.writer.InsertCustomer(ctx, dto.NewCustomer{
		Category: st.Category,
		Name:     form.Name,
		Location: form.Location,
	})
	if err != nil {
		return "", g.fail(ctx, "AddCustomer", constants.NewGatewayError(err))
	}

	g.updateForms(func(f *Forms) { f.Customer = CustomerForm{} })
	g.succeed(ctx, "AddCustomer", id)
	return id, nil
}

// DeleteCustomer removes a customer and, server-side, all of its rates.
func (g *Gate) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := g.begin(false); err != nil {
		return g.fail(ctx, "DeleteCustomer", err)
	}

	if err := g.writer.DeleteCustomer(ctx, id); err != nil {
		return g.fail(ctx, "DeleteCustomer", constants.NewGatewayError(err))
	}

	g.succeed(ctx, "DeleteCustomer", "")
	return nil
}

func (g *Gate) validateRate(category domain.Category, form RateForm) error {
	if err := g.validate.Struct(form); err != nil {
		return fieldError(err, "price")
	}
	if category == domain.CategoryLCL {
		if err := g.validate.Var(form.Note, vehicleTypeRule); err != nil {
			return fieldError(err, "note")
		}
	}
	return nil
}

// AddRate adds a rate to the selected customer.
func (g *Gate) AddRate(ctx context.Context, form RateForm) (string, error) {
	form = form.trimmed()
	g.updateForms(func(f *Forms) { f.Rate = form })

	st, err := g.begin(false)
	if err != nil {
		return "", g.fail(ctx, "AddRate", err)
	}
	if st.SelectedID == "" {
		return "", g.fail(ctx, "AddRate", constants.ErrNoSelection)
	}
	if err := g.validateRate(st.Category, form); err != nil {
		return "", g.fail(ctx, "AddRate", err)
	}

	id, err := g.writer.InsertRate(ctx, dto.RateInput{
		CustomerID: st.SelectedID,
		Supplier:   form.Supplier,
		Price:      form.Price,
		Note:       form.Note,
	})
	if err != nil {
		return "", g.fail(ctx, "AddRate", constants.NewGatewayError(err))
	}

	g.updateForms(func(f *Forms) { f.Rate = RateForm{} })
	g.succeed(ctx, "AddRate", "")
	return id, nil
}

func (g *Gate) UpdateRate(ctx context.Context, id string, form RateForm) error {
	form = form.trimmed()
	g.updateForms(func(f *Forms) { f.Rate = form })

	st, err := g.begin(false)
	if err != nil {
		return g.fail(ctx, "UpdateRate", err)
	}
	if err := g.validateRate(st.Category, form); err != nil {
		return g.fail(ctx, "UpdateRate", err)
	}

	err = g.writer.UpdateRate(ctx, id, dto.RateInput{
		Supplier: form.Supplier,
		Price:    form.Price,
		Note:     form.Note,
	})
	if err != nil {
		return g.fail(ctx, "UpdateRate", constants.NewGatewayError(err))
	}

	g.updateForms(func(f *Forms) { f.Rate = RateForm{} })
	g.succeed(ctx, "UpdateRate", "")
	return nil
}

func (g *Gate) DeleteRate(ctx context.Context, id string) error {
	if _, err := g.begin(false); err != nil {
		return g.fail(ctx, "DeleteRate", err)
	}

	if err := g.writer.DeleteRate(ctx, id); err != nil {
		return g.fail(ctx, "DeleteRate", constants.NewGatewayError(err))
	}

	g.succeed(ctx, "DeleteRate", "")
	return nil
}

// UpsertDropRate writes the rates of a supplier, replacing any existing row for
// the same supplier. Empty amounts are stored as zero.
func (g *Gate) UpsertDropRate(ctx context.Context, form DropRateForm) error {
	form = form.trimmed()
	g.updateForms(func(f *Forms) { f.DropRate = form })

	if _, err := g.begin(true); err != nil {
		return g.fail(ctx, "UpsertDropRate", err)
	}
	if err := g.validate.Struct(form); err != nil {
		return g.fail(ctx, "UpsertDropRate", fieldError(err, "supplier"))
	}

	err := g.writer.UpsertDropRate(ctx, dto.DropRateInput{
		Supplier:  form.Supplier,
		Heavy:     zeroIfEmpty(form.Heavy),
		Light:     zeroIfEmpty(form.Light),
		OpenCheck: zeroIfEmpty(form.OpenCheck),
	})
	if err != nil {
		return g.fail(ctx, "UpsertDropRate", constants.NewGatewayError(err))
	}

	g.updateForms(func(f *Forms) { f.DropRate = DropRateForm{} })
	g.succeed(ctx, "UpsertDropRate", "")
	return nil
}

func (g *Gate) DeleteDropRate(ctx context.Context, supplier string) error {
	if _, err := g.begin(true); err != nil {
		return g.fail(ctx, "DeleteDropRate", err)
	}

	if err := g.writer.DeleteDropRate(ctx, supplier); err != nil {
		return g.fail(ctx, "DeleteDropRate", constants.NewGatewayError(err))
	}

	g.succeed(ctx, "DeleteDropRate", "")
	return nil
}
