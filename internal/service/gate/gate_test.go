package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
	"github.com/ougirez/transport-index/internal/gateway/memgw"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/service/viewstate"
)

type staticSession struct {
	session  domain.Session
	resolved bool
}

func (s staticSession) Current() (domain.Session, bool) {
	return s.session, s.resolved
}

var (
	admin  = staticSession{session: domain.Session{Identity: "admin@transport.local", IsAdmin: true}, resolved: true}
	viewer = staticSession{session: domain.Session{Identity: "viewer@transport.local"}, resolved: true}
)

func setup(t *testing.T, session SessionSource, category domain.Category) (*Gate, *viewstate.Synchronizer, *memgw.Gateway) {
	t.Helper()

	ctx := context.Background()
	gw := memgw.New()
	if err := gw.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sync := viewstate.NewSynchronizer(gw)
	if err := sync.SetCategory(ctx, category); err != nil {
		t.Fatalf("set category: %v", err)
	}

	return New(gw, session, sync), sync, gw
}

func TestNonAdminWritesNothing(t *testing.T) {
	ctx := context.Background()

	for _, session := range []staticSession{viewer, {}, {session: admin.session, resolved: false}} {
		g, sync, gw := setup(t, session, domain.CategoryFCL)
		selected := sync.State().SelectedID

		if _, err := g.AddCustomer(ctx, CustomerForm{Name: "Acme"}); !errors.Is(err, constants.ErrNotAuthorized) {
			t.Fatalf("add customer: err = %v", err)
		}
		if err := g.DeleteCustomer(ctx, selected); !errors.Is(err, constants.ErrNotAuthorized) {
			t.Fatalf("delete customer: err = %v", err)
		}
		if _, err := g.AddRate(ctx, RateForm{Supplier: "ppp", Price: "1"}); !errors.Is(err, constants.ErrNotAuthorized) {
			t.Fatalf("add rate: err = %v", err)
		}

		if n := gw.Writes(); n != 0 {
			t.Fatalf("%d writes reached the gateway", n)
		}
		if got := sync.State().LastError; got != constants.ErrNotAuthorized.Error() {
			t.Fatalf("last error = %q", got)
		}
	}
}

func TestLCLRateRequiresVehicleType(t *testing.T) {
	ctx := context.Background()
	g, _, gw := setup(t, admin, domain.CategoryLCL)

	tests := []struct {
		name string
		note string
	}{
		{name: "empty", note: ""},
		{name: "unknown", note: "8W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.AddRate(ctx, RateForm{Supplier: "ทรัพย์ศิลา", Price: "2100", Note: tt.note})

			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != "note" {
				t.Fatalf("err = %v, want note field error", err)
			}
			if !errors.Is(err, constants.ErrValidation) {
				t.Fatalf("err = %v is not a validation error", err)
			}
			if n := gw.Calls(memgw.OpInsertRate); n != 0 {
				t.Fatalf("insert rate called %d times", n)
			}
		})
	}

	if _, err := g.AddRate(ctx, RateForm{Supplier: "ทรัพย์ศิลา", Price: "2100", Note: "6W"}); err != nil {
		t.Fatalf("valid LCL rate: %v", err)
	}
}

func TestRateValidation(t *testing.T) {
	ctx := context.Background()
	g, _, gw := setup(t, admin, domain.CategoryFCL)

	tests := []struct {
		name  string
		form  RateForm
		field string
	}{
		{name: "missing supplier", form: RateForm{Price: "10"}, field: "supplier"},
		{name: "missing price", form: RateForm{Supplier: "ppp"}, field: "price"},
		{name: "price not a number", form: RateForm{Supplier: "ppp", Price: "ten"}, field: "price"},
		{name: "price infinite", form: RateForm{Supplier: "ppp", Price: "Inf"}, field: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.AddRate(ctx, tt.form)

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want field error", err)
			}
			if fe.Field != tt.field {
				t.Fatalf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}

	if n := gw.Writes(); n != 0 {
		t.Fatalf("%d writes reached the gateway", n)
	}
}

func TestAdminCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	g, sync, _ := setup(t, admin, domain.CategoryFCL)
	first := sync.State().List()[0].ID

	id, err := g.AddCustomer(ctx, CustomerForm{Name: " Acme ", Location: "https://maps.google.com/?q=acme"})
	if err != nil {
		t.Fatalf("add customer: %v", err)
	}

	st := sync.State()
	if st.SelectedID != id {
		t.Fatalf("selected = %q, want new customer %q", st.SelectedID, id)
	}
	c, _ := st.Selected()
	if c.Name != "Acme" {
		t.Fatalf("name = %q", c.Name)
	}

	if _, err := g.AddRate(ctx, RateForm{Supplier: "ppp", Price: "4000"}); err != nil {
		t.Fatalf("add rate: %v", err)
	}
	rates := sync.State().SortedRates()
	if len(rates) != 1 || rates[0].Supplier != "ppp" || rates[0].Price != 4000 {
		t.Fatalf("rates = %+v", rates)
	}

	if err := g.UpdateRate(ctx, rates[0].ID, RateForm{Supplier: "ppp", Price: "3900"}); err != nil {
		t.Fatalf("update rate: %v", err)
	}
	if got := sync.State().SortedRates()[0].Price; got != 3900 {
		t.Fatalf("price = %v after update", got)
	}

	if err := g.DeleteCustomer(ctx, id); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	st = sync.State()
	for _, c := range st.List() {
		if c.ID == id {
			t.Fatal("deleted customer still listed")
		}
	}
	if st.SelectedID != first {
		t.Fatalf("selected = %q, want %q", st.SelectedID, first)
	}
}

func TestViewerSeesLCLCustomers(t *testing.T) {
	ctx := context.Background()
	g, sync, gw := setup(t, viewer, domain.CategoryLCL)

	if _, err := gw.InsertCustomer(ctx, dto.NewCustomer{Category: domain.CategoryLCL, Name: "harbor depot"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := sync.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	writes := gw.Writes()

	st := sync.State()
	if len(st.List()) != 2 {
		t.Fatalf("list has %d customers, want 2", len(st.List()))
	}
	if st.SelectedID != st.List()[0].ID {
		t.Fatalf("selected = %q, want first", st.SelectedID)
	}

	if err := sync.Select(st.List()[1].ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := g.AddRate(ctx, RateForm{Supplier: "x", Price: "1", Note: "4W"}); !errors.Is(err, constants.ErrNotAuthorized) {
		t.Fatalf("err = %v", err)
	}
	if gw.Writes() != writes {
		t.Fatal("viewer write reached the gateway")
	}
}

func TestUpsertDropRateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	g, sync, _ := setup(t, admin, domain.CategoryDROP)

	if err := g.UpsertDropRate(ctx, DropRateForm{Supplier: "X", Heavy: "2500", Light: "1500"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := g.UpsertDropRate(ctx, DropRateForm{Supplier: "X", Heavy: "2600", Light: "1500"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var found []domain.DropRate
	for _, d := range sync.State().DropRates {
		if d.Supplier == "X" {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		t.Fatalf("%d rows for supplier X", len(found))
	}
	if found[0].Heavy != 2600 || found[0].Light != 1500 || found[0].OpenCheck != 0 {
		t.Fatalf("row = %+v", found[0])
	}

	if err := g.DeleteDropRate(ctx, "X"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, d := range sync.State().DropRates {
		if d.Supplier == "X" {
			t.Fatal("X still listed")
		}
	}
}

func TestCategoryMismatch(t *testing.T) {
	ctx := context.Background()

	g, _, gw := setup(t, admin, domain.CategoryDROP)
	if _, err := g.AddCustomer(ctx, CustomerForm{Name: "Acme"}); !errors.Is(err, constants.ErrCategoryMismatch) {
		t.Fatalf("add customer in DROP: err = %v", err)
	}

	g, _, gw = setup(t, admin, domain.CategoryFCL)
	if err := g.UpsertDropRate(ctx, DropRateForm{Supplier: "X"}); !errors.Is(err, constants.ErrCategoryMismatch) {
		t.Fatalf("upsert drop rate in FCL: err = %v", err)
	}
	if gw.Writes() != 0 {
		t.Fatal("mismatched write reached the gateway")
	}
}

func TestAddRateNeedsSelection(t *testing.T) {
	ctx := context.Background()
	gw := memgw.New()
	sync := viewstate.NewSynchronizer(gw)
	if err := sync.SetCategory(ctx, domain.CategoryFCL); err != nil {
		t.Fatalf("set category: %v", err)
	}
	g := New(gw, admin, sync)

	if _, err := g.AddRate(ctx, RateForm{Supplier: "ppp", Price: "1"}); !errors.Is(err, constants.ErrNoSelection) {
		t.Fatalf("err = %v", err)
	}
}

func TestGatewayFailureKeepsForm(t *testing.T) {
	ctx := context.Background()
	g, sync, gw := setup(t, admin, domain.CategoryFCL)
	before := len(sync.State().List())

	gw.FailOn(memgw.OpInsertCustomer, errors.New(`duplicate key value violates unique constraint "customers_name_key"`))

	_, err := g.AddCustomer(ctx, CustomerForm{Name: "Acme"})
	if !errors.Is(err, constants.ErrGateway) {
		t.Fatalf("err = %v, want gateway error", err)
	}
	st := sync.State()
	if st.LastError != `duplicate key value violates unique constraint "customers_name_key"` {
		t.Fatalf("last error = %q", st.LastError)
	}
	if len(st.List()) != before {
		t.Fatal("list changed after a failed write")
	}
	if g.Forms().Customer.Name != "Acme" {
		t.Fatalf("form = %+v, want draft kept", g.Forms().Customer)
	}

	gw.FailOn(memgw.OpInsertCustomer, nil)
	if _, err := g.AddCustomer(ctx, g.Forms().Customer); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if g.Forms().Customer != (CustomerForm{}) {
		t.Fatalf("form = %+v, want cleared", g.Forms().Customer)
	}
	if sync.State().LastError != "" {
		t.Fatalf("last error = %q after success", sync.State().LastError)
	}
}
