package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway/memgw"
	"github.com/ougirez/transport-index/internal/pkg/constants"
	"github.com/ougirez/transport-index/internal/service/gate"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
)

const (
	adminEmail     = "admin@transport.local"
	adminPassword  = "admin123"
	viewerEmail    = "viewer@transport.local"
	viewerPassword = "viewer123"
)

func setup(t *testing.T) (*Registry, *memgw.Gateway) {
	t.Helper()
	viper.Set(constants.ViperSecretKey, "test-secret")

	ctx := context.Background()
	gw := memgw.New()
	if err := gw.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := gw.AddUser(adminEmail, adminPassword, true); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if _, err := gw.AddUser(viewerEmail, viewerPassword, false); err != nil {
		t.Fatalf("add viewer: %v", err)
	}

	r := NewRegistry(gw, time.Hour)
	t.Cleanup(r.Close)
	return r, gw
}

func TestLoginOpensDashboard(t *testing.T) {
	ctx := context.Background()
	r, _ := setup(t)

	d, sess, err := r.Login(ctx, adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.SessionID == "" || d.ID() != sess.SessionID {
		t.Fatalf("session id = %q, dashboard id = %q", sess.SessionID, d.ID())
	}

	got, err := r.Get(ctx, sess.SessionID)
	if err != nil || got != d {
		t.Fatalf("get: %v", err)
	}

	v := d.View()
	if !v.Resolved || !v.Session.IsAdmin || v.Session.Identity != adminEmail {
		t.Fatalf("session = %+v resolved=%v", v.Session, v.Resolved)
	}
	if v.Category != domain.CategoryFCL || v.Loading {
		t.Fatalf("category = %q loading = %v", v.Category, v.Loading)
	}
	if v.Selected == nil || v.Selected.Name != "yahu" {
		t.Fatalf("selected = %+v", v.Selected)
	}
	if len(v.Selected.Rates) != 2 || *v.Selected.Rates[0].Price != 4000 || *v.Selected.Rates[1].Price != 4500 {
		t.Fatalf("rates = %+v", v.Selected.Rates)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := setup(t)

	if _, _, err := r.Login(context.Background(), adminEmail, "wrong"); !errors.Is(err, constants.ErrBadCredentials) {
		t.Fatalf("err = %v", err)
	}
	if r.Len() != 0 {
		t.Fatal("dashboard opened for a failed login")
	}
}

func TestViewerCannotWrite(t *testing.T) {
	ctx := context.Background()
	r, gw := setup(t)

	d, _, err := r.Login(ctx, viewerEmail, viewerPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := d.SetCategory(ctx, domain.CategoryLCL); err != nil {
		t.Fatalf("set category: %v", err)
	}

	if _, err := d.Gate().AddRate(ctx, gate.RateForm{Supplier: "x", Price: "1", Note: "4W"}); !errors.Is(err, constants.ErrNotAuthorized) {
		t.Fatalf("err = %v", err)
	}
	if gw.Writes() != 0 {
		t.Fatal("viewer write reached the gateway")
	}
	if d.View().LastError == "" {
		t.Fatal("authorization error not shown")
	}
}

func TestRoleCheckFailureFailsClosed(t *testing.T) {
	ctx := context.Background()
	r, gw := setup(t)
	gw.FailOn(memgw.OpIsAdmin, errors.New(`function is_admin(uuid) does not exist`))

	d, _, err := r.Login(ctx, adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	v := d.View()
	if v.Session.IsAdmin {
		t.Fatal("admin granted although the role check failed")
	}
	if v.LastError == "" {
		t.Fatal("misconfiguration not reported")
	}
	if _, err := d.Gate().AddCustomer(ctx, gate.CustomerForm{Name: "Acme"}); !errors.Is(err, constants.ErrNotAuthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestRefreshTokenKeepsDashboard(t *testing.T) {
	ctx := context.Background()
	r, _ := setup(t)

	d, sess, err := r.Login(ctx, adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := d.RefreshToken(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.SessionID != sess.SessionID {
		t.Fatalf("session id changed to %q", refreshed.SessionID)
	}
	if s, ok := d.Session(); !ok || !s.IsAdmin {
		t.Fatalf("session after refresh = %+v resolved=%v", s, ok)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	r, _ := setup(t)

	d, sess, err := r.Login(ctx, adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := r.Logout(ctx, sess.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := r.Get(ctx, sess.SessionID); !errors.Is(err, constants.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if s, _ := d.Session(); s.Identity != "" || s.IsAdmin {
		t.Fatalf("session after logout = %+v", s)
	}
	if err := r.Logout(ctx, sess.SessionID); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestExportFetchesUnloadedCategories(t *testing.T) {
	ctx := context.Background()
	r, gw := setup(t)

	d, _, err := r.Login(ctx, viewerEmail, viewerPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	before := gw.Calls(memgw.OpListCustomers)

	var buf bytes.Buffer
	if err := d.Export(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	if n := gw.Calls(memgw.OpListCustomers) - before; n != 1 {
		t.Fatalf("list customers called %d times, want 1 (LCL only)", n)
	}
	if gw.Calls(memgw.OpListDropRates) != 1 {
		t.Fatal("drop rates not fetched")
	}
	if d.State().Loaded(domain.CategoryLCL) {
		t.Fatal("export changed the view state")
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	lcl, err := f.GetRows("LCL")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(lcl) != 4 {
		t.Fatalf("LCL has %d rows, want header + 3", len(lcl))
	}
}

func TestExportGatewayFailure(t *testing.T) {
	ctx := context.Background()
	r, gw := setup(t)

	d, _, err := r.Login(ctx, viewerEmail, viewerPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	gw.FailOn(memgw.OpListDropRates, errors.New("connection refused"))

	var buf bytes.Buffer
	if err := d.Export(ctx, &buf); !errors.Is(err, constants.ErrGateway) {
		t.Fatalf("err = %v", err)
	}
}
