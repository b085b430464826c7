// Package dashboard wires the auth client, session resolver, view-state
// synchronizer and mutation gate of one signed-in browser, and keeps the live
// dashboards by auth session id.
package dashboard

import (
	"context"
	"io"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/gateway"
	"github.com/ougirez/transport-index/internal/pkg/logger"
	"github.com/ougirez/transport-index/internal/service/auth"
	"github.com/ougirez/transport-index/internal/service/export"
	"github.com/ougirez/transport-index/internal/service/gate"
	"github.com/ougirez/transport-index/internal/service/session"
	"github.com/ougirez/transport-index/internal/service/viewstate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Dashboard struct {
	id       string
	auth     *auth.Client
	resolver *session.Resolver
	sync     *viewstate.Synchronizer
	gate     *gate.Gate
	stop     func()
}

// open builds a dashboard around an already signed-in client, loads FCL and
// starts resolving the session. A failed initial load is left in the view's
// error slot.
func open(gw gateway.Gateway, client *auth.Client, sessionID string) *Dashboard {
	ctx := logger.With(context.Background(), zap.String("session_id", sessionID))

	d := &Dashboard{
		id:       sessionID,
		auth:     client,
		resolver: session.NewResolver(client, gw),
		sync:     viewstate.NewSynchronizer(gw),
	}
	d.gate = gate.New(gw, d.resolver, d.sync)

	if err := d.sync.SetCategory(ctx, domain.CategoryFCL); err != nil {
		logger.Warnf(ctx, "dashboard %s: initial load: %v", sessionID, err)
	}

	d.resolver.OnResolved(func(_ domain.Session, err error) {
		d.sync.ReportError(err)
	})
	d.stop = d.resolver.Start(ctx)
	return d
}

func (d *Dashboard) ID() string {
	return d.id
}

func (d *Dashboard) Gate() *gate.Gate {
	return d.gate
}

func (d *Dashboard) Session() (domain.Session, bool) {
	return d.resolver.Current()
}

func (d *Dashboard) State() viewstate.State {
	return d.sync.State()
}

func (d *Dashboard) View() View {
	sess, resolved := d.resolver.Current()
	return newView(d.sync.State(), sess, resolved, d.gate.Forms())
}

func (d *Dashboard) SetCategory(ctx context.Context, category domain.Category) error {
	return d.sync.SetCategory(ctx, category)
}

func (d *Dashboard) Select(id string) error {
	return d.sync.Select(id)
}

func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.sync.Refresh(ctx)
}

// Search filters the current category's customers by name.
func (d *Dashboard) Search(query string) []domain.Customer {
	return d.sync.State().Search(query)
}

// RefreshToken re-issues the access token. The resolver re-checks the role on
// the resulting auth event.
func (d *Dashboard) RefreshToken(ctx context.Context) (*domain.AuthSession, error) {
	return d.auth.Refresh(ctx)
}

// Export writes all three categories as a workbook. Categories never opened in
// this dashboard are fetched concurrently.
func (d *Dashboard) Export(ctx context.Context, w io.Writer) error {
	st := d.sync.State()
	data := export.Data{
		FCL:       st.Customers[domain.CategoryFCL],
		LCL:       st.Customers[domain.CategoryLCL],
		DropRates: st.DropRates,
	}

	g, gctx := errgroup.WithContext(ctx)
	if !st.Loaded(domain.CategoryFCL) {
		g.Go(func() error {
			customers, _, err := d.sync.Fetch(gctx, domain.CategoryFCL)
			data.FCL = customers
			return err
		})
	}
	if !st.Loaded(domain.CategoryLCL) {
		g.Go(func() error {
			customers, _, err := d.sync.Fetch(gctx, domain.CategoryLCL)
			data.LCL = customers
			return err
		})
	}
	if !st.Loaded(domain.CategoryDROP) {
		g.Go(func() error {
			_, drops, err := d.sync.Fetch(gctx, domain.CategoryDROP)
			data.DropRates = drops
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Errorf(ctx, "dashboard.Export: %v", err)
		return err
	}

	return export.Write(w, data)
}

func (d *Dashboard) signOut(ctx context.Context) error {
	err := d.auth.SignOut(ctx)
	d.close()
	return err
}

func (d *Dashboard) close() {
	if d.stop != nil {
		d.stop()
	}
}
