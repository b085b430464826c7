package dashboard

import (
	"math"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/service/gate"
	"github.com/ougirez/transport-index/internal/service/viewstate"
)

// Prices that could not be parsed are sent as null.

type RateView struct {
	ID       string   `json:"id"`
	Supplier string   `json:"supplier"`
	Price    *float64 `json:"price"`
	Note     string   `json:"note,omitempty"`
}

type CustomerView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location,omitempty"`
	Rates    []RateView `json:"rates"`
}

type DropRateView struct {
	ID        string   `json:"id"`
	Supplier  string   `json:"supplier"`
	Heavy     *float64 `json:"heavy"`
	Light     *float64 `json:"light"`
	OpenCheck *float64 `json:"open_check"`
}

type View struct {
	Category  domain.Category `json:"category"`
	Customers []CustomerView  `json:"customers"`
	// Selected carries the selected customer with its rates sorted by price.
	Selected  *CustomerView   `json:"selected"`
	DropRates []DropRateView  `json:"drop_rates"`
	Loading   bool            `json:"loading"`
	LastError string          `json:"last_error,omitempty"`
	Session   domain.Session  `json:"session"`
	Resolved  bool            `json:"resolved"`
	Forms     gate.Forms      `json:"forms"`
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func rateViews(rates []domain.SupplierRate) []RateView {
	views := make([]RateView, 0, len(rates))
	for _, r := range rates {
		views = append(views, RateView{ID: r.ID, Supplier: r.Supplier, Price: finite(r.Price), Note: r.Note})
	}
	return views
}

func customerView(c domain.Customer) CustomerView {
	return CustomerView{ID: c.ID, Name: c.Name, Location: c.Location, Rates: rateViews(c.Rates)}
}

func CustomerViews(customers []domain.Customer) []CustomerView {
	views := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, customerView(c))
	}
	return views
}

func dropRateViews(drops []domain.DropRate) []DropRateView {
	views := make([]DropRateView, 0, len(drops))
	for _, d := range drops {
		views = append(views, DropRateView{
			ID:        d.ID,
			Supplier:  d.Supplier,
			Heavy:     finite(d.Heavy),
			Light:     finite(d.Light),
			OpenCheck: finite(d.OpenCheck),
		})
	}
	return views
}

func newView(st viewstate.State, sess domain.Session, resolved bool, forms gate.Forms) View {
	v := View{
		Category:  st.Category,
		Customers: CustomerViews(st.List()),
		DropRates: dropRateViews(st.DropRates),
		Loading:   st.Loading,
		LastError: st.LastError,
		Session:   sess,
		Resolved:  resolved,
		Forms:     forms,
	}

	if c, ok := st.Selected(); ok {
		selected := customerView(c)
		selected.Rates = rateViews(st.SortedRates())
		v.Selected = &selected
	}
	return v
}
