package domain

type SupplierRate struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Supplier   string  `json:"supplier"`
	Price      float64 `json:"price"`
	Note       string  `json:"note,omitempty"`
}

type Customer struct {
	ID       string         `json:"id"`
	Category Category       `json:"category"`
	Name     string         `json:"name"`
	Location string         `json:"location,omitempty"`
	Rates    []SupplierRate `json:"rates"`
}

type DropRate struct {
	ID        string  `json:"id"`
	Supplier  string  `json:"supplier"`
	Heavy     float64 `json:"heavy"`
	Light     float64 `json:"light"`
	OpenCheck float64 `json:"open_check"`
}

// Session is derived from the auth session and the role check. It is never stored.
type Session struct {
	Identity string `json:"identity"`
	IsAdmin  bool   `json:"is_admin"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
