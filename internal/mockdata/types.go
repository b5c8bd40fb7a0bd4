// Package mockdata owns the console's demo business data: orders, branch
// details, and dashboard aggregates, stored as JSON blobs in the keyed
// store. These payloads are inert — every access to them is gated upstream
// by the authorization core.
package mockdata

import "errors"

// Storage keys, unchanged from the original console.
const (
	keyOrders      = "orders:list"
	keyLiveTxns    = "dashboard:liveTxns"
	keyBranchIndex = "branch:index"
)

var (
	ErrBranchNotFound  = errors.New("mockdata: branch not found")
	ErrProductNotFound = errors.New("mockdata: product not found")
	ErrOrderNotFound   = errors.New("mockdata: order not found")
)

// Order is a console order row.
type Order struct {
	ID            int64        `json:"id"`
	Status        string       `json:"status,omitempty"`
	DisplayStatus string       `json:"displayStatus,omitempty"`
	CreatedAt     string       `json:"created_at,omitempty"`
	UpdatedAt     string       `json:"updated_at,omitempty"`
	Branch        *OrderBranch `json:"branch,omitempty"`
	Txn           *OrderTxn    `json:"txn,omitempty"`
}

// OrderBranch locates the branch an order belongs to.
type OrderBranch struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId,omitempty"`
	Name      string `json:"name,omitempty"`
}

// OrderTxn is the payment transaction attached to an order.
type OrderTxn struct {
	Amount    float64 `json:"amount,omitempty"`
	ExpiredAt string  `json:"expired_at,omitempty"`
}

// Branch is the editable branch record.
type Branch struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Manager       string         `json:"manager,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	IsForceClosed bool           `json:"is_force_closed"`
	OpenHours     map[string]any `json:"open_hours,omitempty"`
}

// MenuItem is one togglable product on a branch menu.
type MenuItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	IsEnabled bool   `json:"is_enabled"`
}

// BranchDetail is the per-branch blob: the record plus its menu.
type BranchDetail struct {
	Branch Branch     `json:"branch"`
	Menu   []MenuItem `json:"menu"`
}

// CompanySales is one slice of the ALL-scope dashboard.
type CompanySales struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// BranchSales is one slice of the COMPANY-scope dashboard.
type BranchSales struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// ProductRevenue is one slice of the BRANCH-scope dashboard.
type ProductRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// DashboardAll aggregates sales across every company.
type DashboardAll struct {
	Total     float64        `json:"total"`
	ByCompany []CompanySales `json:"byCompany,omitempty"`
}

// DashboardCompany aggregates sales across one company's branches.
type DashboardCompany struct {
	ByBranch []BranchSales `json:"byBranch,omitempty"`
}

// DashboardBranch aggregates revenue by product for one branch.
type DashboardBranch struct {
	Items []ProductRevenue `json:"items,omitempty"`
}

// LiveTxn is one entry of the live transaction feed.
type LiveTxn struct {
	ID        string  `json:"id"`
	TS        string  `json:"ts"`
	Scope     string  `json:"scope"`
	Amount    float64 `json:"amount"`
	CompanyID int64   `json:"companyId,omitempty"`
	BranchID  int64   `json:"branchId,omitempty"`
}
