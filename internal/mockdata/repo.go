package mockdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adminconsole/internal/store/kv"
)

// liveTxnCap bounds the live feed so the blob cannot grow without limit.
const liveTxnCap = 100

// bangkok is the console's presentation zone (UTC+7, no DST).
var bangkok = time.FixedZone("Asia/Bangkok", 7*3600)

// BangkokNow formats t as a second-precision ISO timestamp in the
// console's display zone.
func BangkokNow(t time.Time) string {
	return t.In(bangkok).Format("2006-01-02T15:04:05-07:00")
}

// Repository reads and writes console demo data through a keyed store.
type Repository struct {
	kv  kv.Store
	now func() time.Time
}

// NewRepository wraps the given store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{kv: store, now: time.Now}
}

func (r *Repository) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("mockdata: get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("mockdata: decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mockdata: encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("mockdata: set %s: %w", key, err)
	}
	return nil
}

// Orders returns the full order list, oldest first. A missing key reads
// as an empty list.
func (r *Repository) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if _, err := r.getJSON(ctx, keyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveOrders replaces the order list.
func (r *Repository) SaveOrders(ctx context.Context, orders []Order) error {
	return r.setJSON(ctx, keyOrders, orders)
}

// Order returns a single order by id.
func (r *Repository) Order(ctx context.Context, id int64) (*Order, error) {
	orders, err := r.Orders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// RejectOrder flips an order to REJECTED and stamps updated_at. The
// updated order is returned.
func (r *Repository) RejectOrder(ctx context.Context, id int64) (*Order, error) {
	orders, err := r.Orders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		orders[i].Status = "REJECTED"
		orders[i].DisplayStatus = "REJECTED"
		orders[i].UpdatedAt = BangkokNow(r.now())
		if err := r.SaveOrders(ctx, orders); err != nil {
			return nil, err
		}
		return &orders[i], nil
	}
	return nil, ErrOrderNotFound
}

func branchKey(id int64) string { return fmt.Sprintf("branch:%d:detail", id) }

// BranchDetail returns one branch blob.
func (r *Repository) BranchDetail(ctx context.Context, id int64) (*BranchDetail, error) {
	var detail BranchDetail
	ok, err := r.getJSON(ctx, branchKey(id), &detail)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBranchNotFound
	}
	return &detail, nil
}

// SaveBranchDetail replaces one branch blob and keeps the branch index
// current.
func (r *Repository) SaveBranchDetail(ctx context.Context, detail *BranchDetail) error {
	if err := r.setJSON(ctx, branchKey(detail.Branch.ID), detail); err != nil {
		return err
	}
	ids, err := r.branchIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == detail.Branch.ID {
			return nil
		}
	}
	return r.setJSON(ctx, keyBranchIndex, append(ids, detail.Branch.ID))
}

func (r *Repository) branchIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if _, err := r.getJSON(ctx, keyBranchIndex, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Branches returns the summary record of every known branch.
func (r *Repository) Branches(ctx context.Context) ([]Branch, error) {
	ids, err := r.branchIDs(ctx)
	if err != nil {
		return nil, err
	}
	branches := make([]Branch, 0, len(ids))
	for _, id := range ids {
		detail, err := r.BranchDetail(ctx, id)
		if err == ErrBranchNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		branches = append(branches, detail.Branch)
	}
	return branches, nil
}

// ToggleForceClose flips the branch force-closed flag and reports the
// new value.
func (r *Repository) ToggleForceClose(ctx context.Context, id int64) (bool, error) {
	detail, err := r.BranchDetail(ctx, id)
	if err != nil {
		return false, err
	}
	detail.Branch.IsForceClosed = !detail.Branch.IsForceClosed
	if err := r.SaveBranchDetail(ctx, detail); err != nil {
		return false, err
	}
	return detail.Branch.IsForceClosed, nil
}

// SetOpenHours replaces the branch open-hours document.
func (r *Repository) SetOpenHours(ctx context.Context, id int64, hours map[string]any) (*Branch, error) {
	detail, err := r.BranchDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Branch.OpenHours = hours
	if err := r.SaveBranchDetail(ctx, detail); err != nil {
		return nil, err
	}
	return &detail.Branch, nil
}

// ToggleMenuItem flips one product's enabled flag on a branch menu and
// reports the new value.
func (r *Repository) ToggleMenuItem(ctx context.Context, branchID, productID int64) (*MenuItem, error) {
	detail, err := r.BranchDetail(ctx, branchID)
	if err != nil {
		return nil, err
	}
	for i := range detail.Menu {
		if detail.Menu[i].ProductID != productID {
			continue
		}
		detail.Menu[i].IsEnabled = !detail.Menu[i].IsEnabled
		if err := r.SaveBranchDetail(ctx, detail); err != nil {
			return nil, err
		}
		return &detail.Menu[i], nil
	}
	return nil, ErrProductNotFound
}

func dashboardAllKey() string             { return "dashboard:all:sales" }
func dashboardCompanyKey(id int64) string { return fmt.Sprintf("dashboard:company:%d:sales", id) }
func dashboardBranchKey(id int64) string {
	return fmt.Sprintf("dashboard:branch:%d:revenueByProduct", id)
}

// DashboardAll returns the all-companies sales aggregate.
func (r *Repository) DashboardAll(ctx context.Context) (*DashboardAll, error) {
	var d DashboardAll
	ok, err := r.getJSON(ctx, dashboardAllKey(), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// DashboardCompany returns one company's per-branch sales aggregate.
func (r *Repository) DashboardCompany(ctx context.Context, companyID int64) (*DashboardCompany, error) {
	var d DashboardCompany
	ok, err := r.getJSON(ctx, dashboardCompanyKey(companyID), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// DashboardBranch returns one branch's revenue-by-product aggregate.
func (r *Repository) DashboardBranch(ctx context.Context, branchID int64) (*DashboardBranch, error) {
	var d DashboardBranch
	ok, err := r.getJSON(ctx, dashboardBranchKey(branchID), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// LiveTxns returns the live feed, newest first.
func (r *Repository) LiveTxns(ctx context.Context) ([]LiveTxn, error) {
	var txns []LiveTxn
	if _, err := r.getJSON(ctx, keyLiveTxns, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// AppendLiveTxn prepends an entry to the live feed and trims it to the
// cap. It returns the stored feed.
func (r *Repository) AppendLiveTxn(ctx context.Context, txn LiveTxn) ([]LiveTxn, error) {
	txns, err := r.LiveTxns(ctx)
	if err != nil {
		return nil, err
	}
	txns = append([]LiveTxn{txn}, txns...)
	if len(txns) > liveTxnCap {
		txns = txns[:liveTxnCap]
	}
	if err := r.setJSON(ctx, keyLiveTxns, txns); err != nil {
		return nil, err
	}
	return txns, nil
}
