package mockdata

import (
	"context"
	"time"
)

// Seed populates the store with the console's demo dataset. Existing
// blobs are left alone so restarts keep operator edits.
func (r *Repository) Seed(ctx context.Context) error {
	if orders, err := r.Orders(ctx); err != nil {
		return err
	} else if len(orders) == 0 {
		if err := r.SaveOrders(ctx, seedOrders(r.now())); err != nil {
			return err
		}
	}

	for _, detail := range seedBranches() {
		if _, err := r.BranchDetail(ctx, detail.Branch.ID); err == ErrBranchNotFound {
			if err := r.SaveBranchDetail(ctx, &detail); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	if d, err := r.DashboardAll(ctx); err != nil {
		return err
	} else if d == nil {
		if err := r.setJSON(ctx, dashboardAllKey(), seedDashboardAll()); err != nil {
			return err
		}
	}
	if d, err := r.DashboardCompany(ctx, 1); err != nil {
		return err
	} else if d == nil {
		if err := r.setJSON(ctx, dashboardCompanyKey(1), seedDashboardCompany()); err != nil {
			return err
		}
	}
	if d, err := r.DashboardBranch(ctx, 11); err != nil {
		return err
	} else if d == nil {
		if err := r.setJSON(ctx, dashboardBranchKey(11), seedDashboardBranch()); err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(now time.Time) []Order {
	created := BangkokNow(now.Add(-2 * time.Hour))
	expires := BangkokNow(now.Add(30 * time.Minute))
	return []Order{
		{
			ID:            5001,
			Status:        "PENDING",
			DisplayStatus: "Pending",
			CreatedAt:     created,
			Branch:        &OrderBranch{ID: 11, CompanyID: 1, Name: "Sukhumvit"},
			Txn:           &OrderTxn{Amount: 420.50, ExpiredAt: expires},
		},
		{
			ID:            5002,
			Status:        "PAID",
			DisplayStatus: "Paid",
			CreatedAt:     created,
			Branch:        &OrderBranch{ID: 12, CompanyID: 1, Name: "Silom"},
			Txn:           &OrderTxn{Amount: 185.00},
		},
		{
			ID:            5003,
			Status:        "PENDING",
			DisplayStatus: "Pending",
			CreatedAt:     created,
			Branch:        &OrderBranch{ID: 21, CompanyID: 2, Name: "Chiang Mai Central"},
			Txn:           &OrderTxn{Amount: 960.75, ExpiredAt: expires},
		},
	}
}

func seedBranches() []BranchDetail {
	return []BranchDetail{
		{
			Branch: Branch{
				ID:      11,
				Name:    "Sukhumvit",
				Manager: "Anong S.",
				Phone:   "+66-2-555-0111",
				OpenHours: map[string]any{
					"mon-fri": "09:00-21:00",
					"sat-sun": "10:00-22:00",
				},
			},
			Menu: []MenuItem{
				{ProductID: 101, Name: "Thai Milk Tea", IsEnabled: true},
				{ProductID: 102, Name: "Green Curry Set", IsEnabled: true},
				{ProductID: 103, Name: "Mango Sticky Rice", IsEnabled: false},
			},
		},
		{
			Branch: Branch{
				ID:      12,
				Name:    "Silom",
				Manager: "Prasert K.",
				Phone:   "+66-2-555-0112",
			},
			Menu: []MenuItem{
				{ProductID: 101, Name: "Thai Milk Tea", IsEnabled: true},
				{ProductID: 104, Name: "Pad Krapow", IsEnabled: true},
			},
		},
	}
}

func seedDashboardAll() DashboardAll {
	return DashboardAll{
		Total: 125400.25,
		ByCompany: []CompanySales{
			{Name: "Bangkok Foods Co.", Sales: 84100.00},
			{Name: "Northern Eats Ltd.", Sales: 41300.25},
		},
	}
}

func seedDashboardCompany() DashboardCompany {
	return DashboardCompany{
		ByBranch: []BranchSales{
			{Name: "Sukhumvit", Sales: 51200.00},
			{Name: "Silom", Sales: 32900.00},
		},
	}
}

func seedDashboardBranch() DashboardBranch {
	return DashboardBranch{
		Items: []ProductRevenue{
			{Name: "Thai Milk Tea", Revenue: 18400.00},
			{Name: "Green Curry Set", Revenue: 21750.00},
			{Name: "Mango Sticky Rice", Revenue: 11050.00},
		},
	}
}
