package mockdata

import (
	"context"
	"fmt"
	"testing"
	"time"

	"adminconsole/internal/store/kv"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository(kv.NewMemory())
	r.now = func() time.Time {
		return time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)
	}
	return r
}

func seededRepo(t *testing.T) *Repository {
	t.Helper()
	r := newTestRepo(t)
	if err := r.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r
}

func TestBangkokNow(t *testing.T) {
	at := time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)
	if got := BangkokNow(at); got != "2025-06-01T12:00:00+07:00" {
		t.Fatalf("got %q", got)
	}
}

func TestSeedIdempotent(t *testing.T) {
	r := seededRepo(t)
	ctx := context.Background()

	if _, err := r.RejectOrder(ctx, 5001); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := r.Seed(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	order, err := r.Order(ctx, 5001)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if order.Status != "REJECTED" {
		t.Fatalf("reseed clobbered edits: status %q", order.Status)
	}
}

func TestRejectOrder(t *testing.T) {
	r := seededRepo(t)

	order, err := r.RejectOrder(context.Background(), 5003)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if order.Status != "REJECTED" || order.DisplayStatus != "REJECTED" {
		t.Fatalf("unexpected statuses: %q / %q", order.Status, order.DisplayStatus)
	}
	if order.UpdatedAt != "2025-06-01T12:00:00+07:00" {
		t.Fatalf("updated_at not stamped: %q", order.UpdatedAt)
	}
}

func TestRejectOrderUnknown(t *testing.T) {
	r := seededRepo(t)

	if _, err := r.RejectOrder(context.Background(), 9999); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestBranchesFollowsIndex(t *testing.T) {
	r := seededRepo(t)

	branches, err := r.Branches(context.Background())
	if err != nil {
		t.Fatalf("branches: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}

	detail := &BranchDetail{Branch: Branch{ID: 21, Name: "Chiang Mai Central"}}
	if err := r.SaveBranchDetail(context.Background(), detail); err != nil {
		t.Fatalf("save: %v", err)
	}
	branches, err = r.Branches(context.Background())
	if err != nil {
		t.Fatalf("branches: %v", err)
	}
	if len(branches) != 3 {
		t.Fatalf("index not extended, got %d branches", len(branches))
	}
}

func TestToggleForceClose(t *testing.T) {
	r := seededRepo(t)
	ctx := context.Background()

	closed, err := r.ToggleForceClose(ctx, 11)
	if err != nil || !closed {
		t.Fatalf("first toggle: %v %v", closed, err)
	}
	closed, err = r.ToggleForceClose(ctx, 11)
	if err != nil || closed {
		t.Fatalf("second toggle: %v %v", closed, err)
	}
	if _, err := r.ToggleForceClose(ctx, 99); err != ErrBranchNotFound {
		t.Fatalf("expected ErrBranchNotFound, got %v", err)
	}
}

func TestToggleMenuItem(t *testing.T) {
	r := seededRepo(t)
	ctx := context.Background()

	item, err := r.ToggleMenuItem(ctx, 11, 103)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.IsEnabled {
		t.Fatalf("expected 103 enabled after toggle")
	}

	detail, err := r.BranchDetail(ctx, 11)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	var found bool
	for _, m := range detail.Menu {
		if m.ProductID == 103 {
			found = true
			if !m.IsEnabled {
				t.Fatalf("toggle not persisted")
			}
		}
	}
	if !found {
		t.Fatalf("product 103 missing from menu")
	}

	if _, err := r.ToggleMenuItem(ctx, 11, 999); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := r.ToggleMenuItem(ctx, 99, 101); err != ErrBranchNotFound {
		t.Fatalf("expected ErrBranchNotFound, got %v", err)
	}
}

func TestSetOpenHours(t *testing.T) {
	r := seededRepo(t)

	hours := map[string]any{"mon-sun": "08:00-20:00"}
	branch, err := r.SetOpenHours(context.Background(), 12, hours)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if branch.OpenHours["mon-sun"] != "08:00-20:00" {
		t.Fatalf("unexpected hours: %v", branch.OpenHours)
	}

	detail, err := r.BranchDetail(context.Background(), 12)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Branch.OpenHours["mon-sun"] != "08:00-20:00" {
		t.Fatalf("hours not persisted: %v", detail.Branch.OpenHours)
	}
}

func TestAppendLiveTxnNewestFirstAndCapped(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < liveTxnCap+10; i++ {
		txn := LiveTxn{ID: fmt.Sprintf("txn-%d", i), Scope: "ALL", Amount: float64(i)}
		if _, err := r.AppendLiveTxn(ctx, txn); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	feed, err := r.LiveTxns(ctx)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != liveTxnCap {
		t.Fatalf("expected %d items, got %d", liveTxnCap, len(feed))
	}
	if feed[0].ID != fmt.Sprintf("txn-%d", liveTxnCap+9) {
		t.Fatalf("newest txn not first, got %q", feed[0].ID)
	}
	if feed[len(feed)-1].ID != "txn-10" {
		t.Fatalf("oldest surviving txn wrong, got %q", feed[len(feed)-1].ID)
	}
}

func TestDashboardMissingBlobs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	all, err := r.DashboardAll(ctx)
	if err != nil || all != nil {
		t.Fatalf("expected nil, nil; got %v, %v", all, err)
	}
	company, err := r.DashboardCompany(ctx, 7)
	if err != nil || company != nil {
		t.Fatalf("expected nil, nil; got %v, %v", company, err)
	}
	branch, err := r.DashboardBranch(ctx, 7)
	if err != nil || branch != nil {
		t.Fatalf("expected nil, nil; got %v, %v", branch, err)
	}
}
