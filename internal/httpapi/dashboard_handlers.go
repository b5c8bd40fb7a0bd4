package httpapi

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"adminconsole/internal/auth"
	"adminconsole/internal/ids"
	"adminconsole/internal/mockdata"
)

// liveFeedWindow is how many recent transactions one poll returns.
const liveFeedWindow = 20

type summaryBody struct {
	Scope string      `json:"scope"`
	Chart string      `json:"chart"`
	Data  summaryData `json:"data"`
}

type summaryData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// dashboardRequirement maps the requested scope onto the one permission
// that unlocks it. Unlike the list endpoints there is no broadening here:
// viewing the ALL dashboard needs the ALL grant.
func dashboardRequirement(scope string) auth.Requirement {
	switch scope {
	case "ALL":
		return auth.Requirement{Object: "DASH_BROAD_ALL", Action: "LIST"}
	case "COMPANY":
		return auth.Requirement{Object: "DASH_BROAD_COMPANY", Action: "LIST"}
	default:
		return auth.Requirement{Object: "DASH_BROAD_BRANCH", Action: "LIST"}
	}
}

func queryID(r *http.Request, key string, fallback int64) int64 {
	if v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64); err == nil && v > 0 {
		return v
	}
	return fallback
}

func (a *API) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "ALL"
	}
	chart := r.URL.Query().Get("chart")
	if chart == "" {
		chart = "pie"
	}
	if _, ok := a.authorize(w, r, dashboardRequirement(scope)); !ok {
		return
	}

	var (
		labels []string
		values []float64
	)
	switch scope {
	case "COMPANY":
		d, err := a.data.DashboardCompany(r.Context(), queryID(r, "companyId", 1))
		if err != nil {
			a.dashboardLoadError(w, err)
			return
		}
		if d != nil {
			for _, e := range d.ByBranch {
				labels = append(labels, e.Name)
				values = append(values, e.Sales)
			}
		}
	case "BRANCH":
		d, err := a.data.DashboardBranch(r.Context(), queryID(r, "branchId", homeBranchID))
		if err != nil {
			a.dashboardLoadError(w, err)
			return
		}
		if d != nil {
			for _, e := range d.Items {
				labels = append(labels, e.Name)
				values = append(values, e.Revenue)
			}
		}
	default:
		d, err := a.data.DashboardAll(r.Context())
		if err != nil {
			a.dashboardLoadError(w, err)
			return
		}
		if d != nil {
			for _, e := range d.ByCompany {
				labels = append(labels, e.Name)
				values = append(values, e.Sales)
			}
		}
	}

	respondOK(w, summaryBody{
		Scope: scope,
		Chart: chart,
		Data:  summaryData{Labels: labels, Values: values},
	})
}

func (a *API) dashboardLoadError(w http.ResponseWriter, err error) {
	a.log.Error("dashboard load failed", zap.Error(err))
	respond(w, codeInternalError, "Unable to load summary", nil)
}

func (a *API) handleDashboardLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "ALL"
	}
	if _, ok := a.authorize(w, r, dashboardRequirement(scope)); !ok {
		return
	}
	companyID := queryID(r, "companyId", 1)
	branchID := queryID(r, "branchId", homeBranchID)

	// Each poll feeds the demo stream one synthetic transaction.
	next := mockdata.LiveTxn{
		ID:        ids.New(),
		TS:        mockdata.BangkokNow(time.Now()),
		Scope:     scope,
		Amount:    float64(rand.Intn(5000000)) / 100,
		CompanyID: companyID,
		BranchID:  branchID,
	}
	all, err := a.data.AppendLiveTxn(r.Context(), next)
	if err != nil {
		a.log.Error("live feed append failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load live data", nil)
		return
	}

	items := make([]mockdata.LiveTxn, 0, liveFeedWindow)
	for _, item := range all {
		switch scope {
		case "COMPANY":
			if item.CompanyID != companyID {
				continue
			}
		case "BRANCH":
			if item.BranchID != branchID {
				continue
			}
		}
		items = append(items, item)
		if len(items) == liveFeedWindow {
			break
		}
	}

	respondOK(w, map[string]any{"items": items})
}

// handleDashboardStream pushes live transactions over server-sent events.
// The same scope permission as the poll endpoint applies; events outside
// the caller's scope are filtered out of the stream.
func (a *API) handleDashboardStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.feed == nil {
		respond(w, codeNotFound, "resource not found", nil)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "ALL"
	}
	if _, ok := a.authorize(w, r, dashboardRequirement(scope)); !ok {
		return
	}
	companyID := queryID(r, "companyId", 1)
	branchID := queryID(r, "branchId", homeBranchID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond(w, codeInternalError, "streaming unsupported", nil)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for txn := range a.feed.Subscribe(r.Context()) {
		switch scope {
		case "COMPANY":
			if txn.CompanyID != companyID {
				continue
			}
		case "BRANCH":
			if txn.BranchID != branchID {
				continue
			}
		}
		payload, err := json.Marshal(txn)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}
