// Package httpapi is the console's HTTP surface: middleware, the response
// envelope, and handlers for authentication, orders, branches, users, and
// dashboards. Every protected handler re-runs the authorization pipeline;
// nothing is cached between requests.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"adminconsole/internal/auth"
	"adminconsole/internal/mockdata"
	"adminconsole/internal/obs"
	"adminconsole/internal/stream"
	"adminconsole/internal/token"
)

// ReadyProbe — readiness check (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// EmployeeDirectory serves the user management endpoints.
type EmployeeDirectory interface {
	ListEmployees(ctx context.Context) ([]auth.Employee, error)
	FindEmployeeByID(ctx context.Context, id string) (*auth.Employee, error)
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Pipeline  *auth.Pipeline
	Identity  auth.IdentityStore
	Directory EmployeeDirectory
	Roles     auth.RoleStore
	Perms     *auth.Aggregator
	Access    *token.Access
	Refresh   *token.Refresh
	Data      *mockdata.Repository
	Feed      *stream.Feed
	Ready     ReadyProbe
	Version   string
	Log       *zap.Logger
}

// API — HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	pipeline *auth.Pipeline
	identity auth.IdentityStore
	dir      EmployeeDirectory
	roles    auth.RoleStore
	perms    *auth.Aggregator
	access   *token.Access
	refresh  *token.Refresh
	data     *mockdata.Repository
	feed     *stream.Feed
	log      *zap.Logger
}

func New(d Deps) *API {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: d.Ready,
		version:    d.Version,
		pipeline:   d.Pipeline,
		identity:   d.Identity,
		dir:        d.Directory,
		roles:      d.Roles,
		perms:      d.Perms,
		access:     d.Access,
		refresh:    d.Refresh,
		data:       d.Data,
		feed:       d.Feed,
		log:        d.Log,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// authentication
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/refresh-token", a.handleRefreshToken)
	a.mux.HandleFunc("/v1/auth/me", a.handleMe)

	// console resources
	a.mux.HandleFunc("/v1/orders", a.handleOrders)
	a.mux.HandleFunc("/v1/orders/", a.handleOrderScoped)
	a.mux.HandleFunc("/v1/branches", a.handleBranches)
	a.mux.HandleFunc("/v1/branches/", a.handleBranchScoped)
	a.mux.HandleFunc("/v1/users", a.handleUsers)
	a.mux.HandleFunc("/v1/users/", a.handleUserScoped)
	a.mux.HandleFunc("/v1/dashboard/summary", a.handleDashboardSummary)
	a.mux.HandleFunc("/v1/dashboard/live", a.handleDashboardLive)
	a.mux.HandleFunc("/v1/dashboard/live/stream", a.handleDashboardStream)

	// root falls through to 404
	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond(w, codeNotFound, "resource not found", nil)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	return RequestID(Logging(obs.Instrument(a.mux)))
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "admin-console-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "admin-console-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
