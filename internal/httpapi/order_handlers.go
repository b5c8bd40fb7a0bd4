package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"adminconsole/internal/audit"
	"adminconsole/internal/auth"
	"adminconsole/internal/mockdata"
)

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("ORDER", "LIST")...); !ok {
		return
	}

	orders, err := a.data.Orders(r.Context())
	if err != nil {
		a.log.Error("order list load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load orders", nil)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	branchID := q.Get("branchId")
	companyID := q.Get("companyId")

	filtered := make([]mockdata.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status && o.DisplayStatus != status {
			continue
		}
		if branchID != "" && (o.Branch == nil || strconv.FormatInt(o.Branch.ID, 10) != branchID) {
			continue
		}
		if companyID != "" && o.Branch != nil && o.Branch.CompanyID != 0 &&
			strconv.FormatInt(o.Branch.CompanyID, 10) != companyID {
			continue
		}
		filtered = append(filtered, o)
	}

	respondOK(w, map[string]any{"orders": filtered})
}

func (a *API) handleOrderScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/orders/")
	path = strings.Trim(path, "/")
	if path == "" {
		respond(w, codeNotFound, "resource not found", nil)
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		a.handleOrderGet(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "reject":
		a.handleOrderReject(w, r, parts[0])
	default:
		respond(w, codeNotFound, "resource not found", nil)
	}
}

func (a *API) handleOrderGet(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("ORDER", "GET")...); !ok {
		return
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respond(w, codeValidationFailed, "Invalid order id", nil)
		return
	}
	order, err := a.data.Order(r.Context(), id)
	if err != nil {
		if errors.Is(err, mockdata.ErrOrderNotFound) {
			respond(w, codeNotFound, "Order not found", nil)
			return
		}
		a.log.Error("order load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load order", nil)
		return
	}
	respondOK(w, map[string]any{"order": order})
}

func (a *API) handleOrderReject(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("ORDER", "UPDATE")...); !ok {
		return
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respond(w, codeValidationFailed, "Invalid order id", nil)
		return
	}
	order, err := a.data.RejectOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, mockdata.ErrOrderNotFound) {
			respond(w, codeNotFound, "Order not found", nil)
			return
		}
		a.log.Error("order reject failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to reject order", nil)
		return
	}

	audit.LogEvent(r.Context(), "order.rejected", zap.Int64("order_id", id))
	respondOK(w, map[string]any{"id": id, "status": order.Status})
}
