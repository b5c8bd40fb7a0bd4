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

// homeBranchID is the branch a branch-scoped operator belongs to in the
// demo dataset.
const homeBranchID int64 = 11

type openHoursRequest struct {
	OpenHours map[string]any `json:"open_hours"`
	// IDToken carries the alternate credential channel when it rides the
	// body instead of its header; strict decoding must tolerate it.
	IDToken string `json:"idToken,omitempty"`
}

func (a *API) handleBranches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("BRANCH", "LIST")...); !ok {
		return
	}

	branches, err := a.data.Branches(r.Context())
	if err != nil {
		a.log.Error("branch list load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load branches", nil)
		return
	}
	respondOK(w, map[string]any{"branches": branches})
}

func (a *API) handleBranchScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/branches/")
	path = strings.Trim(path, "/")
	if path == "" {
		respond(w, codeNotFound, "resource not found", nil)
		return
	}
	parts := strings.Split(path, "/")

	branchID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		respond(w, codeValidationFailed, "Invalid branch id", nil)
		return
	}

	switch {
	case len(parts) == 1:
		a.handleBranchGet(w, r, branchID)
	case len(parts) == 2 && parts[1] == "toggle":
		a.handleBranchToggle(w, r, branchID)
	case len(parts) == 2 && parts[1] == "open-hours":
		a.handleBranchOpenHours(w, r, branchID)
	case len(parts) == 4 && parts[1] == "menu" && parts[3] == "toggle":
		a.handleMenuToggle(w, r, branchID, parts[2])
	default:
		respond(w, codeNotFound, "resource not found", nil)
	}
}

func (a *API) handleBranchGet(w http.ResponseWriter, r *http.Request, branchID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := a.authorize(w, r, auth.ScopeRequirements("BRANCH", "GET")...)
	if !ok {
		return
	}

	// Branch-scoped operators only see their own branch.
	branchOnly := auth.HasPermission(principal.Permissions, "BRANCH_BRANCH", "GET") &&
		!auth.HasPermission(principal.Permissions, "BRANCH_ALL", "GET") &&
		!auth.HasPermission(principal.Permissions, "BRANCH_COMPANY", "GET")
	if branchOnly && branchID != homeBranchID {
		forbid(w, "Branch restricted")
		return
	}

	detail, err := a.data.BranchDetail(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, mockdata.ErrBranchNotFound) {
			respond(w, codeNotFound, "Branch not found", nil)
			return
		}
		a.log.Error("branch load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load branch", nil)
		return
	}
	respondOK(w, detail)
}

func (a *API) handleBranchToggle(w http.ResponseWriter, r *http.Request, branchID int64) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("BRANCH", "UPDATE")...); !ok {
		return
	}

	closed, err := a.data.ToggleForceClose(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, mockdata.ErrBranchNotFound) {
			respond(w, codeNotFound, "Branch not found", nil)
			return
		}
		a.log.Error("branch toggle failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to toggle branch", nil)
		return
	}

	audit.LogEvent(r.Context(), "branch.force_close.toggled",
		zap.Int64("branch_id", branchID),
		zap.Bool("is_force_closed", closed))
	respondOK(w, map[string]any{"branchId": branchID, "is_force_closed": closed})
}

func (a *API) handleBranchOpenHours(w http.ResponseWriter, r *http.Request, branchID int64) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("BRANCH", "UPDATE")...); !ok {
		return
	}

	var req openHoursRequest
	if err := decodeJSON(w, r, &req); err != nil || len(req.OpenHours) == 0 {
		respond(w, codeValidationFailed, "open_hours required", nil)
		return
	}

	if _, err := a.data.SetOpenHours(r.Context(), branchID, req.OpenHours); err != nil {
		if errors.Is(err, mockdata.ErrBranchNotFound) {
			respond(w, codeNotFound, "Branch not found", nil)
			return
		}
		a.log.Error("open hours update failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to update open hours", nil)
		return
	}

	audit.LogEvent(r.Context(), "branch.open_hours.updated", zap.Int64("branch_id", branchID))
	respondOK(w, map[string]any{"branchId": branchID, "open_hours": req.OpenHours})
}

func (a *API) handleMenuToggle(w http.ResponseWriter, r *http.Request, branchID int64, rawProductID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("BRANCH", "UPDATE")...); !ok {
		return
	}

	productID, err := strconv.ParseInt(rawProductID, 10, 64)
	if err != nil {
		respond(w, codeValidationFailed, "Invalid product id", nil)
		return
	}

	item, err := a.data.ToggleMenuItem(r.Context(), branchID, productID)
	if err != nil {
		switch {
		case errors.Is(err, mockdata.ErrBranchNotFound):
			respond(w, codeNotFound, "Branch not found", nil)
		case errors.Is(err, mockdata.ErrProductNotFound):
			respond(w, codeNotFound, "Product not found", nil)
		default:
			a.log.Error("menu toggle failed", zap.Error(err))
			respond(w, codeInternalError, "Unable to toggle menu item", nil)
		}
		return
	}

	audit.LogEvent(r.Context(), "branch.menu.toggled",
		zap.Int64("branch_id", branchID),
		zap.Int64("product_id", productID),
		zap.Bool("is_enabled", item.IsEnabled))
	respondOK(w, map[string]any{"productId": productID, "is_enabled": item.IsEnabled})
}
