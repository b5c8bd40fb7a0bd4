package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"adminconsole/internal/auth"
)

type userSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

func userSummaryOf(e auth.Employee) userSummary {
	return userSummary{ID: e.ID, Email: e.Email, Username: e.Username, IsActive: e.Active}
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("USERS", "LIST")...); !ok {
		return
	}

	employees, err := a.dir.ListEmployees(r.Context())
	if err != nil {
		a.log.Error("employee list load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load users", nil)
		return
	}
	users := make([]userSummary, 0, len(employees))
	for _, e := range employees {
		users = append(users, userSummaryOf(e))
	}
	respondOK(w, map[string]any{"users": users})
}

func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	path = strings.Trim(path, "/")
	if path == "" || strings.Contains(path, "/") {
		respond(w, codeNotFound, "resource not found", nil)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.authorize(w, r, auth.ScopeRequirements("USERS", "GET")...); !ok {
		return
	}

	employee, err := a.dir.FindEmployeeByID(r.Context(), path)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respond(w, codeNotFound, "User not found", nil)
			return
		}
		a.log.Error("employee load failed", zap.Error(err))
		respond(w, codeInternalError, "Unable to load user", nil)
		return
	}
	respondOK(w, map[string]any{"user": userSummaryOf(*employee)})
}
