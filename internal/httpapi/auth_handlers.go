package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"adminconsole/internal/audit"
	"adminconsole/internal/auth"
	"adminconsole/internal/token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginAdmin struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Username    string             `json:"username"`
	Roles       []auth.Role        `json:"roles"`
	Permissions auth.PermissionSet `json:"permissions"`
}

type loginBody struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	Admin        loginAdmin `json:"admin"`
}

type refreshBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type meBody struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Username    string             `json:"username"`
	IsActive    bool               `json:"is_active"`
	Roles       []auth.Role        `json:"roles"`
	Permissions auth.PermissionSet `json:"permissions"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond(w, codeValidationFailed, err.Error(), nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond(w, codeValidationFailed, "Email and password are required", nil)
		return
	}

	employee, err := a.identity.FindEmployeeByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respond(w, codeInvalidCredentials, "Invalid credentials", nil)
			return
		}
		a.log.Error("employee lookup failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}
	if !employee.Active {
		respond(w, codeUserInactive, "User is not active", nil)
		return
	}
	if err := auth.VerifyPassword(employee.PasswordHash, req.Password); err != nil {
		audit.LogEvent(r.Context(), "auth.login.rejected", zap.String("email", req.Email))
		respond(w, codeInvalidCredentials, "Invalid credentials", nil)
		return
	}

	roleID, ok := auth.LastRoleID(employee.RoleHistory)
	if !ok {
		respond(w, codeNoRole, "No role assigned for this website", nil)
		return
	}
	roleIDs := []int64{roleID}

	roles, err := a.roles.RolesByIDs(r.Context(), roleIDs)
	if err != nil {
		a.log.Error("role lookup failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}
	perms, err := a.perms.Aggregate(r.Context(), roleIDs)
	if err != nil {
		a.log.Error("permission aggregation failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}

	payload := token.Payload{
		Sub:      employee.ID,
		Email:    employee.Email,
		Username: employee.Username,
		Roles:    roleIDs,
		UID:      employee.ID,
	}
	accessToken, _, err := a.access.Sign(payload)
	if err != nil {
		a.log.Error("access token signing failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}
	session, err := a.refresh.Issue(r.Context(), payload)
	if err != nil {
		a.log.Error("refresh token issuance failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}

	audit.LogEvent(r.Context(), "auth.login",
		zap.String("employee_id", employee.ID),
		zap.Int64("role_id", roleID))

	respondOK(w, loginBody{
		AccessToken:  accessToken,
		RefreshToken: session.Token,
		Admin: loginAdmin{
			ID:          employee.ID,
			Email:       employee.Email,
			Username:    employee.Username,
			Roles:       roles,
			Permissions: perms,
		},
	})
}

func (a *API) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond(w, codeValidationFailed, err.Error(), nil)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respond(w, codeValidationFailed, "Refresh token is required", nil)
		return
	}

	session, ok, err := a.refresh.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		a.log.Error("refresh rotation failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}
	if !ok {
		respond(w, codeUnauthorized, "Invalid refresh token", nil)
		return
	}

	accessToken, _, err := a.access.Sign(session.Payload)
	if err != nil {
		a.log.Error("access token signing failed", zap.Error(err))
		respond(w, codeInternalError, "Unexpected error", nil)
		return
	}

	audit.LogEvent(r.Context(), "auth.token.rotated",
		zap.String("employee_id", session.Payload.Sub))

	respondOK(w, refreshBody{
		AccessToken:  accessToken,
		RefreshToken: session.Token,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	subject, err := a.pipeline.Identify(r.Context(), credentialsFrom(r))
	if err != nil {
		respond(w, codeUnauthorized, "Authentication required", nil)
		return
	}
	employeeID := subject.Sub
	if employeeID == "" {
		employeeID = subject.UID
	}

	employee, err := a.identity.FindEmployeeByID(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respond(w, codeInvalidCredentials, "Account not found", nil)
			return
		}
		a.log.Error("employee lookup failed", zap.Error(err))
		respond(w, codeInternalError, "Read failure", nil)
		return
	}
	if !employee.Active {
		respond(w, codeUserInactive, "User is not active", nil)
		return
	}

	roleID, ok := auth.LastRoleID(employee.RoleHistory)
	if !ok {
		respond(w, codeNoRole, "No role assigned for this website", nil)
		return
	}
	roleIDs := []int64{roleID}

	roles, err := a.roles.RolesByIDs(r.Context(), roleIDs)
	if err != nil {
		a.log.Error("role lookup failed", zap.Error(err))
		respond(w, codeInternalError, "Failed to load permissions", nil)
		return
	}
	perms, err := a.perms.Aggregate(r.Context(), roleIDs)
	if err != nil {
		a.log.Error("permission aggregation failed", zap.Error(err))
		respond(w, codeInternalError, "Failed to load permissions", nil)
		return
	}

	respondOK(w, meBody{
		ID:          employee.ID,
		Email:       employee.Email,
		Username:    employee.Username,
		IsActive:    employee.Active,
		Roles:       roles,
		Permissions: perms,
	})
}
