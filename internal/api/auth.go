package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/middleware"
	"cross-country/runflow/internal/models/dtos"
)

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.LoginRequest
		if err := h.decodeAndValidate(r, &req); err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		admin := h.deps.Config.Admin
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(admin.Password)) == 1
		if !userOK || !passOK {
			logging.Warn("Admin login rejected", "username", req.Username, "ip", common.ClientIP(r))
			common.RespondError(w, initTime, nil, constants.MsgInvalidCredentials, http.StatusUnauthorized)
			return
		}

		session := h.deps.Services.Sessions.CreateSession(req.Username)
		http.SetCookie(w, &http.Cookie{
			Name:     constants.AdminSessionCookie,
			Value:    session.SessionID,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   h.deps.Config.AppEnv == "production",
			SameSite: http.SameSiteLaxMode,
		})

		logging.Info("Admin logged in", "username", req.Username)
		common.RespondSuccess(w, initTime, "Login realizado.", &dtos.LoginResponse{
			SessionID: session.SessionID,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// Logout handles POST /api/v1/auth/logout. It succeeds without a session too.
func (h *Handlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if id := middleware.SessionIDFromRequest(r); id != "" {
			h.deps.Services.Sessions.DeleteSession(id)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     constants.AdminSessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		common.RespondSuccess(w, initTime, "Sessão encerrada.", nil)
	}
}
