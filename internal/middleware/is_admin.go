package middleware

import (
	"net/http"
	"time"

	"cross-country/runflow/internal/auth"
	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.GetAdminSession(r.Context()) == nil {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
