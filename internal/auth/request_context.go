package auth

import (
	"context"

	"cross-country/runflow/internal/common"
)

type contextKey string

var adminSessionKey contextKey = "admin_session"
var requestIDKey contextKey = "request_id"

func SetAdminSession(ctx context.Context, session *common.AdminSession) context.Context {
	return context.WithValue(ctx, adminSessionKey, session)
}

// GetAdminSession returns nil when the request carries no valid admin session
func GetAdminSession(ctx context.Context) *common.AdminSession {
	if session, ok := ctx.Value(adminSessionKey).(*common.AdminSession); ok {
		return session
	}
	return nil
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
