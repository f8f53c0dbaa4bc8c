package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	adminKey   contextKey = "admin"
	requestKey contextKey = "request"
)

// requestInfo is shared between Recovery, Logging and the handlers below
// them, so their log lines can name the authenticated user.
type requestInfo struct {
	userID string
}

// withRequestInfo returns the request info already in ctx, or attaches a new
// one.
func withRequestInfo(ctx context.Context) (context.Context, *requestInfo) {
	if info, ok := ctx.Value(requestKey).(*requestInfo); ok {
		return ctx, info
	}
	info := &requestInfo{}
	return context.WithValue(ctx, requestKey, info), info
}

func SetUserID(ctx context.Context, userID string) context.Context {
	if info, ok := ctx.Value(requestKey).(*requestInfo); ok {
		info.userID = userID
	}
	return context.WithValue(ctx, userIDKey, userID)
}

func GetUserID(r *http.Request) string {
	v, _ := r.Context().Value(userIDKey).(string)
	return v
}

// SetAdmin marks the caller as a bot administrator.
func SetAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func IsAdmin(r *http.Request) bool {
	v, _ := r.Context().Value(adminKey).(bool)
	return v
}
