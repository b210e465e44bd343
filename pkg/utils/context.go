package utils

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	AdminIDKey contextKey = "admin_id"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, UserIDKey)
}

func SetUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID.String())
}

// GetAdminIDFromContext returns the admin set by the admin auth middleware.
// It never falls back to a client user id.
func GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, AdminIDKey)
}

func SetAdminContext(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, AdminIDKey, adminID.String())
}

func uuidFromContext(ctx context.Context, key contextKey) (uuid.UUID, bool) {
	val := ctx.Value(key)
	if val == nil {
		return uuid.Nil, false
	}

	idStr, ok := val.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
