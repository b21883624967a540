package authz

import (
	"context"
	"net/http"

	"github.com/convitapp/convite-api/internal/models"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// WithIdentity stores the authenticated user's id and role on the context.
func WithIdentity(ctx context.Context, userID string, role models.UserRole) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
	}
	if !models.IsValidRole(role) {
		role = models.RoleUser
	}
	return context.WithValue(ctx, userRoleKey, role)
}

func UserIDFromRequest(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value(userIDKey).(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

func RoleFromRequest(r *http.Request) (models.UserRole, bool) {
	role, ok := r.Context().Value(userRoleKey).(models.UserRole)
	if !ok || !models.IsValidRole(role) {
		return "", false
	}
	return role, true
}

// CanMutate reports whether the requester may change a resource owned by
// ownerID: owners and admins only.
func CanMutate(r *http.Request, ownerID string) bool {
	if role, ok := RoleFromRequest(r); ok && role == models.RoleAdmin {
		return true
	}
	uid, ok := UserIDFromRequest(r)
	return ok && uid == ownerID
}
