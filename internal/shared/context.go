package shared

import "context"

type userIDContextKey struct{}

// ContextWithUserID binds the authenticated subject id to the request context.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext extracts the authenticated subject id from context.
// The second return value is false when no identity was bound.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey{}).(int64)
	return id, ok
}
