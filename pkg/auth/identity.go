package auth

import "context"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   string
	Email    string
	AccessID string
}

type identityKey struct{}

// WithIdentity stores the caller on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
