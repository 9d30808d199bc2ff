package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgAuth "github.com/bugie-app/bugie-backend/pkg/auth"
	"gorm.io/gorm"
)

type identityUsers interface {
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type sessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

// IdentityParams bundles the dependencies of the identity provider.
type IdentityParams struct {
	Users    identityUsers
	Sessions sessionRevoker
	Now      func() time.Time
}

// IdentityService is the identity provider consulted by the domain services.
// The caller is whatever the auth middleware placed on the context.
type IdentityService struct {
	users    identityUsers
	sessions sessionRevoker
	now      func() time.Time
}

// NewIdentityService builds the identity provider.
func NewIdentityService(params IdentityParams) (*IdentityService, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &IdentityService{users: params.Users, sessions: params.Sessions, now: now}, nil
}

// CurrentUser returns the signed-in caller, or nil without error when the
// request carries no session.
func (s *IdentityService) CurrentUser(ctx context.Context) (*pkgAuth.Identity, error) {
	identity, ok := pkgAuth.IdentityFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

// DeleteUser retires the credentials of userID and ends every session.
// Deleting an already removed identity is not an error.
func (s *IdentityService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.SoftDelete(ctx, userID, s.now()); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}
