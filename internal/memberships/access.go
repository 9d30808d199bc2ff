package memberships

import (
	"context"
	"errors"

	"github.com/bugie-app/bugie-backend/pkg/auth"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"gorm.io/gorm"
)

// CurrentUserResolver returns the signed-in identity, or nil without error when
// there is no session.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context) (*auth.Identity, error)
}

// ActiveMemberFinder loads an active membership on a live ledger.
type ActiveMemberFinder interface {
	GetActive(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error)
}

// RequireUser resolves the caller or fails with CodeUnauthorized.
func RequireUser(ctx context.Context, resolver CurrentUserResolver) (*auth.Identity, error) {
	user, err := resolver.CurrentUser(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve current user")
	}
	if user == nil || user.UserID == "" {
		return nil, pkgerrors.Unauthorized("로그인이 필요합니다")
	}
	return user, nil
}

// RequireMember loads the caller's active membership or fails with CodeUnauthorized.
func RequireMember(ctx context.Context, finder ActiveMemberFinder, ledgerID, userID string) (*models.LedgerMember, error) {
	member, err := finder.GetActive(ctx, ledgerID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Unauthorized("가계부에 접근할 권한이 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return member, nil
}
