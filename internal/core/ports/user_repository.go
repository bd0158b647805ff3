package ports

import (
	"context"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// UserGuard is the snapshot a conditional user write must still match.
type UserGuard struct {
	ID       string
	Role     domain.Role
	IsActive bool
}

// GuardOf captures the fields of u that permission checks depend on.
func GuardOf(u *domain.User) UserGuard {
	return UserGuard{ID: u.ID, Role: u.Role, IsActive: u.IsActive}
}

// UserRepository defines the credential store.
type UserRepository interface {
	// Create inserts a user. Unique-index violations surface as
	// domain.ErrEmailTaken or domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user, newest first, without password hashes.
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateRole and SetActive apply only while the stored user still matches
	// guard; otherwise they return domain.ErrStaleUser (or
	// domain.ErrUserNotFound when the user is gone).
	UpdateRole(ctx context.Context, guard UserGuard, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, guard UserGuard, active bool) (*domain.User, error)
	// CountByRoleAndStatus groups the whole population in one query.
	CountByRoleAndStatus(ctx context.Context) ([]domain.RoleStatusCount, error)
}
