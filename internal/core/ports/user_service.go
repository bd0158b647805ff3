package ports

import (
	"context"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// UserService defines the account administration use cases.
type UserService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*domain.User, error)
	ToggleStatus(ctx context.Context, actor domain.Actor, targetID string) (*domain.User, error)
	Stats(ctx context.Context, actor domain.Actor) (*domain.UserStats, error)
}
