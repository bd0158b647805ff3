package ports

import (
	"context"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// ArticleFilter carries the query parameters for published listings.
type ArticleFilter struct {
	Category domain.Category // empty = all categories
	Sort     domain.ArticleSort
}

// ArticleRepository defines persistence operations for articles. Every
// returned article has its Author projection resolved when the author still
// exists.
type ArticleRepository interface {
	Create(ctx context.Context, a *domain.Article) (*domain.Article, error)
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// ListPublished returns published articles only.
	ListPublished(ctx context.Context, filter ArticleFilter) ([]*domain.Article, error)
	// IncrementViews and IncrementLikes are single atomic store operations
	// returning the post-increment article.
	IncrementViews(ctx context.Context, id string) (*domain.Article, error)
	IncrementLikes(ctx context.Context, id string) (*domain.Article, error)
	Update(ctx context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
}
