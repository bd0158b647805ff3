package ports

import (
	"context"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// CreateArticleInput carries the fields of a new article.
type CreateArticleInput struct {
	Title       string
	Content     string
	Summary     string
	Category    domain.Category
	ImageURL    string
	Tags        []string
	IsPublished *bool // nil = published
}

// ListArticlesInput carries the public listing query.
type ListArticlesInput struct {
	SortBy   string
	Category string
}

// ArticleService defines the article lifecycle use cases.
type ArticleService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateArticleInput) (*domain.Article, error)
	ListPublished(ctx context.Context, input ListArticlesInput) ([]*domain.Article, error)
	Get(ctx context.Context, id string) (*domain.Article, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Like(ctx context.Context, id string) (*domain.Article, error)
}
