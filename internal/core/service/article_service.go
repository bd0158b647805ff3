package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/policy"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

type ArticleService struct {
	repo   ports.ArticleRepository
	logger zerolog.Logger
}

func NewArticleService(repo ports.ArticleRepository, logger zerolog.Logger) *ArticleService {
	return &ArticleService{repo: repo, logger: logger}
}

// Create stores a new article authored by actor. Counters start at zero.
func (s *ArticleService) Create(ctx context.Context, actor domain.Actor, in ports.CreateArticleInput) (*domain.Article, error) {
	if err := policy.CanCreateArticle(actor.Role); err != nil {
		return nil, err
	}
	if err := validateNewArticle(in); err != nil {
		return nil, err
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	article, err := s.repo.Create(ctx, &domain.Article{
		Title:       in.Title,
		Content:     in.Content,
		Summary:     in.Summary,
		Category:    in.Category,
		AuthorID:    actor.ID,
		IsPublished: published,
		ImageURL:    in.ImageURL,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", actor.ID).Msg("failed to create article")
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Info().Str("article_id", article.ID).Str("author_id", actor.ID).Str("category", string(article.Category)).Msg("article created")
	return article, nil
}

// ListPublished returns published articles. Unknown sort keys fall back to
// newest first.
func (s *ArticleService) ListPublished(ctx context.Context, in ports.ListArticlesInput) ([]*domain.Article, error) {
	filter := ports.ArticleFilter{Sort: parseSort(in.SortBy)}
	if in.Category != "" {
		category := domain.Category(in.Category)
		if !category.Valid() {
			return nil, domain.Validationf("unknown category %q", in.Category)
		}
		filter.Category = category
	}

	articles, err := s.repo.ListPublished(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get returns an article and counts the read. Every successful call adds
// exactly one view and the returned article already includes it.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "get article")
	}
	return article, nil
}

// Update applies patch when actor is the author or an admin.
func (s *ArticleService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "update article")
	}
	if err := policy.CanModifyArticle(actor.Role, actor.ID, current.AuthorID); err != nil {
		s.logger.Warn().Str("article_id", id).Str("actor_id", actor.ID).Msg("article update denied")
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundOr(err, "update article")
	}

	s.logger.Info().Str("article_id", id).Str("actor_id", actor.ID).Msg("article updated")
	return updated, nil
}

// Delete removes the article permanently when actor is the author or an admin.
func (s *ArticleService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "delete article")
	}
	if err := policy.CanModifyArticle(actor.Role, actor.ID, current.AuthorID); err != nil {
		s.logger.Warn().Str("article_id", id).Str("actor_id", actor.ID).Msg("article delete denied")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete article")
	}

	s.logger.Info().Str("article_id", id).Str("actor_id", actor.ID).Msg("article deleted")
	return nil
}

// Like adds one like. Likes are not de-duplicated per caller.
func (s *ArticleService) Like(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "like article")
	}
	return article, nil
}

func parseSort(sortBy string) domain.ArticleSort {
	switch domain.ArticleSort(sortBy) {
	case domain.SortPopularity:
		return domain.SortPopularity
	case domain.SortLikes:
		return domain.SortLikes
	default:
		return domain.SortNewest
	}
}

func validateNewArticle(in ports.CreateArticleInput) error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(in.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return domain.Validationf("%s required", strings.Join(missing, ", "))
	}
	if !in.Category.Valid() {
		return domain.Validationf("unknown category %q", in.Category)
	}
	return nil
}

func validatePatch(p domain.ArticlePatch) error {
	for name, v := range map[string]*string{"title": p.Title, "content": p.Content, "summary": p.Summary} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return domain.Validationf("%s must not be empty", name)
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return domain.Validationf("unknown category %q", *p.Category)
	}
	return nil
}

// notFoundOr passes domain not-found errors through and wraps anything else.
func notFoundOr(err error, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
