package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/metrics"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/middleware"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

func newMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// newContext builds an echo context with the validator installed. A non-nil
// actor is attached as verified claims.
func newContext(method, target, body string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		middleware.SetClaims(c, &domain.Claims{Subject: actor.ID, Role: actor.Role})
	}
	return c, rec
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

var (
	adminActor  = &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	editorActor = &domain.Actor{ID: "editor-1", Role: domain.RoleEditor}
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

type stubArticleService struct {
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateArticleInput) (*domain.Article, error)
	listFn   func(ctx context.Context, in ports.ListArticlesInput) ([]*domain.Article, error)
	getFn    func(ctx context.Context, id string) (*domain.Article, error)
	updateFn func(ctx context.Context, actor domain.Actor, id string, p domain.ArticlePatch) (*domain.Article, error)
	deleteFn func(ctx context.Context, actor domain.Actor, id string) error
	likeFn   func(ctx context.Context, id string) (*domain.Article, error)
}

func (s *stubArticleService) Create(ctx context.Context, actor domain.Actor, in ports.CreateArticleInput) (*domain.Article, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubArticleService) ListPublished(ctx context.Context, in ports.ListArticlesInput) ([]*domain.Article, error) {
	return s.listFn(ctx, in)
}

func (s *stubArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.getFn(ctx, id)
}

func (s *stubArticleService) Update(ctx context.Context, actor domain.Actor, id string, p domain.ArticlePatch) (*domain.Article, error) {
	return s.updateFn(ctx, actor, id, p)
}

func (s *stubArticleService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubArticleService) Like(ctx context.Context, id string) (*domain.Article, error) {
	return s.likeFn(ctx, id)
}

type stubUserService struct {
	listFn   func(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	roleFn   func(ctx context.Context, actor domain.Actor, id string, role domain.Role) (*domain.User, error)
	toggleFn func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	statsFn  func(ctx context.Context, actor domain.Actor) (*domain.UserStats, error)
}

func (s *stubUserService) List(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) UpdateRole(ctx context.Context, actor domain.Actor, id string, role domain.Role) (*domain.User, error) {
	return s.roleFn(ctx, actor, id, role)
}

func (s *stubUserService) ToggleStatus(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.toggleFn(ctx, actor, id)
}

func (s *stubUserService) Stats(ctx context.Context, actor domain.Actor) (*domain.UserStats, error) {
	return s.statsFn(ctx, actor)
}
