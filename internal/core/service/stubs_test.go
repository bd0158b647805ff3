package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	writes int // successful Create/UpdateRole/SetActive calls

	findErr error // if set, lookups return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// seed stores u directly, bypassing the service, and returns its copy.
func (r *stubUserRepo) seed(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Add(time.Duration(len(r.users)) * time.Second)
	}
	r.users[u.ID] = cloneUser(&u)
	return cloneUser(&u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	r.writes++
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := cloneUser(u)
		clone.PasswordHash = ""
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) conditionalWrite(guard ports.UserGuard, apply func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[guard.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Role != guard.Role || u.IsActive != guard.IsActive {
		return nil, domain.ErrStaleUser
	}
	apply(u)
	u.UpdatedAt = time.Now().UTC()
	r.writes++
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, guard ports.UserGuard, role domain.Role) (*domain.User, error) {
	return r.conditionalWrite(guard, func(u *domain.User) { u.Role = role })
}

func (r *stubUserRepo) SetActive(_ context.Context, guard ports.UserGuard, active bool) (*domain.User, error) {
	return r.conditionalWrite(guard, func(u *domain.User) { u.IsActive = active })
}

func (r *stubUserRepo) CountByRoleAndStatus(_ context.Context) ([]domain.RoleStatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		role   domain.Role
		active bool
	}
	counts := make(map[key]int64)
	for _, u := range r.users {
		counts[key{u.Role, u.IsActive}]++
	}
	out := make([]domain.RoleStatusCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.RoleStatusCount{Role: k.role, IsActive: k.active, Count: n})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory article repository
// ---------------------------------------------------------------------------

type stubArticleRepo struct {
	mu       sync.Mutex
	articles map[string]*domain.Article
	authors  map[string]string // user id -> username
	nextID   int
	writes   int // successful Create/Update/Delete calls
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{
		articles: make(map[string]*domain.Article),
		authors:  make(map[string]string),
	}
}

func (r *stubArticleRepo) project(a *domain.Article) *domain.Article {
	clone := *a
	clone.Tags = append([]string(nil), a.Tags...)
	if name, ok := r.authors[a.AuthorID]; ok {
		clone.Author = &domain.Author{ID: a.AuthorID, Username: name}
	}
	return &clone
}

func (r *stubArticleRepo) Create(_ context.Context, a *domain.Article) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *a
	stored.ID = fmt.Sprintf("article-%d", r.nextID)
	r.articles[stored.ID] = &stored
	r.writes++
	return r.project(&stored), nil
}

func (r *stubArticleRepo) FindByID(_ context.Context, id string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return r.project(a), nil
}

func (r *stubArticleRepo) ListPublished(_ context.Context, f ports.ArticleFilter) ([]*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Article
	for _, a := range r.articles {
		if !a.IsPublished {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		out = append(out, r.project(a))
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case domain.SortPopularity:
			return out[i].Views > out[j].Views
		case domain.SortLikes:
			return out[i].Likes > out[j].Likes
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (r *stubArticleRepo) increment(id string, apply func(*domain.Article)) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	apply(a)
	return r.project(a), nil
}

func (r *stubArticleRepo) IncrementViews(_ context.Context, id string) (*domain.Article, error) {
	return r.increment(id, func(a *domain.Article) { a.Views++ })
}

func (r *stubArticleRepo) IncrementLikes(_ context.Context, id string) (*domain.Article, error) {
	return r.increment(id, func(a *domain.Article) { a.Likes++ })
}

func (r *stubArticleRepo) Update(_ context.Context, id string, p domain.ArticlePatch) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.Tags != nil {
		a.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	a.UpdatedAt = time.Now().UTC()
	r.writes++
	return r.project(a), nil
}

func (r *stubArticleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.articles, id)
	r.writes++
	return nil
}

// ---------------------------------------------------------------------------
// Session and captcha collaborators
// ---------------------------------------------------------------------------

type stubIssuer struct {
	issued []*domain.User
}

func (s *stubIssuer) Issue(user *domain.User) (string, error) {
	s.issued = append(s.issued, cloneUser(user))
	return "token-for-" + user.ID, nil
}

type stubCaptcha struct {
	err   error
	calls int
}

func (c *stubCaptcha) Verify(_ context.Context, _, _ string) error {
	c.calls++
	return c.err
}

func ptr[T any](v T) *T { return &v }
