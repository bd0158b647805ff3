package ports

import "github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"

// SessionIssuer signs session tokens for an authenticated user.
type SessionIssuer interface {
	Issue(user *domain.User) (string, error)
}

// SessionVerifier validates a token and returns the claims it carries.
type SessionVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
