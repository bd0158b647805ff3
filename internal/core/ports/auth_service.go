package ports

import (
	"context"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	CaptchaToken string
	RemoteIP     string
}

// LoginInput carries a login attempt. Identifier is an email or a username.
type LoginInput struct {
	Identifier   string
	Password     string
	CaptchaToken string
	RemoteIP     string
}

// AuthResult is returned after a successful registration or login.
type AuthResult struct {
	AccessToken string
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}
