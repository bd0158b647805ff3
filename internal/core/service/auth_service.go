package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// Credential bounds, applied after trimming. Password length is in bytes,
// the most bcrypt accepts.
const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 6
	passwordMaxLen = 72
)

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.UserRepository
	issuer  ports.SessionIssuer
	captcha ports.CaptchaVerifier
	cost    int
	logger  zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	issuer ports.SessionIssuer,
	captcha ports.CaptchaVerifier,
	bcryptCost int,
	logger zerolog.Logger,
) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{
		repo:    repo,
		issuer:  issuer,
		captcha: captcha,
		cost:    bcryptCost,
		logger:  logger,
	}
}

// Register creates a USER account and opens a session for it. The email is
// checked before the username; each collision is its own conflict error.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := s.verifyCaptcha(ctx, in.CaptchaToken, in.RemoteIP); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if err := validateCredentials(username, email, in.Password); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, username, email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return s.openSession(user)
}

// Login authenticates by email or username. Unknown identifiers and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if err := s.verifyCaptcha(ctx, in.CaptchaToken, in.RemoteIP); err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("identifier", identifier).Msg("login rejected: unknown identifier")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.logger.Debug().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: account disabled")
		return nil, domain.ErrAccountDisabled
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return s.openSession(user)
}

// EnsureAdmin creates an admin account unless one with the same email
// already exists. It reports whether a new account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.User, bool, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if err := validateCredentials(username, email, password); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, false, fmt.Errorf("ensure admin: %s belongs to a %s account: %w", email, existing.Role, domain.ErrEmailTaken)
		}
		return existing, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, false, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	user, err := s.createUser(ctx, username, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin account created")
	return user, true, nil
}

func (s *AuthService) verifyCaptcha(ctx context.Context, token, remoteIP string) error {
	if err := s.captcha.Verify(ctx, token, remoteIP); err != nil {
		if errors.Is(err, domain.ErrCaptchaFailed) {
			return err
		}
		return fmt.Errorf("verify captcha: %w", err)
	}
	return nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find by email: %w", err)
	}

	user, err = s.repo.FindByUsername(ctx, identifier)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find by username: %w", err)
	}
	return user, err
}

func (s *AuthService) openSession(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &ports.AuthResult{AccessToken: token, User: user}, nil
}

// validateCredentials expects username and email already normalised.
func validateCredentials(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return domain.Validationf("username, email and password are required")
	}
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return domain.Validationf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	if n := len(password); n < passwordMinLen || n > passwordMaxLen {
		return domain.Validationf("password must be between %d and %d characters", passwordMinLen, passwordMaxLen)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
