package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/policy"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

// UserService implements account administration for admins.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if err := policy.CanViewUserList(actor.Role); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if err := policy.CanViewUserDetail(actor.Role); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "get user")
	}
	return user, nil
}

// UpdateRole assigns a new role to another, non-admin account.
func (s *UserService) UpdateRole(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Validationf("unknown role %q", role)
	}
	if actor.ID == targetID {
		return nil, domain.ErrSelfActionDenied
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, notFoundOr(err, "update role")
	}
	if err := policy.CanUpdateRole(actor.Role, actor.ID, target); err != nil {
		s.logger.Warn().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("role update denied")
		return nil, err
	}

	updated, err := s.repo.UpdateRole(ctx, ports.GuardOf(target), role)
	if err != nil {
		return nil, s.writeError(err, "update role")
	}

	s.logger.Info().
		Str("actor_id", actor.ID).
		Str("target_id", targetID).
		Str("from", string(target.Role)).
		Str("to", string(role)).
		Msg("user role updated")
	return updated, nil
}

// ToggleStatus flips the active flag of another, non-admin account.
func (s *UserService) ToggleStatus(ctx context.Context, actor domain.Actor, targetID string) (*domain.User, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, notFoundOr(err, "toggle status")
	}
	if err := policy.CanToggleStatus(actor.Role, actor.ID, target); err != nil {
		s.logger.Warn().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("status toggle denied")
		return nil, err
	}

	updated, err := s.repo.SetActive(ctx, ports.GuardOf(target), !target.IsActive)
	if err != nil {
		return nil, s.writeError(err, "toggle status")
	}

	s.logger.Info().
		Str("actor_id", actor.ID).
		Str("target_id", targetID).
		Bool("is_active", updated.IsActive).
		Msg("user status toggled")
	return updated, nil
}

// Stats aggregates the user population from a single grouped query.
func (s *UserService) Stats(ctx context.Context, actor domain.Actor) (*domain.UserStats, error) {
	if err := policy.CanViewUserStats(actor.Role); err != nil {
		return nil, err
	}
	buckets, err := s.repo.CountByRoleAndStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	stats := domain.NewUserStats(buckets)
	return &stats, nil
}

func (s *UserService) writeError(err error, op string) error {
	if errors.Is(err, domain.ErrStaleUser) {
		s.logger.Warn().Str("op", op).Msg("user changed during update")
		return err
	}
	return notFoundOr(err, op)
}
