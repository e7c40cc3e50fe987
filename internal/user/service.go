package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

// RepositoryAPI returns (nil, nil) from lookups when no row matches.
type RepositoryAPI interface {
	Create(ctx context.Context, user *rbac.User) error
	GetByID(ctx context.Context, id string) (*rbac.User, error)
	GetByEmail(ctx context.Context, email string) (*rbac.User, error)
	GetByUsername(ctx context.Context, username string) (*rbac.User, error)
	Update(ctx context.Context, user *rbac.User) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := ToDataModel(NewUser(dto.Email, dto.Username))
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, internal.ErrDuplicateKey) {
			return nil, internal.NewConflictError("Email or username already in use.", internal.ErrCodeUserExists).WithCause(err)
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("Failed to create user.", err)
	}

	s.logger.Info("user created", "user_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.find(ctx, "id", id, s.repo.GetByID)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.find(ctx, "email", email, s.repo.GetByEmail)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.find(ctx, "username", username, s.repo.GetByUsername)
}

func (s *Service) find(ctx context.Context, field, value string, lookup func(context.Context, string) (*rbac.User, error)) (*User, error) {
	row, err := lookup(ctx, value)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, field, value)
		return nil, internal.NewInternalError("Failed to get user.", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound()
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(dto)

	row := ToDataModel(u)
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, internal.ErrDuplicateKey) {
			return nil, internal.NewConflictError("Email or username already in use.", internal.ErrCodeUserExists).WithCause(err)
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("Failed to update user.", err)
	}

	return FromDataModel(row), nil
}

// Delete removes the user and, by cascade, its role and permission links.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return false, internal.NewInternalError("Failed to delete user.", err)
	}
	if deleted {
		s.logger.Info("user deleted", "user_id", id)
	}
	return deleted, nil
}
