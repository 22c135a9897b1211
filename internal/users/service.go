package users

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/safar/go-sql-notes/internal/apperr"
	"github.com/safar/go-sql-notes/internal/auth"
	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
	"github.com/safar/go-sql-notes/internal/store"
)

type Store interface {
	Register(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
}

type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service struct {
	store    Store
	tokens   *auth.Tokens
	validate *validator.Validate
}

func NewService(s Store, tokens *auth.Tokens) *Service {
	return &Service{store: s, tokens: tokens, validate: apperr.NewValidator()}
}

// Register creates an account. The first account ever created is an admin.
func (s *Service) Register(ctx context.Context, in Credentials) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Register(ctx, in.Username, hash)
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			return nil, apperr.Conflict("username already taken")
		}
		return nil, apperr.Storage("register user", err)
	}

	log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

func (s *Service) Login(ctx context.Context, in Credentials) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}

	user, err := s.store.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, apperr.Storage("get user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperr.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func (s *Service) Me(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Storage("get user", err)
	}
	return user, nil
}

// DeleteAccount removes the caller and, through the foreign key, their notes.
// Admin accounts are removed by another admin only.
func (s *Service) DeleteAccount(ctx context.Context, id int64, role string) error {
	if role == models.RoleAdmin {
		return apperr.Forbidden("admins cannot delete their own account")
	}
	return s.delete(ctx, id)
}

func (s *Service) AdminList(ctx context.Context, page, pageSize int) (*store.OffsetPage, error) {
	page, pageSize = store.NormalizePage(page, pageSize)

	result, err := s.store.List(ctx, page, pageSize)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return result, nil
}

func (s *Service) AdminDelete(ctx context.Context, adminID, id int64) error {
	if adminID == id {
		return apperr.Forbidden("admins cannot delete themselves")
	}
	return s.delete(ctx, id)
}

func (s *Service) delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return apperr.ErrNotFound
		}
		return apperr.Storage("delete user", err)
	}
	return nil
}
