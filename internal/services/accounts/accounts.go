// Package accounts регистрация пользователей и списки пользователей по ролям.
package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// API операции FitFlow API, нужные сервису.
type API interface {
	Me(ctx context.Context, token string) (*models.User, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	ListClients(ctx context.Context, token string) ([]models.User, error)
	ListNutritionists(ctx context.Context, token string) ([]models.User, error)
	ListAdmins(ctx context.Context, token string) ([]models.User, error)
	RegisterClient(ctx context.Context, form models.ClientRegistration) (*models.ClientProfile, error)
	RegisterNutritionist(ctx context.Context, form models.NutritionistRegistration) (*models.Message, error)
	RegisterAdmin(ctx context.Context, form models.AdminRegistration) (*models.Message, error)
}

// UserKind какой список пользователей запрошен.
type UserKind string

const (
	KindAll           UserKind = "users"
	KindClients       UserKind = "clients"
	KindNutritionists UserKind = "nutritionists"
	KindAdmins        UserKind = "admins"
)

// Service сервис учетных записей.
type Service struct {
	api      API
	validate *validation.Validator
	log      *slog.Logger
}

// New создает сервис.
func New(api API, validate *validation.Validator, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, log: log}
}

// RegisterClient проверяет форму и регистрирует клиента.
func (s *Service) RegisterClient(ctx context.Context, form models.ClientRegistration) (*models.ClientProfile, error) {
	const op = "accounts.RegisterClient"

	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	profile, err := s.api.RegisterClient(ctx, form)
	if err != nil {
		s.log.Warn("client registration failed", sl.Op(op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("client registered", sl.Op(op), slog.Int("user_id", profile.UserID))
	return profile, nil
}

// RegisterNutritionist проверяет форму и регистрирует нутрициолога.
func (s *Service) RegisterNutritionist(ctx context.Context, form models.NutritionistRegistration) (*models.Message, error) {
	const op = "accounts.RegisterNutritionist"

	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	msg, err := s.api.RegisterNutritionist(ctx, form)
	if err != nil {
		s.log.Warn("nutritionist registration failed", sl.Op(op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// RegisterAdmin проверяет форму и регистрирует администратора.
func (s *Service) RegisterAdmin(ctx context.Context, form models.AdminRegistration) (*models.Message, error) {
	const op = "accounts.RegisterAdmin"

	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	msg, err := s.api.RegisterAdmin(ctx, form)
	if err != nil {
		s.log.Warn("admin registration failed", sl.Op(op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// Me профиль текущего пользователя, свежий с сервера.
func (s *Service) Me(ctx context.Context, sess session.Session) (*models.User, error) {
	const op = "accounts.Me"
	user, err := s.api.Me(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// List список пользователей выбранного вида.
func (s *Service) List(ctx context.Context, sess session.Session, kind UserKind) ([]models.User, error) {
	const op = "accounts.List"

	var (
		users []models.User
		err   error
	)
	switch kind {
	case KindAll:
		users, err = s.api.ListUsers(ctx, sess.Token)
	case KindClients:
		users, err = s.api.ListClients(ctx, sess.Token)
	case KindNutritionists:
		users, err = s.api.ListNutritionists(ctx, sess.Token)
	case KindAdmins:
		users, err = s.api.ListAdmins(ctx, sess.Token)
	default:
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"kind": "must be one of: users clients nutritionists admins"})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
