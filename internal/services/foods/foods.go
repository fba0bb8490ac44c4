// Package foods каталог продуктов.
package foods

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// API операции каталога продуктов.
type API interface {
	ListFoods(ctx context.Context, token string) ([]models.Food, error)
	CreateFood(ctx context.Context, token string, form models.FoodForm) (*models.Food, error)
	UpdateFood(ctx context.Context, token string, id int, form models.FoodForm) (*models.Food, error)
	DeleteFood(ctx context.Context, token string, id int) (*models.Message, error)
}

// Service сервис каталога продуктов.
type Service struct {
	api      API
	validate *validation.Validator
	log      *slog.Logger
}

// New создает сервис.
func New(api API, validate *validation.Validator, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, log: log}
}

// List все продукты.
func (s *Service) List(ctx context.Context, sess session.Session) ([]models.Food, error) {
	const op = "foods.List"
	foods, err := s.api.ListFoods(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if foods == nil {
		foods = []models.Food{}
	}
	return foods, nil
}

// Create проверяет форму и создает продукт.
func (s *Service) Create(ctx context.Context, sess session.Session, form models.FoodForm) (*models.Food, error) {
	const op = "foods.Create"

	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	food, err := s.api.CreateFood(ctx, sess.Token, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("food created", sl.Op(op), slog.Int("food_id", food.FoodID))
	return food, nil
}

// Update проверяет форму и изменяет продукт id.
func (s *Service) Update(ctx context.Context, sess session.Session, id int, form models.FoodForm) (*models.Food, error) {
	const op = "foods.Update"

	if id <= 0 {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"food_id": "must be greater than 0"})
	}
	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	food, err := s.api.UpdateFood(ctx, sess.Token, id, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return food, nil
}

// Delete удаляет продукт id.
func (s *Service) Delete(ctx context.Context, sess session.Session, id int) (*models.Message, error) {
	const op = "foods.Delete"

	if id <= 0 {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"food_id": "must be greater than 0"})
	}
	msg, err := s.api.DeleteFood(ctx, sess.Token, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("food deleted", sl.Op(op), slog.Int("food_id", id))
	return msg, nil
}
