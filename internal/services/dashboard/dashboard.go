// Package dashboard панель показателей клиента.
package dashboard

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// API источник показателей.
type API interface {
	NutritionMetrics(ctx context.Context, token string) (*models.NutritionMetrics, error)
}

// Service сервис панели.
type Service struct {
	api API
}

// New создает сервис.
func New(api API) *Service {
	return &Service{api: api}
}

// Metrics показатели питания клиента сессии, рассчитанные сервером.
func (s *Service) Metrics(ctx context.Context, sess session.Session) (*models.NutritionMetrics, error) {
	const op = "dashboard.Metrics"

	m, err := s.api.NutritionMetrics(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}
