// Package planner расширенный планировщик: генерация плана по стратегии
// и анализ клиента калькуляторами.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Калькуляторы, известные серверу.
const (
	CalculatorStandard = "standard"
	CalculatorSport    = "sport"
)

// API операции /nutrition-enhanced.
type API interface {
	PlanTypes(ctx context.Context, token string) ([]models.PlannerOption, error)
	CalculatorTypes(ctx context.Context, token string) ([]models.PlannerOption, error)
	GeneratePlan(ctx context.Context, token string, req models.PlanGenerationRequest) (*models.GeneratedPlan, error)
	ClientAnalysis(ctx context.Context, token string, userID int, calculatorType string) (*models.ClientAnalysis, error)
	CompareCalculators(ctx context.Context, token string, userID int) (*models.CalculatorComparison, error)
}

// Service сервис планировщика.
type Service struct {
	api      API
	validate *validation.Validator
	log      *slog.Logger
}

// New создает сервис.
func New(api API, validate *validation.Validator, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, log: log}
}

// PlanTypes доступные стратегии генерации.
func (s *Service) PlanTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error) {
	const op = "planner.PlanTypes"
	opts, err := s.api.PlanTypes(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(opts), nil
}

// CalculatorTypes доступные калькуляторы.
func (s *Service) CalculatorTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error) {
	const op = "planner.CalculatorTypes"
	opts, err := s.api.CalculatorTypes(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(opts), nil
}

// Generate генерирует план. Без user_id план строится для пользователя сессии.
func (s *Service) Generate(ctx context.Context, sess session.Session, req models.PlanGenerationRequest) (*models.GeneratedPlan, error) {
	const op = "planner.Generate"

	if req.UserID == 0 {
		req.UserID = sess.User.UserID
	}
	if errs := s.validate.Struct(req); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	plan, err := s.api.GeneratePlan(ctx, sess.Token, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("plan generated",
		sl.Op(op),
		slog.Int("user_id", req.UserID),
		slog.String("plan_type", req.PlanType),
		slog.String("calculator_type", req.CalculatorType),
	)
	return plan, nil
}

// Analysis анализ клиента userID калькулятором calculatorType.
func (s *Service) Analysis(ctx context.Context, sess session.Session, userID int, calculatorType string) (*models.ClientAnalysis, error) {
	const op = "planner.Analysis"

	if calculatorType == "" {
		calculatorType = CalculatorStandard
	}
	errs := validation.FieldErrors{}
	if userID <= 0 {
		errs.Add("user_id", "must be greater than 0")
	}
	if calculatorType != CalculatorStandard && calculatorType != CalculatorSport {
		errs.Add("calculator_type", "must be one of: standard sport")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	a, err := s.api.ClientAnalysis(ctx, sess.Token, userID, calculatorType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Compare сравнивает калькуляторы для клиента userID.
func (s *Service) Compare(ctx context.Context, sess session.Session, userID int) (*models.CalculatorComparison, error) {
	const op = "planner.Compare"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"user_id": "must be greater than 0"})
	}
	c, err := s.api.CompareCalculators(ctx, sess.Token, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func nonNil(opts []models.PlannerOption) []models.PlannerOption {
	if opts == nil {
		return []models.PlannerOption{}
	}
	return opts
}
