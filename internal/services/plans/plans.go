// Package plans планы питания: создание нутрициологом, списки и статусы клиента,
// недельный обзор и удаление.
package plans

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/planfilter"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// API операции FitFlow API, нужные сервису.
type API interface {
	ListFoods(ctx context.Context, token string) ([]models.Food, error)
	ListClients(ctx context.Context, token string) ([]models.User, error)
	CreatePlan(ctx context.Context, token string, form models.PlanForm) (*models.PlanCreated, error)
	MyPlans(ctx context.Context, token string, query url.Values) ([]models.NutritionPlan, error)
	PlanByDate(ctx context.Context, token, date string) (*models.NutritionPlan, error)
	StatusByDate(ctx context.Context, token, date string) (*models.PlanStatus, error)
	WeekOverview(ctx context.Context, token string, offset int) (*models.WeekOverview, error)
	CheckDate(ctx context.Context, token, date string, userID int) (*models.DateAvailability, error)
	DeletePlan(ctx context.Context, token string, planID int) (*models.PlanDeleted, error)
	ForceDeletePlan(ctx context.Context, token string, planID int) (*models.PlanDeleted, error)
}

// FormOptions данные для формы создания плана.
type FormOptions struct {
	Foods     []models.Food     `json:"foods"`
	Clients   []models.User     `json:"clients"`
	MealTypes []models.MealType `json:"meal_types"`
}

// Service сервис планов питания.
type Service struct {
	api      API
	validate *validation.Validator
	log      *slog.Logger
}

// New создает сервис.
func New(api API, validate *validation.Validator, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, log: log}
}

// FormOptions загружает продукты и клиентов параллельно.
func (s *Service) FormOptions(ctx context.Context, sess session.Session) (*FormOptions, error) {
	const op = "plans.FormOptions"

	opts := &FormOptions{MealTypes: models.MealTypes}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		foods, err := s.api.ListFoods(gctx, sess.Token)
		if err != nil {
			return err
		}
		opts.Foods = foods
		return nil
	})
	g.Go(func() error {
		clients, err := s.api.ListClients(gctx, sess.Token)
		if err != nil {
			return err
		}
		opts.Clients = clients
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if opts.Foods == nil {
		opts.Foods = []models.Food{}
	}
	if opts.Clients == nil {
		opts.Clients = []models.User{}
	}
	return opts, nil
}

// Create проверяет форму и создает план от имени нутрициолога сессии.
func (s *Service) Create(ctx context.Context, sess session.Session, form models.PlanForm) (*models.PlanCreated, error) {
	const op = "plans.Create"

	form.NutritionistID = sess.User.UserID
	if errs := s.validate.Struct(form); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	created, err := s.api.CreatePlan(ctx, sess.Token, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("plan created",
		sl.Op(op),
		slog.Int("plan_id", created.PlanID),
		slog.Int("user_id", form.UserID),
		slog.String("plan_date", created.PlanDate),
	)
	return created, nil
}

// MyPlans планы клиента сессии с учетом фильтра.
func (s *Service) MyPlans(ctx context.Context, sess session.Session, filter planfilter.Filter) ([]models.NutritionPlan, error) {
	const op = "plans.MyPlans"

	if errs := filter.Validate(); errs != nil {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	plans, err := s.api.MyPlans(ctx, sess.Token, filter.Query())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.NutritionPlan{}
	}
	return plans, nil
}

// ByDate план клиента на дату.
func (s *Service) ByDate(ctx context.Context, sess session.Session, date string) (*models.NutritionPlan, error) {
	const op = "plans.ByDate"

	if err := checkDate(date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.api.PlanByDate(ctx, sess.Token, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

// StatusByDate статус выполнения плана на дату.
func (s *Service) StatusByDate(ctx context.Context, sess session.Session, date string) (*models.PlanStatus, error) {
	const op = "plans.StatusByDate"

	if err := checkDate(date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	status, err := s.api.StatusByDate(ctx, sess.Token, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// Week недельный обзор со смещением offset от текущей недели.
func (s *Service) Week(ctx context.Context, sess session.Session, offset int) (*models.WeekOverview, error) {
	const op = "plans.Week"

	week, err := s.api.WeekOverview(ctx, sess.Token, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return week, nil
}

// CheckDate проверяет, свободна ли дата для нового плана клиента userID.
func (s *Service) CheckDate(ctx context.Context, sess session.Session, date string, userID int) (*models.DateAvailability, error) {
	const op = "plans.CheckDate"

	errs := validation.FieldErrors{}
	if _, err := dates.Parse(date); err != nil {
		errs.Add("date", "must be a date in format YYYY-MM-DD")
	}
	if userID <= 0 {
		errs.Add("user_id", "must be greater than 0")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	avail, err := s.api.CheckDate(ctx, sess.Token, date, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return avail, nil
}

// Delete удаляет план. С force сервер удаляет и записи дневника за дату плана.
func (s *Service) Delete(ctx context.Context, sess session.Session, planID int, force bool) (*models.PlanDeleted, error) {
	const op = "plans.Delete"

	if planID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"plan_id": "must be greater than 0"})
	}

	var (
		res *models.PlanDeleted
		err error
	)
	if force {
		res, err = s.api.ForceDeletePlan(ctx, sess.Token, planID)
	} else {
		res, err = s.api.DeletePlan(ctx, sess.Token, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("plan deleted", sl.Op(op), slog.Int("plan_id", planID), slog.Bool("force", force))
	return res, nil
}

func checkDate(date string) error {
	if _, err := dates.Parse(date); err != nil {
		return validation.FieldErrors{"date": "must be a date in format YYYY-MM-DD"}
	}
	return nil
}
