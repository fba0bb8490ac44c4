// Package foodlog дневник питания клиента: сверка плана со съеденным,
// отправка порций и повторное чтение статуса плана после записи.
package foodlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/fitflow-web/internal/events"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/metrics"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/reconcile"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/storage"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

var (
	// ErrPlanNotFound план с таким id не принадлежит клиенту.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrJournalDisabled журнал отправок не настроен.
	ErrJournalDisabled = errors.New("submission journal is disabled")
)

// Результаты отправки для метрик.
const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// API операции FitFlow API, нужные дневнику.
type API interface {
	MyPlans(ctx context.Context, token string, query url.Values) ([]models.NutritionPlan, error)
	PlanStatus(ctx context.Context, token string, planID int) (*models.PlanStatus, error)
	PlanByDate(ctx context.Context, token, date string) (*models.NutritionPlan, error)
	StatusByDate(ctx context.Context, token, date string) (*models.PlanStatus, error)
	CreateFoodLogs(ctx context.Context, token string, entries []models.FoodLogEntry) (*models.Message, error)
}

// Journal журнал принятых отправок.
type Journal interface {
	SaveSubmission(ctx context.Context, sub *storage.Submission) error
	ListSubmissions(ctx context.Context, userID, limit, offset int) ([]storage.Submission, error)
}

// Publisher публикует событие об отправке.
type Publisher interface {
	PublishFoodLogSubmitted(ctx context.Context, event events.FoodLogSubmitted) error
}

// Metrics учет результатов отправки и повторного чтения.
type Metrics interface {
	ObserveConsistency(outcome string, attempts int)
	ObserveSubmission(result string)
}

// View план с рассчитанными строками дневника.
type View struct {
	Plan      models.NutritionPlan `json:"plan"`
	Status    models.PlanStatus    `json:"status"`
	Rows      []reconcile.Row      `json:"rows"`
	Fulfilled bool                 `json:"fulfilled"`
	// Editable порции можно добавлять только в план на сегодня.
	Editable bool   `json:"editable"`
	Today    string `json:"today"`
}

// Result итог отправки порций.
type Result struct {
	SubmissionID string                `json:"submission_id"`
	Entries      []models.FoodLogEntry `json:"entries"`
	Message      string                `json:"message"`
	Status       models.PlanStatus     `json:"status"`
	Rows         []reconcile.Row       `json:"rows"`
	Fulfilled    bool                  `json:"fulfilled"`
	Consistent   bool                  `json:"consistent"`
	Attempts     int                   `json:"attempts"`
}

// Service сервис дневника питания.
type Service struct {
	api       API
	validate  *validation.Validator
	log       *slog.Logger
	schedule  []time.Duration
	journal   Journal
	publisher Publisher
	metrics   Metrics
	now       func() time.Time
}

// New создает сервис. journal, publisher и metrics могут быть nil.
// schedule задает моменты повторного чтения статуса, отсчитанные от записи.
func New(api API, validate *validation.Validator, log *slog.Logger, schedule []time.Duration,
	journal Journal, publisher Publisher, metrics Metrics) *Service {
	if len(schedule) == 0 {
		schedule = []time.Duration{0}
	}
	return &Service{
		api:       api,
		validate:  validate,
		log:       log,
		schedule:  schedule,
		journal:   journal,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// ViewByPlan дневник для плана planID клиента сессии.
func (s *Service) ViewByPlan(ctx context.Context, sess session.Session, planID int) (*View, error) {
	const op = "foodlog.ViewByPlan"

	var (
		plan   *models.NutritionPlan
		status *models.PlanStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		plans, err := s.api.MyPlans(gctx, sess.Token, nil)
		if err != nil {
			return err
		}
		for i := range plans {
			if plans[i].PlanID == planID {
				plan = &plans[i]
				return nil
			}
		}
		return ErrPlanNotFound
	})
	g.Go(func() error {
		var err error
		status, err = s.api.PlanStatus(gctx, sess.Token, planID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(*plan, *status), nil
}

// ViewByDate дневник для плана клиента на дату date.
func (s *Service) ViewByDate(ctx context.Context, sess session.Session, date string) (*View, error) {
	const op = "foodlog.ViewByDate"

	if _, err := dates.Parse(date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"date": "must be a date in format YYYY-MM-DD"})
	}

	var (
		plan   *models.NutritionPlan
		status *models.PlanStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = s.api.PlanByDate(gctx, sess.Token, date)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = s.api.StatusByDate(gctx, sess.Token, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(*plan, *status), nil
}

func (s *Service) view(plan models.NutritionPlan, status models.PlanStatus) *View {
	today := dates.Format(s.now())
	rows := reconcile.BuildRows(plan, status)
	return &View{
		Plan:      plan,
		Status:    status,
		Rows:      rows,
		Fulfilled: allFulfilled(rows),
		Editable:  plan.PlanDate == today,
		Today:     today,
	}
}

// Submit проверяет введенные порции против плана и отправляет их одной пачкой
// с сегодняшней датой. После записи статус плана перечитывается по расписанию,
// пока он не отразит все отправленные порции.
func (s *Service) Submit(ctx context.Context, sess session.Session, form models.FoodLogForm) (*Result, error) {
	const op = "foodlog.Submit"

	log := s.log.With(sl.Op(op), slog.Int("user_id", sess.User.UserID))

	if errs := s.validate.Struct(form); errs != nil {
		s.observeSubmission(resultRejected)
		return nil, fmt.Errorf("%s: %w", op, errs)
	}
	today := dates.Format(s.now())
	if form.Date != "" && form.Date != today {
		s.observeSubmission(resultRejected)
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"date": "food can only be logged for today"})
	}

	var (
		view *View
		err  error
	)
	if form.PlanID != nil {
		view, err = s.ViewByPlan(ctx, sess, *form.PlanID)
	} else {
		view, err = s.ViewByDate(ctx, sess, today)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// статус плана считает только записи на дату плана
	if !view.Editable {
		s.observeSubmission(resultRejected)
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"plan_id": "food can only be logged for today's plan"})
	}

	entries, errs := reconcile.Entries(view.Rows, form.Portions, today)
	if errs != nil {
		s.observeSubmission(resultRejected)
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	msg, err := s.api.CreateFoodLogs(ctx, sess.Token, entries)
	if err != nil {
		s.observeSubmission(resultFailed)
		log.Error("failed to create food logs", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.observeSubmission(resultAccepted)

	targets := reconcile.Targets(view.Rows, entries)
	status, attempts, consistent := s.reread(ctx, sess, view.Plan.PlanID, targets)
	reread := status != nil
	if !reread {
		status = &view.Status
	}

	switch {
	case consistent:
		s.observeConsistency(metrics.OutcomeConsistent, attempts)
	case !reread:
		s.observeConsistency(metrics.OutcomeFailed, attempts)
		log.Warn("plan status was not re-read after submission",
			slog.Int("plan_id", view.Plan.PlanID),
			slog.Int("attempts", attempts),
		)
	default:
		s.observeConsistency(metrics.OutcomeLagging, attempts)
		log.Warn("plan status lags behind submitted food logs",
			slog.Int("plan_id", view.Plan.PlanID),
			slog.Int("attempts", attempts),
		)
	}

	rows := reconcile.BuildRows(view.Plan, *status)
	res := &Result{
		SubmissionID: uuid.NewString(),
		Entries:      entries,
		Status:       *status,
		Rows:         rows,
		Fulfilled:    allFulfilled(rows),
		Consistent:   consistent,
		Attempts:     attempts,
	}
	if msg != nil {
		res.Message = msg.Message
	}

	// сервер уже принял записи: журнал и событие пишутся и после отмены запроса
	s.record(context.WithoutCancel(ctx), log, sess, view.Plan.PlanID, today, res)

	log.Info("food logs submitted",
		slog.String("submission_id", res.SubmissionID),
		slog.Int("entries", len(entries)),
		slog.Bool("consistent", consistent),
	)
	return res, nil
}

// reread читает статус плана по расписанию до совпадения с targets.
// Значения расписания отсчитываются от момента записи, а не от предыдущего чтения.
// Возвращает последний прочитанный статус или nil, если ни одно чтение не удалось.
func (s *Service) reread(ctx context.Context, sess session.Session, planID int, targets []reconcile.Target) (*models.PlanStatus, int, bool) {
	const op = "foodlog.reread"

	var (
		last     *models.PlanStatus
		attempts int
	)
	submitted := time.Now()
	for _, offset := range s.schedule {
		if err := wait(ctx, offset-time.Since(submitted)); err != nil {
			break
		}
		attempts++
		status, err := s.api.PlanStatus(ctx, sess.Token, planID)
		if err != nil {
			s.log.Debug("plan status re-read failed", sl.Op(op), sl.Err(err), slog.Int("attempt", attempts))
			continue
		}
		last = status
		if reconcile.Converged(*status, targets) {
			return last, attempts, true
		}
	}
	return last, attempts, false
}

func (s *Service) record(ctx context.Context, log *slog.Logger, sess session.Session, planID int, date string, res *Result) {
	id, err := uuid.Parse(res.SubmissionID)
	if err != nil {
		log.Error("invalid submission id", sl.Err(err))
		return
	}
	pid := planID

	if s.journal != nil {
		sub := &storage.Submission{
			ID:         id,
			UserID:     sess.User.UserID,
			PlanID:     &pid,
			LogDate:    date,
			Entries:    res.Entries,
			Consistent: res.Consistent,
			Attempts:   res.Attempts,
		}
		if err := s.journal.SaveSubmission(ctx, sub); err != nil {
			log.Error("failed to save submission", sl.Err(err))
		}
	}

	if s.publisher != nil {
		event := events.FoodLogSubmitted{
			SubmissionID: res.SubmissionID,
			UserID:       sess.User.UserID,
			PlanID:       &pid,
			Date:         date,
			Entries:      res.Entries,
			Consistent:   res.Consistent,
			SubmittedAt:  s.now().UTC(),
		}
		if err := s.publisher.PublishFoodLogSubmitted(ctx, event); err != nil {
			log.Error("failed to publish food log event", sl.Err(err))
		}
	}
}

// History последние отправки клиента сессии, новые первыми.
func (s *Service) History(ctx context.Context, sess session.Session, limit, offset int) ([]storage.Submission, error) {
	const op = "foodlog.History"

	if s.journal == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrJournalDisabled)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, validation.FieldErrors{"offset": "must be greater than or equal to 0"})
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	subs, err := s.journal.ListSubmissions(ctx, sess.User.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []storage.Submission{}
	}
	return subs, nil
}

func (s *Service) observeSubmission(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result)
	}
}

func (s *Service) observeConsistency(outcome string, attempts int) {
	if s.metrics != nil {
		s.metrics.ObserveConsistency(outcome, attempts)
	}
}

func allFulfilled(rows []reconcile.Row) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !r.Fulfilled {
			return false
		}
	}
	return true
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
