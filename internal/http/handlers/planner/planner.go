// Package planner HTTP-обработчики расширенного планировщика.
package planner

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// Service описывает бизнес-логику планировщика.
type Service interface {
	PlanTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error)
	CalculatorTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error)
	Generate(ctx context.Context, sess session.Session, req models.PlanGenerationRequest) (*models.GeneratedPlan, error)
	Analysis(ctx context.Context, sess session.Session, userID int, calculatorType string) (*models.ClientAnalysis, error)
	Compare(ctx context.Context, sess session.Session, userID int) (*models.CalculatorComparison, error)
}

// Handler обработчики планировщика.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// PlanTypes godoc
// @Summary Стратегии генерации плана
// @Tags Planner
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.PlannerOption}
// @Router /planner/plan-types [get]
func (h *Handler) PlanTypes(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planner.plan_types"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	opts, err := h.service.PlanTypes(r.Context(), sess)
	if err != nil {
		h.logger(r, op).Error("failed to load plan types", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, opts)
}

// CalculatorTypes godoc
// @Summary Калькуляторы
// @Tags Planner
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.PlannerOption}
// @Router /planner/calculator-types [get]
func (h *Handler) CalculatorTypes(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planner.calculator_types"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	opts, err := h.service.CalculatorTypes(r.Context(), sess)
	if err != nil {
		h.logger(r, op).Error("failed to load calculator types", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, opts)
}

// Generate godoc
// @Summary Сгенерировать план
// @Description Без user_id план строится для пользователя сессии.
// @Tags Planner
// @Accept  json
// @Produce  json
// @Param request body models.PlanGenerationRequest true "Параметры генерации"
// @Success 201 {object} response.Response{data=models.GeneratedPlan}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /planner/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planner.generate"
	log := h.logger(r, op)

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	var req models.PlanGenerationRequest
	if err := request.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	plan, err := h.service.Generate(r.Context(), sess, req)
	if err != nil {
		log.Info("plan generation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, plan)
}

// Analysis godoc
// @Summary Анализ клиента
// @Tags Planner
// @Produce  json
// @Param user_id query int true "ID клиента"
// @Param calculator_type query string false "standard или sport"
// @Success 200 {object} response.Response{data=models.ClientAnalysis}
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /planner/analysis [get]
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planner.analysis"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	userID, err := request.IntQuery(r, "user_id", 0)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	a, err := h.service.Analysis(r.Context(), sess, userID, r.URL.Query().Get("calculator_type"))
	if err != nil {
		h.logger(r, op).Info("client analysis failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, a)
}

// Compare godoc
// @Summary Сравнение калькуляторов
// @Tags Planner
// @Produce  json
// @Param user_id query int true "ID клиента"
// @Success 200 {object} response.Response{data=models.CalculatorComparison}
// @Router /planner/compare [get]
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planner.compare"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	userID, err := request.IntQuery(r, "user_id", 0)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	c, err := h.service.Compare(r.Context(), sess, userID)
	if err != nil {
		h.logger(r, op).Info("calculator comparison failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, c)
}
