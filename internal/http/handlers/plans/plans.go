// Package plans реализует HTTP-обработчики планов питания.
package plans

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/planfilter"
	planservice "github.com/magabrotheeeer/fitflow-web/internal/services/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Service описывает бизнес-логику планов.
type Service interface {
	FormOptions(ctx context.Context, sess session.Session) (*planservice.FormOptions, error)
	Create(ctx context.Context, sess session.Session, form models.PlanForm) (*models.PlanCreated, error)
	MyPlans(ctx context.Context, sess session.Session, filter planfilter.Filter) ([]models.NutritionPlan, error)
	ByDate(ctx context.Context, sess session.Session, date string) (*models.NutritionPlan, error)
	StatusByDate(ctx context.Context, sess session.Session, date string) (*models.PlanStatus, error)
	Week(ctx context.Context, sess session.Session, offset int) (*models.WeekOverview, error)
	CheckDate(ctx context.Context, sess session.Session, date string, userID int) (*models.DateAvailability, error)
	Delete(ctx context.Context, sess session.Session, planID int, force bool) (*models.PlanDeleted, error)
}

// Handler обработчики планов питания.
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

// List godoc
// @Summary Мои планы
// @Description Планы клиента. Фильтры взаимоисключающие: указывается не больше одного.
// @Tags Plans
// @Produce  json
// @Param specific_date query string false "Дата YYYY-MM-DD"
// @Param start_date query string false "Начало диапазона"
// @Param end_date query string false "Конец диапазона"
// @Param week_offset query int false "Смещение недели"
// @Param month_year query string false "Месяц YYYY-MM"
// @Success 200 {object} response.Response{data=[]models.NutritionPlan}
// @Failure 422 {object} response.ErrorResponse "Некорректный фильтр"
// @Router /plans [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	filter, errs := planfilter.FromQuery(r.URL.Query())
	if errs != nil {
		response.RenderError(w, r, errs)
		return
	}

	list, err := h.service.MyPlans(r.Context(), sess, filter)
	if err != nil {
		h.logger(r, op).Error("failed to list plans", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, list)
}

// FormOptions godoc
// @Summary Данные формы плана
// @Description Продукты, клиенты и приемы пищи для формы создания плана.
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response{data=planservice.FormOptions}
// @Router /plans/form-options [get]
func (h *Handler) FormOptions(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.form_options"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	opts, err := h.service.FormOptions(r.Context(), sess)
	if err != nil {
		h.logger(r, op).Error("failed to load form options", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, opts)
}

// Create godoc
// @Summary Создать план
// @Description Нутрициолог создает план клиенту. Дата плана не раньше сегодняшней.
// @Tags Plans
// @Accept  json
// @Produce  json
// @Param request body models.PlanForm true "План"
// @Success 201 {object} response.Response{data=models.PlanCreated}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /plans [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.create"
	log := h.logger(r, op)

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	var form models.PlanForm
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	created, err := h.service.Create(r.Context(), sess, form)
	if err != nil {
		log.Info("plan was not created", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, created)
}

// Week godoc
// @Summary Недельный обзор
// @Tags Plans
// @Produce  json
// @Param week_offset query int false "0 текущая неделя, -1 прошлая"
// @Success 200 {object} response.Response{data=models.WeekOverview}
// @Router /plans/week [get]
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.week"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	offset, err := request.IntQuery(r, planfilter.ParamWeek, 0)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	week, err := h.service.Week(r.Context(), sess, offset)
	if err != nil {
		h.logger(r, op).Error("failed to load week overview", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, week)
}

// ByDate godoc
// @Summary План на дату
// @Tags Plans
// @Produce  json
// @Param date path string true "Дата YYYY-MM-DD"
// @Success 200 {object} response.Response{data=models.NutritionPlan}
// @Failure 404 {object} response.ErrorResponse "Плана нет"
// @Router /plans/by-date/{date} [get]
func (h *Handler) ByDate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.by_date"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	plan, err := h.service.ByDate(r.Context(), sess, chi.URLParam(r, "date"))
	if err != nil {
		h.logger(r, op).Info("plan by date failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, plan)
}

// StatusByDate godoc
// @Summary Статус плана на дату
// @Tags Plans
// @Produce  json
// @Param date path string true "Дата YYYY-MM-DD"
// @Success 200 {object} response.Response{data=models.PlanStatus}
// @Router /plans/status/{date} [get]
func (h *Handler) StatusByDate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.status_by_date"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	status, err := h.service.StatusByDate(r.Context(), sess, chi.URLParam(r, "date"))
	if err != nil {
		h.logger(r, op).Info("plan status failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, status)
}

// CheckDate godoc
// @Summary Проверить дату для нового плана
// @Tags Plans
// @Produce  json
// @Param date path string true "Дата YYYY-MM-DD"
// @Param user_id query int true "ID клиента"
// @Success 200 {object} response.Response{data=models.DateAvailability}
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /plans/check-date/{date} [get]
func (h *Handler) CheckDate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.check_date"

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

	avail, err := h.service.CheckDate(r.Context(), sess, chi.URLParam(r, "date"), userID)
	if err != nil {
		h.logger(r, op).Info("check date failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, avail)
}

// Delete godoc
// @Summary Удалить план
// @Description С force=true сервер удаляет и записи дневника за дату плана.
// @Tags Plans
// @Produce  json
// @Param id path int true "ID плана"
// @Param force query bool false "Принудительное удаление"
// @Success 200 {object} response.Response{data=models.PlanDeleted}
// @Failure 409 {object} response.ErrorResponse "У плана есть записи дневника"
// @Router /plans/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.delete"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	id, err := request.IntParam(r, "id")
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		force, err = strconv.ParseBool(raw)
		if err != nil {
			response.RenderError(w, r, validation.FieldErrors{"force": "must be true or false"})
			return
		}
	}

	res, err := h.service.Delete(r.Context(), sess, id, force)
	if err != nil {
		h.logger(r, op).Error("failed to delete plan", slog.Int("plan_id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, res)
}
