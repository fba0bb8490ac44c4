// Package dashboard HTTP-обработчик панели показателей клиента.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// Service источник показателей.
type Service interface {
	Metrics(ctx context.Context, sess session.Session) (*models.NutritionMetrics, error)
}

// Handler обработчик панели.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Get godoc
// @Summary Показатели питания
// @Description ИМТ, калории и макронутриенты клиента, рассчитанные FitFlow.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response{data=models.NutritionMetrics}
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 503 {object} response.ErrorResponse "FitFlow API недоступен"
// @Router /dashboard [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.get"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	m, err := h.service.Metrics(r.Context(), sess)
	if err != nil {
		h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		).Error("failed to load metrics", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, m)
}
