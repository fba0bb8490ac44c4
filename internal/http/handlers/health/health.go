// Package health HTTP-проверка готовности веб-слоя.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
)

// Состояния зависимостей.
const (
	StatusUp   = "up"
	StatusDown = "down"
)

// CheckFunc проверяет одну зависимость.
type CheckFunc func(ctx context.Context) error

// Report результат проверки.
type Report struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Handler проверяет зависимости параллельно. Любая недоступная зависимость дает 503.
type Handler struct {
	log     *slog.Logger
	checks  map[string]CheckFunc
	timeout time.Duration
}

// New создает новый Handler.
func New(log *slog.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Handler{
		log:     log,
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// Register добавляет проверку зависимости name.
func (h *Handler) Register(name string, check CheckFunc) *Handler {
	h.checks[name] = check
	return h
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response{data=Report}
// @Failure 503 {object} response.Response{data=Report}
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if err := h.checks[name](ctx); err != nil {
				h.log.Warn("dependency is down", sl.Op(op), slog.String("component", name), sl.Err(err))
				results[i] = StatusDown
				return
			}
			results[i] = StatusUp
		}(i, name)
	}
	wg.Wait()

	report := Report{Status: StatusUp, Components: make(map[string]string, len(names))}
	for i, name := range names {
		report.Components[name] = results[i]
		if results[i] == StatusDown {
			report.Status = StatusDown
		}
	}

	resp := response.OKWithData(report)
	if report.Status == StatusDown {
		render.Status(r, http.StatusServiceUnavailable)
		resp.Status = response.StatusError
	}
	render.JSON(w, r, resp)
}
