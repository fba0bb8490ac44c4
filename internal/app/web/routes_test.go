package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/accounts"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/auth"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foodlog"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foods"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/health"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/planner"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/metrics"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	accountservice "github.com/magabrotheeeer/fitflow-web/internal/services/accounts"
	dashboardservice "github.com/magabrotheeeer/fitflow-web/internal/services/dashboard"
	foodlogservice "github.com/magabrotheeeer/fitflow-web/internal/services/foodlog"
	foodservice "github.com/magabrotheeeer/fitflow-web/internal/services/foods"
	plannerservice "github.com/magabrotheeeer/fitflow-web/internal/services/planner"
	planservice "github.com/magabrotheeeer/fitflow-web/internal/services/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

const cookieName = "fitflow_session"

type fakeSessions map[string]session.Session

func (f fakeSessions) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := f[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

func (f fakeSessions) Login(context.Context, string, string) (*session.Session, error) {
	return nil, errors.New("not used")
}

func (f fakeSessions) Logout(_ context.Context, id string) error {
	delete(f, id)
	return nil
}

func role(r models.Role) *models.Role {
	return &r
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/foods":
			_, _ = w.Write([]byte(`[{"food_id":1,"name":"Avena"}]`))
		case "/dashboard/nutrition-metrics":
			_, _ = w.Write([]byte(`{}`))
		case "/nutrition-plans/5":
			_, _ = w.Write([]byte(`{"message":"Plan deleted"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
		}
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	m := metrics.New()
	api := fitflowapi.New(upstream.URL, time.Second, m)
	validate := validation.New(nil)
	sessions := fakeSessions{
		"client":       {ID: "client", Token: "t1", User: models.User{UserID: 1, Role: role(models.RoleClient)}},
		"nutritionist": {ID: "nutritionist", Token: "t2", User: models.User{UserID: 2, Role: role(models.RoleNutritionist)}},
		"admin":        {ID: "admin", Token: "t3", User: models.User{UserID: 3, Role: role(models.RoleAdmin)}},
	}
	accountService := accountservice.New(api, validate, logger)

	h := Handlers{
		Auth:      auth.New(logger, sessions, accountService, validate, cookieName),
		Accounts:  accounts.New(logger, accountService),
		Foods:     foods.New(logger, foodservice.New(api, validate, logger)),
		Plans:     plans.New(logger, planservice.New(api, validate, logger)),
		FoodLog:   foodlog.New(logger, foodlogservice.New(api, validate, logger, nil, nil, nil, m)),
		Dashboard: dashboard.New(logger, dashboardservice.New(api)),
		Planner:   planner.New(logger, plannerservice.New(api, validate, logger)),
		Health:    health.New(logger, time.Second).Register("fitflow_api", api.Ping),
	}

	r := chi.NewRouter()
	RegisterRoutes(r, logger, sessions, cookieName, middlewarectx.NewLimiter(1000, 1000), m, h)
	return r
}

func TestRegisterRoutes_Access(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		sessionID      string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "продукты без сессии",
			method:         http.MethodGet,
			path:           "/api/v1/foods",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неизвестная сессия",
			method:         http.MethodGet,
			path:           "/api/v1/foods",
			sessionID:      "stale",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "клиент видит продукты",
			method:         http.MethodGet,
			path:           "/api/v1/foods",
			sessionID:      "client",
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Avena"`,
		},
		{
			name:           "клиент не создает продукты",
			method:         http.MethodPost,
			path:           "/api/v1/foods",
			sessionID:      "client",
			body:           `{}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "нутрициолог не видит панель клиента",
			method:         http.MethodGet,
			path:           "/api/v1/dashboard",
			sessionID:      "nutritionist",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "клиент видит панель",
			method:         http.MethodGet,
			path:           "/api/v1/dashboard",
			sessionID:      "client",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "нутрициолог не регистрирует администраторов",
			method:         http.MethodPost,
			path:           "/api/v1/register/admin",
			sessionID:      "nutritionist",
			body:           `{}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "регистрация клиента открыта",
			method:         http.MethodPost,
			path:           "/api/v1/register/client",
			body:           `{}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"fields"`,
		},
		{
			name:           "клиент удаляет свой план",
			method:         http.MethodDelete,
			path:           "/api/v1/plans/5",
			sessionID:      "client",
			expectedStatus: http.StatusOK,
			expectedBody:   `"Plan deleted"`,
		},
		{
			name:           "нутрициолог удаляет план",
			method:         http.MethodDelete,
			path:           "/api/v1/plans/5",
			sessionID:      "nutritionist",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "удаление плана без сессии",
			method:         http.MethodDelete,
			path:           "/api/v1/plans/5",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "выход удаляет cookie",
			method:         http.MethodPost,
			path:           "/api/v1/logout",
			sessionID:      "admin",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.sessionID != "" {
				req.Header.Set(middlewarectx.HeaderSessionID, tt.sessionID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestRegisterRoutes_Service(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fitflow_api":"up"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitflow_web_http_requests_total")
}
