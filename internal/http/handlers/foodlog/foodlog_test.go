package foodlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/reconcile"
	foodlogservice "github.com/magabrotheeeer/fitflow-web/internal/services/foodlog"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/storage"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ViewByPlan(ctx context.Context, sess session.Session, planID int) (*foodlogservice.View, error) {
	args := m.Called(ctx, sess, planID)
	if res := args.Get(0); res != nil {
		return res.(*foodlogservice.View), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) ViewByDate(ctx context.Context, sess session.Session, date string) (*foodlogservice.View, error) {
	args := m.Called(ctx, sess, date)
	if res := args.Get(0); res != nil {
		return res.(*foodlogservice.View), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Submit(ctx context.Context, sess session.Session, form models.FoodLogForm) (*foodlogservice.Result, error) {
	args := m.Called(ctx, sess, form)
	if res := args.Get(0); res != nil {
		return res.(*foodlogservice.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) History(ctx context.Context, sess session.Session, limit, offset int) ([]storage.Submission, error) {
	args := m.Called(ctx, sess, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]storage.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var sess = session.Session{Token: "tok", User: models.User{UserID: 12}}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithSession(req.Context(), sess))
}

func newHandler(svc Service) *Handler {
	h := New(newNoopLogger(), svc)
	h.now = func() string { return "2026-10-19" }
	return h
}

func TestView(t *testing.T) {
	view := &foodlogservice.View{
		Plan: models.NutritionPlan{PlanID: 9, PlanDate: "2026-10-19"},
		Rows: []reconcile.Row{{Index: 0, FoodName: "Avena", Planned: 3, Consumed: 1.999, Remaining: 1.001, Strategy: reconcile.Exact}},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "план на сегодня по умолчанию",
			url:  "/api/v1/food-log",
			setupMock: func(m *MockService) {
				m.On("ViewByDate", mock.Anything, sess, "2026-10-19").Return(view, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"remaining_portion":1.001`,
		},
		{
			name: "по плану",
			url:  "/api/v1/food-log?plan_id=9",
			setupMock: func(m *MockService) {
				m.On("ViewByPlan", mock.Anything, sess, 9).Return(view, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"match":"exact"`,
		},
		{
			name: "план не найден",
			url:  "/api/v1/food-log?plan_id=99",
			setupMock: func(m *MockService) {
				m.On("ViewByPlan", mock.Anything, sess, 99).
					Return(nil, fmt.Errorf("foodlog.ViewByPlan: %w", foodlogservice.ErrPlanNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"plan not found"`,
		},
		{
			name:           "plan_id и date вместе",
			url:            "/api/v1/food-log?plan_id=9&date=2026-10-19",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `use either plan_id or date`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := newHandler(svc)

			w := httptest.NewRecorder()
			h.View(w, withSession(httptest.NewRequest(http.MethodGet, tt.url, nil)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "порции приняты",
			body: `{"portions":{"1":2}}`,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, sess, mock.MatchedBy(func(f models.FoodLogForm) bool {
					return f.Portions[1] == "2"
				})).Return(&foodlogservice.Result{Consistent: true, Attempts: 1, Message: "Registros guardados"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"consistent":true`,
		},
		{
			name: "порция строкой из поля ввода",
			body: `{"portions":{"0":"1.002"}}`,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, sess, mock.MatchedBy(func(f models.FoodLogForm) bool {
					return f.Portions[0] == "1.002"
				})).Return(nil, validation.FieldErrors{
					"portion_size_0": "portion 1.002 exceeds the plan, at most 1.001 remaining",
				}).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"portion_size_0":"portion 1.002 exceeds the plan, at most 1.001 remaining"`,
		},
		{
			name: "сервер недоступен",
			body: `{"portions":{"1":2}}`,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, sess, mock.Anything).Return(nil, fitflowapi.ErrUnavailable).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"portions":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := newHandler(svc)

			w := httptest.NewRecorder()
			h.Submit(w, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/food-log", strings.NewReader(tt.body))))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestHistory(t *testing.T) {
	svc := new(MockService)
	svc.On("History", mock.Anything, sess, 5, 10).Return([]storage.Submission{{UserID: 12, LogDate: "2026-10-19"}}, nil).Once()
	svc.On("History", mock.Anything, sess, 0, 0).
		Return(nil, fmt.Errorf("foodlog.History: %w", foodlogservice.ErrJournalDisabled)).Once()
	h := newHandler(svc)

	w := httptest.NewRecorder()
	h.History(w, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/food-log/history?limit=5&offset=10", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"log_date":"2026-10-19"`)

	w = httptest.NewRecorder()
	h.History(w, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/food-log/history", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	svc.AssertExpectations(t)
}
