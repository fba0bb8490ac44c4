package planner

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

	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PlanTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error) {
	args := m.Called(ctx, sess)
	if res := args.Get(0); res != nil {
		return res.([]models.PlannerOption), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) CalculatorTypes(ctx context.Context, sess session.Session) ([]models.PlannerOption, error) {
	args := m.Called(ctx, sess)
	if res := args.Get(0); res != nil {
		return res.([]models.PlannerOption), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Generate(ctx context.Context, sess session.Session, req models.PlanGenerationRequest) (*models.GeneratedPlan, error) {
	args := m.Called(ctx, sess, req)
	if res := args.Get(0); res != nil {
		return res.(*models.GeneratedPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Analysis(ctx context.Context, sess session.Session, userID int, calculatorType string) (*models.ClientAnalysis, error) {
	args := m.Called(ctx, sess, userID, calculatorType)
	if res := args.Get(0); res != nil {
		return res.(*models.ClientAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Compare(ctx context.Context, sess session.Session, userID int) (*models.CalculatorComparison, error) {
	args := m.Called(ctx, sess, userID)
	if res := args.Get(0); res != nil {
		return res.(*models.CalculatorComparison), args.Error(1)
	}
	return nil, args.Error(1)
}

var sess = session.Session{Token: "tok", User: models.User{UserID: 4}}

func newHandler(svc Service) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithSession(req.Context(), sess))
}

func TestPlanTypes(t *testing.T) {
	svc := new(MockService)
	svc.On("PlanTypes", mock.Anything, sess).
		Return([]models.PlannerOption{{Type: "sport", Name: "Plan deportivo"}}, nil).Once()
	svc.On("CalculatorTypes", mock.Anything, sess).Return([]models.PlannerOption{}, nil).Once()
	h := newHandler(svc)

	w := httptest.NewRecorder()
	h.PlanTypes(w, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/planner/plan-types", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"sport"`)

	w = httptest.NewRecorder()
	h.CalculatorTypes(w, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/planner/calculator-types", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	svc.AssertExpectations(t)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "план сгенерирован",
			body: `{"plan_date":"2026-10-20","plan_type":"sport","calculator_type":"sport"}`,
			setupMock: func(m *MockService) {
				req := models.PlanGenerationRequest{PlanDate: "2026-10-20", PlanType: "sport", CalculatorType: "sport"}
				m.On("Generate", mock.Anything, sess, req).
					Return(&models.GeneratedPlan{Success: true, Message: "Plan generado"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"Plan generado"`,
		},
		{
			name: "неизвестная стратегия",
			body: `{"plan_date":"2026-10-20","plan_type":"keto","calculator_type":"sport"}`,
			setupMock: func(m *MockService) {
				m.On("Generate", mock.Anything, sess, mock.Anything).
					Return(nil, fmt.Errorf("planner.Generate: %w", validation.FieldErrors{"plan_type": "must be one of: simple sport"})).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"plan_type":"must be one of: simple sport"`,
		},
		{
			name:           "пустое тело",
			body:           ``,
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
			h.Generate(w, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/planner/generate", strings.NewReader(tt.body))))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisAndCompare(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		compare        bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "анализ спортивным калькулятором",
			url:  "/api/v1/planner/analysis?user_id=7&calculator_type=sport",
			setupMock: func(m *MockService) {
				m.On("Analysis", mock.Anything, sess, 7, "sport").
					Return(&models.ClientAnalysis{UserID: 7, CalculatorType: "sport"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"calculator_type":"sport"`,
		},
		{
			name:           "user_id не число",
			url:            "/api/v1/planner/analysis?user_id=abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"user_id":"must be an integer"`,
		},
		{
			name:    "сравнение калькуляторов",
			url:     "/api/v1/planner/compare?user_id=7",
			compare: true,
			setupMock: func(m *MockService) {
				m.On("Compare", mock.Anything, sess, 7).
					Return(&models.CalculatorComparison{UserID: 7, Recommendation: "sport"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"recommendation":"sport"`,
		},
		{
			name:    "сравнение без user_id",
			url:     "/api/v1/planner/compare",
			compare: true,
			setupMock: func(m *MockService) {
				m.On("Compare", mock.Anything, sess, 0).
					Return(nil, validation.FieldErrors{"user_id": "must be greater than 0"}).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"user_id":"must be greater than 0"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := newHandler(svc)

			w := httptest.NewRecorder()
			req := withSession(httptest.NewRequest(http.MethodGet, tt.url, nil))
			if tt.compare {
				h.Compare(w, req)
			} else {
				h.Analysis(w, req)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
