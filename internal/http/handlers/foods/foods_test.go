package foods

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, sess session.Session) ([]models.Food, error) {
	args := m.Called(ctx, sess)
	if res := args.Get(0); res != nil {
		return res.([]models.Food), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, sess session.Session, form models.FoodForm) (*models.Food, error) {
	args := m.Called(ctx, sess, form)
	if res := args.Get(0); res != nil {
		return res.(*models.Food), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, sess session.Session, id int, form models.FoodForm) (*models.Food, error) {
	args := m.Called(ctx, sess, id, form)
	if res := args.Get(0); res != nil {
		return res.(*models.Food), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, sess session.Session, id int) (*models.Message, error) {
	args := m.Called(ctx, sess, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var sess = session.Session{Token: "tok"}

// withRoute кладет сессию и параметр id в контекст запроса, как это делает роутер
func withRoute(req *http.Request, id string) *http.Request {
	ctx := middlewarectx.WithSession(req.Context(), sess)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: `{"name":"Avena","calories_per_portion":150,"portion_unit":"taza"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, sess, mock.MatchedBy(func(f models.FoodForm) bool {
					return f.Name == "Avena" && f.CaloriesPerPortion == 150
				})).Return(&models.Food{FoodID: 3, Name: "Avena"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"food_id":3`,
		},
		{
			name: "ошибка валидации",
			body: `{"name":"A"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, sess, mock.Anything).
					Return(nil, validation.FieldErrors{"name": "must be at least 2 characters long"}).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"name":"must be at least 2 characters long"`,
		},
		{
			name:           "некорректный JSON",
			body:           `[`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			req := withRoute(httptest.NewRequest(http.MethodPost, "/api/v1/foods", strings.NewReader(tt.body)), "")
			w := httptest.NewRecorder()

			h.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name: "успешное изменение",
			id:   "3",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, sess, 3, mock.Anything).Return(&models.Food{FoodID: 3}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "продукт не найден",
			id:   "99",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, sess, 99, mock.Anything).
					Return(nil, &fitflowapi.APIError{StatusCode: 404, Detail: "Alimento no encontrado"}).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			body := `{"name":"Avena","calories_per_portion":150,"portion_unit":"taza"}`
			req := withRoute(httptest.NewRequest(http.MethodPut, "/api/v1/foods/"+tt.id, strings.NewReader(body)), tt.id)
			w := httptest.NewRecorder()

			h.Update(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, sess).Return([]models.Food{{FoodID: 1, Name: "Avena"}}, nil).Once()
	svc.On("Delete", mock.Anything, sess, 1).Return(&models.Message{Message: "Alimento eliminado"}, nil).Once()
	h := New(newNoopLogger(), svc)

	w := httptest.NewRecorder()
	h.List(w, withRoute(httptest.NewRequest(http.MethodGet, "/api/v1/foods", nil), ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Avena"`)

	w = httptest.NewRecorder()
	h.Delete(w, withRoute(httptest.NewRequest(http.MethodDelete, "/api/v1/foods/1", nil), "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alimento eliminado")

	svc.AssertExpectations(t)
}
