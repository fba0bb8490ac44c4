package middlewarectx_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

type SessionsMock struct {
	mock.Mock
}

func (m *SessionsMock) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func role(r models.Role) *models.Role { return &r }

func TestSessionMiddleware(t *testing.T) {
	const sid = "0b8f4a8e-6a52-4d3c-9b3c-3a9e2a1b7c10"
	clientSess := &session.Session{ID: sid, Token: "tok", User: models.User{UserID: 12, Role: role(models.RoleClient)}}

	tests := []struct {
		name           string
		header         string
		cookie         string
		mockResp       *session.Session
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "нет идентификатора сессии",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "сессия истекла",
			header:         sid,
			mockErr:        session.ErrNotFound,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "redis недоступен",
			header:         sid,
			mockErr:        errors.New("dial tcp: connection refused"),
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:           "сессия из заголовка",
			header:         sid,
			mockResp:       clientSess,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "сессия из cookie",
			cookie:         sid,
			mockResp:       clientSess,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(SessionsMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				sessions.On("Get", mock.Anything, sid).Return(tt.mockResp, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				sess, ok := middlewarectx.SessionFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, 12, sess.User.UserID)
				w.WriteHeader(http.StatusOK)
			})
			h := middlewarectx.SessionMiddleware(sessions, "fitflow_session", newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set(middlewarectx.HeaderSessionID, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "fitflow_session", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			sessions.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		sess       *session.Session
		wantStatus int
	}{
		{name: "без сессии", wantStatus: http.StatusUnauthorized},
		{name: "клиент", sess: &session.Session{User: models.User{Role: role(models.RoleClient)}}, wantStatus: http.StatusForbidden},
		{name: "без роли", sess: &session.Session{}, wantStatus: http.StatusForbidden},
		{name: "нутрициолог", sess: &session.Session{User: models.User{Role: role(models.RoleNutritionist)}}, wantStatus: http.StatusOK},
		{name: "администратор", sess: &session.Session{User: models.User{Role: role(models.RoleAdmin)}}, wantStatus: http.StatusOK},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RequireRole(newNoopLogger(), models.RoleNutritionist, models.RoleAdmin)(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)
			if tt.sess != nil {
				req = req.WithContext(middlewarectx.WithSession(req.Context(), *tt.sess))
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l := middlewarectx.NewLimiter(1, 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(l, newNoopLogger())(next)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5002"), "тот же адрес исчерпал запас")
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"), "у другого адреса свой лимит")
}

func TestRateLimitMiddleware_ForgedSessionIDs(t *testing.T) {
	l := middlewarectx.NewLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(l, newNoopLogger())(next)

	passed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set(middlewarectx.HeaderSessionID, fmt.Sprintf("forged-%d", i))
		req.AddCookie(&http.Cookie{Name: "fitflow_session", Value: fmt.Sprintf("cookie-%d", i)})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			passed++
		}
	}
	assert.Equal(t, 1, passed, "непроверенные идентификаторы сессии не дают новых лимитов")
}

func TestRateLimitMiddleware_ValidatedSession(t *testing.T) {
	l := middlewarectx.NewLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(l, newNoopLogger())(next)

	do := func(id string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req = req.WithContext(middlewarectx.WithSession(req.Context(), session.Session{ID: id}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"), "у другой проверенной сессии свой лимит")
}
