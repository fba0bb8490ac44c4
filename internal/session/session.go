// Package session пользовательские сессии веб-слоя. Сессия хранит токен FitFlow API
// и текущего пользователя, лежит в Redis и явно передается в сервисы представлений.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

var (
	// ErrNotFound сессии нет или она истекла.
	ErrNotFound = errors.New("session not found")
	// ErrTokenExpired сервер выдал уже истекший токен.
	ErrTokenExpired = errors.New("access token is expired")
)

const keyPrefix = "session:"

// Session состояние входа одного пользователя.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Role роль пользователя сессии или «Sin rol», если сервер ее не вернул.
func (s Session) Role() models.Role {
	if s.User.Role == nil {
		return models.RoleNone
	}
	return *s.User.Role
}

// Store хранилище JSON-значений с временем жизни.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Authenticator операции FitFlow API, нужные для входа.
type Authenticator interface {
	Login(ctx context.Context, cedula, password string) (*models.Token, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// Manager создает, читает и удаляет сессии.
type Manager struct {
	store Store
	auth  Authenticator
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

// NewManager создает менеджер сессий с максимальным временем жизни ttl.
func NewManager(store Store, auth Authenticator, ttl time.Duration, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Login получает токен, загружает профиль и сохраняет новую сессию.
// Время жизни сессии не превышает срок действия токена.
func (m *Manager) Login(ctx context.Context, cedula, password string) (*Session, error) {
	const op = "session.Login"
	log := m.log.With(sl.Op(op))

	token, err := m.auth.Login(ctx, cedula, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := m.auth.Me(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	if exp, ok := TokenExpiry(token.AccessToken); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Token:     token.AccessToken,
		User:      *user,
		ExpiresAt: expiresAt,
	}
	if err := m.store.Set(ctx, keyPrefix+s.ID, s, ttl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("session created", slog.Int("user_id", user.UserID), slog.String("role", string(s.Role())), slog.Duration("ttl", ttl))
	return s, nil
}

// Get возвращает сессию по идентификатору.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	const op = "session.Get"

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var s Session
	found, err := m.store.Get(ctx, keyPrefix+id, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &s, nil
}

// Logout удаляет сессию.
func (m *Manager) Logout(ctx context.Context, id string) error {
	const op = "session.Logout"
	if err := m.store.Invalidate(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TokenExpiry читает claim exp токена без проверки подписи: ключ подписи
// есть только у FitFlow API.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
