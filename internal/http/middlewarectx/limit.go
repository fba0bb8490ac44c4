package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
)

const limiterIdleTTL = 3 * time.Minute

// Limiter token bucket на каждого клиента. Клиент определяется сессией,
// которую уже проверил SessionMiddleware, а без нее адресом. Непроверенный
// идентификатор из заголовка или cookie ключом не служит.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter создает ограничитель rps запросов в секунду с запасом burst.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		clients:   make(map[string]*client),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow расходует один токен клиента key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

func (l *Limiter) key(r *http.Request) string {
	if sess, ok := SessionFrom(r.Context()); ok {
		return "session:" + sess.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "addr:" + r.RemoteAddr
	}
	return "addr:" + host
}

// RateLimitMiddleware отвечает 429, когда клиент исчерпал лимит.
// До SessionMiddleware лимит считается по адресу, после него по сессии.
func RateLimitMiddleware(l *Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(l.key(r)) {
				log.Warn("too many requests", slog.String("path", r.URL.Path))
				response.RenderStatus(w, r, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
