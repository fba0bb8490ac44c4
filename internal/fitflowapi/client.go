// Package fitflowapi клиент REST API FitFlow. Все бизнес-расчеты выполняет сервер,
// клиент только передает запросы с токеном пользователя и разбирает ответы.
package fitflowapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrUnavailable сервер FitFlow недоступен: сетевая ошибка или таймаут.
var ErrUnavailable = errors.New("fitflow api is unavailable")

// APIError ответ сервера со статусом не 2xx.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fitflow api: status %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound true для ответа 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Observer принимает длительность и статус каждого вызова API.
type Observer interface {
	ObserveUpstream(endpoint string, status int, d time.Duration)
}

// Client клиент FitFlow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// New создает клиент. observer может быть nil.
func New(baseURL string, timeout time.Duration, observer Observer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

// call описание одного запроса к API.
type call struct {
	method string
	path   string
	// endpoint шаблон пути для метрик, без идентификаторов
	endpoint string
	token    string
	query    url.Values
	body     any
	form     url.Values
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case cl.form != nil:
		body = strings.NewReader(cl.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case cl.body != nil:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(cl.body); err != nil {
			return nil, err
		}
		body = &buf
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	return req, nil
}

// do выполняет запрос и декодирует тело ответа в out, если out не nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	op := "fitflowapi." + cl.endpoint

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(cl.endpoint, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(cl.endpoint, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     Detail(raw, resp.StatusCode),
		})
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, status, time.Since(start))
	}
}

// Detail извлекает сообщение об ошибке из тела ответа. Сервер отдает detail
// строкой, объектом с error_message или списком ошибок валидации.
func Detail(body []byte, status int) string {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = "request failed"
	}
	if !gjson.ValidBytes(body) {
		return fallback
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists():
		if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.String() != "" {
			return msg.String()
		}
		return fallback
	case detail.Type == gjson.String:
		if detail.String() == "" {
			return fallback
		}
		return detail.String()
	case detail.IsObject():
		for _, key := range []string{"error_message", "message", "msg"} {
			if v := detail.Get(key); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
		return detail.Raw
	case detail.IsArray():
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			msg := item.Get("msg").String()
			if msg == "" {
				return true
			}
			if loc := item.Get("loc").Array(); len(loc) > 0 {
				msg = loc[len(loc)-1].String() + ": " + msg
			}
			msgs = append(msgs, msg)
			return true
		})
		if len(msgs) == 0 {
			return fallback
		}
		return strings.Join(msgs, "; ")
	default:
		return detail.String()
	}
}

// Ping проверяет доступность сервера. Ответ 4xx считается признаком живого
// сервера, недоступность и 5xx нет.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, call{method: http.MethodGet, path: "/openapi.json", endpoint: "Ping"}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}
