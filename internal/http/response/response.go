// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и сопоставления ошибок
// сервисов со статусами HTTP.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (при неуспехе).
// Поле Fields: ошибки валидации по полям формы.
// Поле Data: данные ответа (при успехе).
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string            `json:"status" example:"Error"`
	Error  string            `json:"error" example:"validation failed"`
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Сообщения, которые видит пользователь.
const (
	MsgInvalidBody    = "invalid request body"
	MsgValidation     = "validation failed"
	MsgUnauthorized   = "session expired, please log in again"
	MsgForbidden      = "access denied for your role"
	MsgUnavailable    = "could not connect to FitFlow, check your connection and try again"
	MsgTimeout        = "FitFlow did not respond in time"
	MsgInternal       = "internal server error"
	MsgUpstreamFailed = "FitFlow could not process the request"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response с ошибками по полям.
func ValidationError(fields validation.FieldErrors) Response {
	return Response{
		Status: StatusError,
		Error:  MsgValidation,
		Fields: fields,
	}
}

// FromError сопоставляет ошибку сервиса со статусом HTTP и телом ответа:
// ошибки валидации дают 422, ошибки FitFlow API сохраняют статус сервера
// (5xx превращается в 502), недоступность сервера дает 503.
func FromError(err error) (int, Response) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return http.StatusUnprocessableEntity, ValidationError(fields)
	}

	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrTokenExpired) {
		return http.StatusUnauthorized, Error(MsgUnauthorized)
	}

	var apiErr *fitflowapi.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Detail
		if msg == "" {
			msg = MsgUpstreamFailed
		}
		if apiErr.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway, Error(msg)
		}
		return apiErr.StatusCode, Error(msg)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, Error(MsgTimeout)
	case errors.Is(err, fitflowapi.ErrUnavailable):
		return http.StatusServiceUnavailable, Error(MsgUnavailable)
	}
	return http.StatusInternalServerError, Error(MsgInternal)
}

// RenderError пишет ответ для ошибки err.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// RenderStatus пишет ответ с ошибкой msg и статусом status.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// RenderOK пишет успешный ответ с данными.
func RenderOK(w http.ResponseWriter, r *http.Request, data any) {
	render.JSON(w, r, OKWithData(data))
}
