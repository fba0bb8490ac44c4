// Package request разбор входных данных HTTP-обработчиков.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// ErrEmptyBody тело запроса пустое.
var ErrEmptyBody = errors.New("request body is empty")

const maxBodySize = 1 << 20

// Decode читает JSON-тело запроса в v.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// IntParam положительный целый параметр пути chi.
func IntParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, validation.FieldErrors{name: "must be a positive integer"}
	}
	return v, nil
}

// IntQuery целый параметр строки запроса или def, если его нет.
func IntQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.FieldErrors{name: "must be an integer"}
	}
	return v, nil
}

// Session сессия запроса. Ошибка session.ErrNotFound, если middleware ее не положило.
func Session(r *http.Request) (session.Session, error) {
	sess, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}
