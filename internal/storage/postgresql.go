// Package storage журнал отправок дневника питания в PostgreSQL.
// Журнал только фиксирует отправки и расхождения при повторном чтении
// статуса, представления данные из него не берут.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotReady в базе нет таблицы журнала.
var ErrNotReady = errors.New("food_log_submissions table is missing")

// Storage соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает соединение и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// CheckReady проверяет, что миграции применены.
func (s *Storage) CheckReady(ctx context.Context) error {
	const op = "storage.CheckReady"

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'food_log_submissions'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrNotReady)
	}
	return nil
}

// Close закрывает соединение.
func (s *Storage) Close() error {
	return s.DB.Close()
}
