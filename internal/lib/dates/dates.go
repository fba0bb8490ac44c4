// Package dates содержит арифметику календарных дат для представлений:
// недели с понедельника, границы месяца и разбор дат в формате API.
package dates

import (
	"fmt"
	"time"
)

// Layout формат дат REST API FitFlow.
const Layout = "2006-01-02"

// MonthLayout формат фильтра по месяцу.
const MonthLayout = "2006-01"

// Parse разбирает дату в формате YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	const op = "dates.Parse"
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Format форматирует дату в формат API.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day отбрасывает время суток, сохраняя локацию.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekBounds возвращает понедельник и воскресенье недели, сдвинутой на offset недель
// относительно недели, содержащей today.
func WeekBounds(today time.Time, offset int) (time.Time, time.Time) {
	day := Day(today)
	// time.Weekday считает с воскресенья
	sinceMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -sinceMonday+7*offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds возвращает первый и последний день месяца в формате YYYY-MM.
func MonthBounds(month string) (time.Time, time.Time, error) {
	const op = "dates.MonthBounds"
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return start, start.AddDate(0, 1, -1), nil
}

// NotBefore сообщает, что дата s не раньше дня today.
func NotBefore(s string, today time.Time) bool {
	t, err := Parse(s)
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	return !t.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
