// Package planfilter фильтры списка планов клиента по дате.
// Одновременно действует только один фильтр: установка нового сбрасывает предыдущий.
package planfilter

import (
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Kind вид активного фильтра.
type Kind int

const (
	KindNone Kind = iota
	KindDate
	KindRange
	KindWeek
	KindMonth
)

// Параметры запроса /nutrition-plans/my-plans.
const (
	ParamDate  = "specific_date"
	ParamStart = "start_date"
	ParamEnd   = "end_date"
	ParamWeek  = "week_offset"
	ParamMonth = "month_year"
)

// Filter фильтр списка планов. Нулевое значение означает «без фильтра».
type Filter struct {
	kind  Kind
	date  string
	start string
	end   string
	week  int
	month string
}

// Kind возвращает активный фильтр.
func (f Filter) Kind() Kind {
	return f.kind
}

// Clear сбрасывает все фильтры.
func (f *Filter) Clear() {
	*f = Filter{}
}

// SetDate фильтр по конкретной дате.
func (f *Filter) SetDate(date string) {
	*f = Filter{kind: KindDate, date: date}
}

// SetRange фильтр по диапазону дат включительно.
func (f *Filter) SetRange(start, end string) {
	*f = Filter{kind: KindRange, start: start, end: end}
}

// SetWeek фильтр по неделе относительно текущей: 0 эта, -1 прошлая.
func (f *Filter) SetWeek(offset int) {
	*f = Filter{kind: KindWeek, week: offset}
}

// SetMonth фильтр по месяцу в формате YYYY-MM.
func (f *Filter) SetMonth(month string) {
	*f = Filter{kind: KindMonth, month: month}
}

// Date значение фильтра по дате.
func (f Filter) Date() string { return f.date }

// Range границы диапазона.
func (f Filter) Range() (string, string) { return f.start, f.end }

// Week смещение недели.
func (f Filter) Week() int { return f.week }

// Month месяц YYYY-MM.
func (f Filter) Month() string { return f.month }

// Validate проверяет значения активного фильтра.
func (f Filter) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}

	switch f.kind {
	case KindDate:
		if _, err := dates.Parse(f.date); err != nil {
			errs.Add(ParamDate, "must be a date in format YYYY-MM-DD")
		}
	case KindRange:
		start, errStart := dates.Parse(f.start)
		if errStart != nil {
			errs.Add(ParamStart, "must be a date in format YYYY-MM-DD")
		}
		end, errEnd := dates.Parse(f.end)
		if errEnd != nil {
			errs.Add(ParamEnd, "must be a date in format YYYY-MM-DD")
		}
		if errStart == nil && errEnd == nil && end.Before(start) {
			errs.Add(ParamEnd, "must not be earlier than start_date")
		}
	case KindMonth:
		if _, _, err := dates.MonthBounds(f.month); err != nil {
			errs.Add(ParamMonth, "must be a month in format YYYY-MM")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Query параметры запроса для активного фильтра.
func (f Filter) Query() url.Values {
	q := url.Values{}
	switch f.kind {
	case KindDate:
		q.Set(ParamDate, f.date)
	case KindRange:
		q.Set(ParamStart, f.start)
		q.Set(ParamEnd, f.end)
	case KindWeek:
		q.Set(ParamWeek, strconv.Itoa(f.week))
	case KindMonth:
		q.Set(ParamMonth, f.month)
	}
	return q
}

// FromQuery разбирает фильтр из параметров запроса. Несколько фильтров
// одновременно считаются ошибкой.
func FromQuery(q url.Values) (Filter, validation.FieldErrors) {
	var (
		f     Filter
		found []string
	)

	if d := q.Get(ParamDate); d != "" {
		f.SetDate(d)
		found = append(found, ParamDate)
	}
	start, end := q.Get(ParamStart), q.Get(ParamEnd)
	if start != "" || end != "" {
		f.SetRange(start, end)
		found = append(found, ParamStart)
	}
	if w := q.Get(ParamWeek); w != "" {
		offset, err := strconv.Atoi(w)
		if err != nil {
			return Filter{}, validation.FieldErrors{ParamWeek: "must be an integer"}
		}
		f.SetWeek(offset)
		found = append(found, ParamWeek)
	}
	if m := q.Get(ParamMonth); m != "" {
		f.SetMonth(m)
		found = append(found, ParamMonth)
	}

	if len(found) > 1 {
		errs := validation.FieldErrors{}
		for _, name := range found {
			errs.Add(name, "date filters are mutually exclusive")
		}
		return Filter{}, errs
	}
	if errs := f.Validate(); errs != nil {
		return Filter{}, errs
	}
	return f, nil
}
