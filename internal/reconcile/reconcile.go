// Package reconcile сопоставляет запланированные приемы пищи со статусом
// выполнения плана и проверяет порции, которые клиент хочет добавить.
package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Tolerance допустимое превышение плана при добавлении порции.
const Tolerance = 0.001

// Strategy способ, которым прием пищи был найден в статусе плана.
type Strategy int

const (
	// None запись статуса не найдена, съеденная порция считается нулевой.
	None Strategy = iota
	// Exact совпали тип приема пищи и название продукта.
	Exact
	// Fold совпали тип приема пищи и название без учета регистра.
	Fold
	// FoodID совпали тип приема пищи и идентификатор продукта.
	FoodID
)

func (s Strategy) String() string {
	switch s {
	case Exact:
		return "exact"
	case Fold:
		return "case_insensitive"
	case FoodID:
		return "food_id"
	default:
		return "none"
	}
}

// MarshalText отдает стратегию в JSON строкой.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FindStatus ищет запись статуса для приема пищи. Стратегии пробуются по порядку:
// точное совпадение, совпадение без учета регистра, совпадение по food_id.
func FindStatus(meal models.PlanMeal, details []models.PlanStatusDetail) (*models.PlanStatusDetail, Strategy) {
	for i := range details {
		d := &details[i]
		if d.MealType == meal.MealType && d.FoodName == meal.FoodName {
			return d, Exact
		}
	}
	for i := range details {
		d := &details[i]
		if strings.EqualFold(string(d.MealType), string(meal.MealType)) &&
			strings.EqualFold(d.FoodName, meal.FoodName) {
			return d, Fold
		}
	}
	for i := range details {
		d := &details[i]
		if d.FoodID == meal.FoodID && d.MealType == meal.MealType {
			return d, FoodID
		}
	}
	return nil, None
}

// Remaining сколько порций еще можно съесть, с точностью до тысячных.
// Если съедено больше плана, возвращает 0.
func Remaining(planned, consumed float64) float64 {
	r := math.Round((planned-consumed)*1000) / 1000
	if r < 0 {
		return 0
	}
	return r
}

// ExceedsPlanError добавление порции выводит прием пищи за пределы плана.
type ExceedsPlanError struct {
	Planned   float64
	Consumed  float64
	Input     float64
	Remaining float64
}

func (e *ExceedsPlanError) Error() string {
	return fmt.Sprintf("portion %s exceeds the plan, at most %s remaining",
		FormatPortion(e.Input), FormatPortion(e.Remaining))
}

// CheckAddition проверяет, что consumed + input не превышает planned + Tolerance.
func CheckAddition(planned, consumed, input float64) error {
	if consumed+input > planned+Tolerance {
		return &ExceedsPlanError{
			Planned:   planned,
			Consumed:  consumed,
			Input:     input,
			Remaining: Remaining(planned, consumed),
		}
	}
	return nil
}

// FormatPortion печатает порцию без лишних нулей: 1.001, 2, 0.5.
func FormatPortion(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row редактируемая строка дневника питания.
type Row struct {
	Index     int             `json:"index"`
	MealID    int             `json:"meal_id"`
	FoodID    int             `json:"food_id"`
	FoodName  string          `json:"food_name"`
	MealType  models.MealType `json:"meal_type"`
	Planned   float64         `json:"planned_portion"`
	Consumed  float64         `json:"consumed_portion"`
	Remaining float64         `json:"remaining_portion"`
	Fulfilled bool            `json:"fulfilled"`
	Strategy  Strategy        `json:"match"`
}

// BuildRows строит строки дневника в порядке приемов пищи плана.
// Запланированная порция берется из плана, съеденная из статуса.
func BuildRows(plan models.NutritionPlan, status models.PlanStatus) []Row {
	rows := make([]Row, 0, len(plan.Meals))
	for i, meal := range plan.Meals {
		row := Row{
			Index:    i,
			MealID:   meal.ID,
			FoodID:   meal.FoodID,
			FoodName: meal.FoodName,
			MealType: meal.MealType,
			Planned:  meal.PortionSize,
		}

		detail, strategy := FindStatus(meal, status.Detail)
		row.Strategy = strategy
		if detail != nil {
			row.Consumed = detail.ConsumedPortion
		}
		row.Remaining = Remaining(row.Planned, row.Consumed)
		row.Fulfilled = row.Remaining == 0
		rows = append(rows, row)
	}
	return rows
}

// PortionKey ключ поля ввода порции строки i в карте ошибок.
func PortionKey(i int) string {
	return "portion_size_" + strconv.Itoa(i)
}

// mealKey сервер суммирует потребление по продукту и типу приема пищи.
type mealKey struct {
	foodID   int
	mealType models.MealType
}

func keyOf(foodID int, mealType models.MealType) mealKey {
	return mealKey{foodID: foodID, mealType: mealType}
}

// Entries превращает введенные порции в записи дневника на дату date.
// Порции строк с одним продуктом и типом приема пищи проверяются вместе.
// Возвращает ошибки по полям, если хотя бы одна порция некорректна;
// в этом случае записи не возвращаются.
func Entries(rows []Row, portions map[int]models.PortionInput, date string) ([]models.FoodLogEntry, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	entries := make([]models.FoodLogEntry, 0, len(portions))
	pending := make(map[mealKey]float64)

	for i := range rows {
		raw, ok := portions[i]
		if !ok {
			continue
		}
		row := rows[i]

		input, err := ParsePortion(string(raw))
		if err != nil {
			errs.Add(PortionKey(i), err.Error())
			continue
		}
		key := keyOf(row.FoodID, row.MealType)
		if err := CheckAddition(row.Planned, row.Consumed+pending[key], input); err != nil {
			errs.Add(PortionKey(i), err.Error())
			continue
		}
		pending[key] += input
		entries = append(entries, models.FoodLogEntry{
			FoodID:      row.FoodID,
			MealType:    row.MealType,
			PortionSize: input,
			Date:        date,
		})
	}
	for i := range portions {
		if i < 0 || i >= len(rows) {
			errs.Add(PortionKey(i), "no such meal in the plan")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return entries, nil
}

// ParsePortion разбирает введенную порцию. Принимаются только конечные
// положительные числа.
func ParsePortion(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("portion is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("portion must be a number")
	}
	if v <= 0 {
		return 0, fmt.Errorf("portion must be greater than 0")
	}
	return v, nil
}

// Target съеденная порция, которую статус должен показать после записи.
type Target struct {
	Meal     models.PlanMeal
	Consumed float64
}

// Targets ожидаемое состояние статуса после отправки entries.
// Строки и записи сопоставляются по food_id и типу приема пищи.
func Targets(rows []Row, entries []models.FoodLogEntry) []Target {
	targets := make([]Target, 0, len(entries))
	sent := make(map[mealKey]float64)
	for _, e := range entries {
		key := keyOf(e.FoodID, e.MealType)
		sent[key] += e.PortionSize
		for _, r := range rows {
			if r.FoodID != e.FoodID || r.MealType != e.MealType {
				continue
			}
			targets = append(targets, Target{
				Meal: models.PlanMeal{
					ID:          r.MealID,
					MealType:    r.MealType,
					PortionSize: r.Planned,
					FoodID:      r.FoodID,
					FoodName:    r.FoodName,
				},
				Consumed: r.Consumed + sent[key],
			})
			break
		}
	}
	return targets
}

// Converged true, если статус уже отражает все отправленные порции.
func Converged(status models.PlanStatus, targets []Target) bool {
	for _, t := range targets {
		detail, _ := FindStatus(t.Meal, status.Detail)
		if detail == nil {
			return false
		}
		if detail.ConsumedPortion+Tolerance < t.Consumed {
			return false
		}
	}
	return true
}
