package models

// MealType прием пищи.
type MealType string

const (
	MealBreakfast MealType = "Desayuno"
	MealLunch     MealType = "Almuerzo"
	MealDinner    MealType = "Cena"
	MealSnack     MealType = "Snack"
)

// MealTypes все допустимые приемы пищи в порядке дня.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid проверяет, что значение входит в перечисление.
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// PlanMeal запланированный прием пищи внутри плана.
type PlanMeal struct {
	ID          int      `json:"id"`
	MealType    MealType `json:"meal_type"`
	PortionSize float64  `json:"portion_size"`
	FoodID      int      `json:"food_id"`
	FoodName    string   `json:"food_name"`
}

// NutritionPlan план питания клиента на конкретную дату.
type NutritionPlan struct {
	PlanID      int        `json:"plan_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	PlanDate    string     `json:"plan_date"`
	CreatedAt   *string    `json:"created_at,omitempty"`
	Meals       []PlanMeal `json:"meals"`
}

// PlanCreated ответ на создание плана.
type PlanCreated struct {
	Message  string `json:"message"`
	PlanID   int    `json:"plan_id"`
	PlanDate string `json:"plan_date"`
	Success  bool   `json:"success"`
}

// PlanDeleted ответ на удаление плана. Поля DeletedFoodLogs и AffectedDate
// заполняются только при принудительном удалении.
type PlanDeleted struct {
	Message         string  `json:"message"`
	DeletedFoodLogs *int    `json:"deleted_food_logs,omitempty"`
	AffectedDate    *string `json:"affected_date,omitempty"`
}

// PlanSummary краткое описание плана в недельном обзоре.
type PlanSummary struct {
	PlanID      int     `json:"plan_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MealsCount  int     `json:"meals_count"`
	Meals       []struct {
		MealType    MealType `json:"meal_type"`
		FoodName    string   `json:"food_name"`
		PortionSize float64  `json:"portion_size"`
	} `json:"meals,omitempty"`
}

// WeekDay день недельного обзора.
type WeekDay struct {
	Date    string       `json:"date"`
	DayName string       `json:"day_name"`
	IsToday bool         `json:"is_today"`
	HasPlan bool         `json:"has_plan"`
	Plan    *PlanSummary `json:"plan,omitempty"`
}

// WeekOverview планы на семь дней начиная с понедельника.
type WeekOverview struct {
	WeekStart  string    `json:"week_start"`
	WeekEnd    string    `json:"week_end"`
	WeekOffset int       `json:"week_offset"`
	Days       []WeekDay `json:"days"`
}

// DateAvailability результат проверки свободной даты для нового плана.
type DateAvailability struct {
	Date         string       `json:"date"`
	Available    bool         `json:"available"`
	ExistingPlan *PlanSummary `json:"existing_plan,omitempty"`
}
