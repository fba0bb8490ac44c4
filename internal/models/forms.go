package models

import "encoding/json"

// Формы представлений. Теги validate проверяются до любого сетевого вызова,
// имена полей в ошибках берутся из тегов json.

// LoginForm вход по номеру cédula.
type LoginForm struct {
	Cedula   string `json:"cedula" validate:"required,numeric,min=6,max=20"`
	Password string `json:"password" validate:"required"`
}

// ClientRegistration форма регистрации клиента.
type ClientRegistration struct {
	FirstName       string        `json:"first_name" validate:"required"`
	LastName        string        `json:"last_name" validate:"required"`
	Cedula          string        `json:"cedula" validate:"required,numeric,min=6,max=20"`
	Email           string        `json:"email" validate:"required,email"`
	Password        string        `json:"password" validate:"required"`
	BirthDate       string        `json:"birth_date" validate:"required,iso_date"`
	Sex             Sex           `json:"sex" validate:"required,oneof=Masculino Femenino"`
	HeightCm        float64       `json:"height_cm" validate:"required,gt=0,lte=300"`
	WeightCurrentKg float64       `json:"weight_current_kg" validate:"required,gt=0,lte=500"`
	WeightGoalKg    float64       `json:"weight_goal_kg" validate:"required,gt=0,lte=500"`
	ActivityLevel   ActivityLevel `json:"activity_level" validate:"required,oneof=Sedentario Ligero Moderado Intenso Extremo"`
	Goal            Goal          `json:"goal" validate:"required,oneof=Bajar_Peso Mantener_Peso Subir_Peso"`
}

// NutritionistRegistration форма регистрации нутрициолога.
type NutritionistRegistration struct {
	FirstName           string `json:"first_name" validate:"required"`
	LastName            string `json:"last_name" validate:"required"`
	Cedula              string `json:"cedula" validate:"required,cedula_ec"`
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,strong_password"`
	BirthDate           string `json:"birth_date" validate:"required,iso_date"`
	Sex                 Sex    `json:"sex" validate:"required,oneof=Masculino Femenino"`
	CertificationNumber string `json:"certification_number" validate:"required"`
	Specialty           string `json:"specialty" validate:"required,specialty"`
}

// AdminRegistration форма регистрации администратора.
type AdminRegistration struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Cedula      string `json:"cedula" validate:"required,cedula_ec"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
	BirthDate   string `json:"birth_date" validate:"required,iso_date"`
	Sex         Sex    `json:"sex" validate:"required,oneof=Masculino Femenino"`
	Department  string `json:"department" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// Specialties специальности нутрициологов, принимаемые сервером.
var Specialties = []string{
	"Nutrición Clínica",
	"Nutrición Deportiva",
	"Nutrición Pediátrica",
	"Nutrición Geriátrica",
	"Nutrición Renal",
	"Nutrición Oncológica",
	"Nutrición Materno Infantil",
	"Educación Nutricional",
	"Nutrición Pública",
	"Nutrición y Alimentación Colectiva",
}

// FoodForm создание и редактирование продукта.
type FoodForm struct {
	Name               string  `json:"name" validate:"required,min=2,max=100"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=255"`
	CaloriesPerPortion float64 `json:"calories_per_portion" validate:"gt=0"`
	ProteinPerPortion  float64 `json:"protein_per_portion" validate:"gte=0"`
	FatPerPortion      float64 `json:"fat_per_portion" validate:"gte=0"`
	CarbsPerPortion    float64 `json:"carbs_per_portion" validate:"gte=0"`
	PortionUnit        string  `json:"portion_unit" validate:"required,min=1,max=50"`
}

// PlanMealForm строка приема пищи в форме плана.
type PlanMealForm struct {
	FoodID      int      `json:"food_id" validate:"required,gt=0"`
	MealType    MealType `json:"meal_type" validate:"required,meal_type"`
	PortionSize float64  `json:"portion_size" validate:"gt=0"`
}

// PlanForm форма создания плана нутрициологом.
type PlanForm struct {
	UserID         int            `json:"user_id" validate:"required,gt=0"`
	NutritionistID int            `json:"nutritionist_id"`
	Name           string         `json:"name" validate:"required,min=2,max=100"`
	Description    *string        `json:"description,omitempty" validate:"omitempty,max=255"`
	PlanDate       string         `json:"plan_date" validate:"required,iso_date,not_past"`
	Meals          []PlanMealForm `json:"meals" validate:"required,min=1,dive"`
}

// FoodLogForm порции, которые клиент добавляет к плану. Ключ Portions это
// индекс строки сверки, значение содержит введенное количество порций.
type FoodLogForm struct {
	PlanID   *int                 `json:"plan_id,omitempty"`
	Date     string               `json:"date,omitempty" validate:"omitempty,iso_date"`
	Portions map[int]PortionInput `json:"portions" validate:"required,min=1"`
}

// PortionInput значение поля ввода порции: принимает и число, и строку,
// как поле формы в браузере.
type PortionInput string

// UnmarshalJSON принимает JSON-число или строку.
func (p *PortionInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PortionInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PortionInput(n.String())
	return nil
}
