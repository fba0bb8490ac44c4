package models

import "encoding/json"

// PlannerOption тип плана или калькулятора, доступный на сервере.
type PlannerOption struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BestFor     *string `json:"best_for,omitempty"`
}

// PlanGenerationRequest запрос генерации плана.
type PlanGenerationRequest struct {
	UserID         int    `json:"user_id"`
	PlanDate       string `json:"plan_date" validate:"required,iso_date"`
	PlanType       string `json:"plan_type" validate:"required,oneof=simple sport"`
	CalculatorType string `json:"calculator_type" validate:"required,oneof=standard sport"`
}

// GeneratedPlan ответ генерации. Содержимое плана зависит от выбранной стратегии
// на сервере, поэтому хранится как есть.
type GeneratedPlan struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	PlanData json.RawMessage `json:"plan_data"`
	Metadata struct {
		PlanType       string   `json:"plan_type"`
		CalculatorType string   `json:"calculator_type"`
		GeneratedAt    string   `json:"generated_at"`
		PatternsUsed   []string `json:"patterns_used,omitempty"`
	} `json:"metadata"`
}

// ClientAnalysis анализ питания клиента выбранным калькулятором.
type ClientAnalysis struct {
	UserID         int             `json:"user_id"`
	CalculatorType string          `json:"calculator_type"`
	Analysis       json.RawMessage `json:"analysis"`
	GeneratedAt    string          `json:"generated_at"`
}

// CalculatorComparison сравнение стандартного и спортивного калькуляторов.
type CalculatorComparison struct {
	UserID     int `json:"user_id"`
	Comparison struct {
		Standard    json.RawMessage `json:"standard"`
		Sport       json.RawMessage `json:"sport"`
		Differences struct {
			Calories  float64 `json:"calories"`
			ProteinG  float64 `json:"protein_g"`
			BMRMethod string  `json:"bmr_method"`
		} `json:"differences"`
	} `json:"comparison"`
	Recommendation string `json:"recommendation"`
}
