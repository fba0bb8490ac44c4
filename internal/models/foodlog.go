package models

// FoodLogEntry запись о фактически съеденной порции.
type FoodLogEntry struct {
	FoodID      int      `json:"food_id"`
	MealType    MealType `json:"meal_type"`
	PortionSize float64  `json:"portion_size"`
	Date        string   `json:"date"`
}

// PlanStatusDetail сравнение запланированной и съеденной порции одного приема пищи.
type PlanStatusDetail struct {
	FoodID               int      `json:"food_id"`
	FoodName             string   `json:"food_name"`
	MealType             MealType `json:"meal_type"`
	PlannedPortion       float64  `json:"planned_portion"`
	ConsumedPortion      float64  `json:"consumed_portion"`
	CompliancePercentage float64  `json:"compliance_percentage"`
	Fulfilled            bool     `json:"fulfilled"`
	Status               string   `json:"status"`
}

// PlanStatus рассчитанный сервером статус выполнения плана за день.
type PlanStatus struct {
	PlanID              *int               `json:"plan_id"`
	PlanName            string             `json:"plan_name"`
	PlanDate            string             `json:"plan_date"`
	Status              string             `json:"status"`
	TotalPlanned        int                `json:"total_planned"`
	FulfilledCount      int                `json:"fulfilled_count"`
	AdherencePercentage float64            `json:"adherence_percentage"`
	Detail              []PlanStatusDetail `json:"detail"`
}

// HasPlan false, если на дату нет плана.
func (s PlanStatus) HasPlan() bool {
	return s.PlanID != nil
}

// Fulfilled true, когда все приемы пищи плана выполнены.
func (s PlanStatus) Fulfilled() bool {
	if len(s.Detail) == 0 {
		return false
	}
	for _, d := range s.Detail {
		if !d.Fulfilled {
			return false
		}
	}
	return true
}
