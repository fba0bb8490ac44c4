package models

// NutritionMetrics агрегаты панели клиента, рассчитанные на сервере.
type NutritionMetrics struct {
	BasicMetrics struct {
		UserInfo struct {
			Name          string  `json:"name"`
			Age           *int    `json:"age"`
			HeightCm      float64 `json:"height_cm"`
			WeightCurrent float64 `json:"weight_current"`
			WeightGoal    float64 `json:"weight_goal"`
			Goal          Goal    `json:"goal"`
			ActivityLevel string  `json:"activity_level"`
		} `json:"user_info"`
		CalculatedMetrics struct {
			MetabolismoBasal            float64 `json:"metabolismo_basal"`
			GET                         float64 `json:"get"`
			RCDE                        float64 `json:"rcde"`
			BMI                         float64 `json:"bmi"`
			BMICategory                 string  `json:"bmi_category"`
			WeightChangeNeeded          float64 `json:"weight_change_needed"`
			WeeksToGoal                 float64 `json:"weeks_to_goal"`
			RecommendedExerciseCalories float64 `json:"recommended_exercise_calories"`
		} `json:"calculated_metrics"`
		MacronutrientTargets map[string]float64 `json:"macronutrient_targets"`
	} `json:"basic_metrics"`
	TodayConsumption struct {
		TotalCalories float64              `json:"total_calories"`
		TotalProtein  float64              `json:"total_protein"`
		TotalCarbs    float64              `json:"total_carbs"`
		TotalFat      float64              `json:"total_fat"`
		ByMeal        map[MealType]float64 `json:"by_meal"`
	} `json:"today_consumption"`
	CaloricCompliance struct {
		TargetCalories   float64 `json:"target_calories"`
		ConsumedCalories float64 `json:"consumed_calories"`
		Difference       float64 `json:"difference"`
		Percentage       float64 `json:"percentage"`
		Status           string  `json:"status"`
	} `json:"caloric_compliance"`
	WeeklyAdherence struct {
		DaysWithLogs        int     `json:"days_with_logs"`
		DaysElapsed         int     `json:"days_elapsed"`
		AdherencePercentage float64 `json:"adherence_percentage"`
	} `json:"weekly_adherence"`
	WeekDailyConsumption []struct {
		Date       string  `json:"date"`
		DayName    string  `json:"day_name"`
		Calories   float64 `json:"calories"`
		Target     float64 `json:"target"`
		Compliance float64 `json:"compliance"`
	} `json:"week_daily_consumption"`
}
