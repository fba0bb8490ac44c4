package models

// Food продукт с пищевой ценностью на одну порцию.
type Food struct {
	FoodID             int     `json:"food_id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	CaloriesPerPortion float64 `json:"calories_per_portion"`
	ProteinPerPortion  float64 `json:"protein_per_portion"`
	FatPerPortion      float64 `json:"fat_per_portion"`
	CarbsPerPortion    float64 `json:"carbs_per_portion"`
	PortionUnit        string  `json:"portion_unit"`
}
