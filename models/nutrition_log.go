package models

import "time"

type Macronutrients struct {
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
	Cholesterol   float64 `json:"cholesterol"`
}

type Vitamins struct {
	VitaminA float64 `json:"vitaminA"`
	VitaminB float64 `json:"vitaminB"`
	VitaminC float64 `json:"vitaminC"`
	VitaminD float64 `json:"vitaminD"`
	VitaminE float64 `json:"vitaminE"`
	VitaminK float64 `json:"vitaminK"`
}

type Minerals struct {
	Calcium   float64 `json:"calcium"`
	Iron      float64 `json:"iron"`
	Magnesium float64 `json:"magnesium"`
	Potassium float64 `json:"potassium"`
	Zinc      float64 `json:"zinc"`
}

// One logged food, as recognized from an uploaded photo. Every nutrient
// column is NOT NULL with a zero default so a record never carries holes,
// only zeros, for values the provider did not supply.
type NutritionLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FoodName       string         `gorm:"not null" json:"foodName"`
	Calories       float64        `gorm:"not null;default:0" json:"calories"`
	Macronutrients Macronutrients `gorm:"embedded;embeddedPrefix:macro_" json:"macronutrients"`
	Vitamins       Vitamins       `gorm:"embedded;embeddedPrefix:vitamin_" json:"vitamins"`
	Minerals       Minerals       `gorm:"embedded;embeddedPrefix:mineral_" json:"minerals"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
