package services

import (
	"strconv"
	"strings"

	"backend/models"
)

// MapServing translates one provider serving into the normalized log shape.
// Coercion is lenient: a value that does not parse as a number becomes 0.
// Vitamin B/D/E/K, magnesium and zinc are absent from the FatSecret feed
// and stay 0.
func MapServing(foodName string, s FoodServing) models.NutritionLog {
	return models.NutritionLog{
		FoodName: foodName,
		Calories: toNumber(s.Calories),
		Macronutrients: models.Macronutrients{
			Protein:       toNumber(s.Protein),
			Carbohydrates: toNumber(s.Carbohydrate),
			Fats:          toNumber(s.Fat),
			Fiber:         toNumber(s.Fiber),
			Sugar:         toNumber(s.Sugar),
			Sodium:        toNumber(s.Sodium),
			Cholesterol:   toNumber(s.Cholesterol),
		},
		Vitamins: models.Vitamins{
			VitaminA: toNumber(s.VitaminA),
			VitaminC: toNumber(s.VitaminC),
		},
		Minerals: models.Minerals{
			Calcium:   toNumber(s.Calcium),
			Iron:      toNumber(s.Iron),
			Potassium: toNumber(s.Potassium),
		},
	}
}

func toNumber(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
