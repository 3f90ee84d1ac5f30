package services

import "github.com/christian6134/byte-buddy/models"

// SumEntries reduces a list of meal entries to daily totals. The sum is
// order-independent and an empty list yields the zero totals.
func SumEntries(entries []models.MealEntry) models.DailyTotals {
	var t models.DailyTotals
	for _, e := range entries {
		t.Calories += e.TotalCalories()
		t.Protein += e.TotalProtein()
		t.Carbs += e.TotalCarbs()
		t.Fat += e.TotalFat()
	}
	return t
}
