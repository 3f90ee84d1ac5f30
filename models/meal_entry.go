package models

import "time"

type MealSlot string

const (
	SlotBreakfast MealSlot = "Breakfast"
	SlotLunch     MealSlot = "Lunch"
	SlotDinner    MealSlot = "Dinner"
	SlotSnack     MealSlot = "Snack"
)

func (s MealSlot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	}
	return false
}

// MealEntry is one logged consumption event. The nutrient fields are a
// snapshot copied from the Food at logging time; later edits to the Food
// do not propagate here.
type MealEntry struct {
	ID           string    `json:"id,omitempty"`
	FoodID       string    `json:"foodId"`
	FoodName     string    `json:"foodName"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Carbs        float64   `json:"carbs"`
	Fat          float64   `json:"fat"`
	Quantity     float64   `json:"quantity"`
	MealSlot     MealSlot  `json:"mealType"`
	DateConsumed time.Time `json:"dateConsumed"`
	UserID       string    `json:"userId"`
}

func (e MealEntry) TotalCalories() float64 { return e.Calories * e.Quantity }
func (e MealEntry) TotalProtein() float64  { return e.Protein * e.Quantity }
func (e MealEntry) TotalCarbs() float64    { return e.Carbs * e.Quantity }
func (e MealEntry) TotalFat() float64      { return e.Fat * e.Quantity }

// DailyTotals is the summed intake for one calendar day.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
