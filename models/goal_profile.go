package models

// GoalProfile is the per-user settings document ("users" collection,
// document id = owner id). Fields are written independently with
// merge updates, so any subset may be present in the stored document.
type GoalProfile struct {
	DailyCalorieGoal float64  `json:"dailyCalorieGoal"`
	DailyProteinGoal float64  `json:"dailyProteinGoal"`
	DailyCarbGoal    float64  `json:"dailyCarbGoal"`
	DailySugarGoal   float64  `json:"dailySugarGoal"`
	DailyFatGoal     float64  `json:"dailyFatGoal"`
	Weight           *float64 `json:"weight,omitempty"`
	ReminderEnabled  bool     `json:"reminderEnabled"`
	ReminderTime     string   `json:"reminderTime"` // "HH:MM", 24-hour
	ReminderMessage  string   `json:"reminderMessage"`
}

// DefaultGoalProfile returns the values used before the user has saved
// anything.
func DefaultGoalProfile() GoalProfile {
	return GoalProfile{
		DailyCalorieGoal: 2000,
		DailyProteinGoal: 150,
		DailyCarbGoal:    250,
		DailySugarGoal:   40,
		DailyFatGoal:     70,
		ReminderEnabled:  false,
		ReminderTime:     "08:00",
		ReminderMessage:  "Don't forget to log your meals!",
	}
}
