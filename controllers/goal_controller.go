package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/services"
	"github.com/christian6134/byte-buddy/utils"
)

type GoalController struct {
	Sessions *services.SessionManager
}

func NewGoalController(sm *services.SessionManager) *GoalController {
	return &GoalController{Sessions: sm}
}

// GET /goals
func (gc *GoalController) Get(c *gin.Context) {
	st, ok := sessionStores(c, gc.Sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Settings.Profile())
}

type GoalsInput struct {
	CalorieGoal float64  `json:"calorie_goal"`
	ProteinGoal float64  `json:"protein_goal"`
	CarbGoal    float64  `json:"carb_goal"`
	SugarGoal   float64  `json:"sugar_goal"`
	FatGoal     float64  `json:"fat_goal"`
	Weight      *float64 `json:"weight"`
}

// PUT /goals
func (gc *GoalController) UpdateGoals(c *gin.Context) {
	st, ok := sessionStores(c, gc.Sessions)
	if !ok {
		return
	}

	var input GoalsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := st.Settings.SaveGoals(
		input.CalorieGoal,
		input.ProteinGoal,
		input.CarbGoal,
		input.SugarGoal,
		input.FatGoal,
		input.Weight,
	)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ReminderInput struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // "HH:MM"
	Message string `json:"message"`
}

// PUT /goals/reminder
func (gc *GoalController) UpdateReminder(c *gin.Context) {
	st, ok := sessionStores(c, gc.Sessions)
	if !ok {
		return
	}

	var input ReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hour, minute, err := utils.ParseClock(input.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := st.Settings.SaveReminder(input.Enabled, hour, minute, input.Message); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
