package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/models"
	"github.com/christian6134/byte-buddy/services"
)

type MealController struct {
	Sessions *services.SessionManager
}

func NewMealController(sm *services.SessionManager) *MealController {
	return &MealController{Sessions: sm}
}

type MealEntryInput struct {
	FoodID   string    `json:"food_id" binding:"required"`
	Quantity float64   `json:"quantity"`
	MealType string    `json:"meal_type"`
	Date     time.Time `json:"date"`
}

// POST /meals
func (mc *MealController) Add(c *gin.Context) {
	st, ok := sessionStores(c, mc.Sessions)
	if !ok {
		return
	}

	var input MealEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Lookup falls back to the backend so an entry logged right after
	// sign-in resolves even before the mirror's first snapshot lands
	food, err := st.Foods.Lookup(input.FoodID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry, err := st.Meals.AddEntry(food, input.Quantity, models.MealSlot(input.MealType), date)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GET /meals?date=2006-01-02&meal_type=Breakfast
func (mc *MealController) List(c *gin.Context) {
	st, ok := sessionStores(c, mc.Sessions)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusOK, st.Meals.Entries())
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
		return
	}

	if slot := c.Query("meal_type"); slot != "" {
		c.JSON(http.StatusOK, st.Meals.EntriesFor(models.MealSlot(slot), date))
		return
	}
	c.JSON(http.StatusOK, st.Meals.EntriesOn(date))
}

// GET /meals/totals?date=2006-01-02
func (mc *MealController) DailyTotals(c *gin.Context) {
	st, ok := sessionStores(c, mc.Sessions)
	if !ok {
		return
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
	}

	c.JSON(http.StatusOK, st.Meals.DailyTotals(date))
}

// DELETE /meals/:id
func (mc *MealController) Delete(c *gin.Context) {
	st, ok := sessionStores(c, mc.Sessions)
	if !ok {
		return
	}
	if err := st.Meals.DeleteEntry(c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
