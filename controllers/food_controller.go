package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/models"
	"github.com/christian6134/byte-buddy/services"
)

type FoodController struct {
	Sessions *services.SessionManager
}

func NewFoodController(sm *services.SessionManager) *FoodController {
	return &FoodController{Sessions: sm}
}

type FoodInput struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"serving_size"`
}

// GET /foods
func (fc *FoodController) List(c *gin.Context) {
	st, ok := sessionStores(c, fc.Sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Foods.Foods())
}

// POST /foods
func (fc *FoodController) Add(c *gin.Context) {
	st, ok := sessionStores(c, fc.Sessions)
	if !ok {
		return
	}

	var input FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := st.Foods.AddFood(models.Food{
		Name:        input.Name,
		Calories:    input.Calories,
		Protein:     input.Protein,
		Carbs:       input.Carbs,
		Fat:         input.Fat,
		ServingSize: input.ServingSize,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// PUT /foods/:id
func (fc *FoodController) Update(c *gin.Context) {
	st, ok := sessionStores(c, fc.Sessions)
	if !ok {
		return
	}

	var input FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := st.Foods.UpdateFood(c.Param("id"), models.Food{
		Name:        input.Name,
		Calories:    input.Calories,
		Protein:     input.Protein,
		Carbs:       input.Carbs,
		Fat:         input.Fat,
		ServingSize: input.ServingSize,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /foods/:id
func (fc *FoodController) Delete(c *gin.Context) {
	st, ok := sessionStores(c, fc.Sessions)
	if !ok {
		return
	}
	if err := st.Foods.DeleteFood(c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
