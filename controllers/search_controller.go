package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/services"
)

type SearchController struct {
	Nutritionix *services.NutritionixService
	Sessions    *services.SessionManager
}

func NewSearchController(nx *services.NutritionixService, sm *services.SessionManager) *SearchController {
	return &SearchController{Nutritionix: nx, Sessions: sm}
}

// GET /food/search?q=banana
func (sc *SearchController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'q' query param"})
		return
	}

	foods, err := sc.Nutritionix.Search(c.GetString("userID"), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, foods)
}

type CommitSearchInput struct {
	Index int `json:"index"`
}

// POST /food/search/commit — add one of the last search's results to
// the caller's food catalog. The committed food gets a fresh id and
// timestamp regardless of anything the external API returned.
func (sc *SearchController) Commit(c *gin.Context) {
	st, ok := sessionStores(c, sc.Sessions)
	if !ok {
		return
	}

	var input CommitSearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("userID")
	results := sc.Nutritionix.Results(uid)
	if input.Index < 0 || input.Index >= len(results) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no such search result"})
		return
	}

	food, err := st.Foods.AddFood(results[input.Index].ToFood(uid))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}
