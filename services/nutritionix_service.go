package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/models"
)

const nutritionixBaseURL = "https://trackapi.nutritionix.com/v2"

// NutritionixService wraps the Nutritionix natural-language nutrients
// endpoint. Every user has an independent result slot, so one user's
// search never clobbers what another user is about to commit; within a
// slot each request carries a generation tag so a response from a
// superseded search never overwrites a newer one.
type NutritionixService struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	slots map[string]*searchSlot
}

type searchSlot struct {
	gen     uint64
	results []NutritionixFood
}

func NewNutritionixService() *NutritionixService {
	return &NutritionixService{
		appID:   os.Getenv("NUTRITIONIX_APP_ID"),
		appKey:  os.Getenv("NUTRITIONIX_APP_KEY"),
		baseURL: nutritionixBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		slots:   make(map[string]*searchSlot),
	}
}

// slot returns the caller's result slot. Callers must hold s.mu.
func (s *NutritionixService) slot(ownerID string) *searchSlot {
	sl, ok := s.slots[ownerID]
	if !ok {
		sl = &searchSlot{}
		s.slots[ownerID] = sl
	}
	return sl
}

// NutritionixFood is one candidate record from the API.
type NutritionixFood struct {
	FoodName    string  `json:"food_name"`
	ServingQty  float64 `json:"serving_qty"`
	ServingUnit string  `json:"serving_unit"`
	Calories    float64 `json:"nf_calories"`
	Protein     float64 `json:"nf_protein"`
	Carbs       float64 `json:"nf_total_carbohydrate"`
	Fat         float64 `json:"nf_total_fat"`
}

// ToFood converts a candidate into a catalog draft. Id and dateAdded
// are left unset; the catalog store assigns them when the user commits
// the result.
func (f NutritionixFood) ToFood(ownerID string) models.Food {
	return models.Food{
		Name:        f.FoodName,
		Calories:    f.Calories,
		Protein:     f.Protein,
		Carbs:       f.Carbs,
		Fat:         f.Fat,
		ServingSize: fmt.Sprintf("%g %s", f.ServingQty, f.ServingUnit),
		UserID:      ownerID,
	}
}

type nutrientsResponse struct {
	Foods []NutritionixFood `json:"foods"`
}

// Search issues one request and returns the candidates, or a single
// SearchError on any transport, status or decode failure. The owner's
// result slot is only updated when this search is still the newest one.
func (s *NutritionixService) Search(ownerID, query string) ([]NutritionixFood, error) {
	s.mu.Lock()
	sl := s.slot(ownerID)
	sl.gen++
	gen := sl.gen
	s.mu.Unlock()

	foods, err := s.fetch(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != sl.gen {
		logrus.WithField("query", query).Debug("discarding superseded search response")
		if err != nil {
			return nil, &SearchError{Err: err}
		}
		return foods, nil
	}
	if err != nil {
		sl.results = nil
		return nil, &SearchError{Err: err}
	}
	sl.results = foods
	return foods, nil
}

// Results returns the outcome of the owner's most recent
// non-superseded search.
func (s *NutritionixService) Results(ownerID string) []NutritionixFood {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slot(ownerID)
	out := make([]NutritionixFood, len(sl.results))
	copy(out, sl.results)
	return out
}

func (s *NutritionixService) fetch(query string) ([]NutritionixFood, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/natural/nutrients", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", s.appID)
	req.Header.Set("x-app-key", s.appKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Nutritionix: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Nutritionix response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutritionix API error %d: %s", resp.StatusCode, string(raw))
	}

	var nr nutrientsResponse
	if err := json.Unmarshal(raw, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse Nutritionix JSON: %w", err)
	}
	return nr.Foods, nil
}
