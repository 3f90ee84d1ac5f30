package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestNutritionix(handler http.HandlerFunc) (*NutritionixService, *httptest.Server) {
	srv := httptest.NewServer(handler)
	s := &NutritionixService{
		appID:   "test-id",
		appKey:  "test-key",
		baseURL: srv.URL,
		client:  srv.Client(),
		slots:   make(map[string]*searchSlot),
	}
	return s, srv
}

func bananaResponse() []byte {
	data, _ := json.Marshal(map[string]any{
		"foods": []map[string]any{{
			"food_name":             "banana",
			"serving_qty":           1.0,
			"serving_unit":          "medium",
			"nf_calories":           105.0,
			"nf_protein":            1.3,
			"nf_total_carbohydrate": 27.0,
			"nf_total_fat":          0.4,
		}},
	})
	return data
}

func TestNutritionix_Search_SendsContract(t *testing.T) {
	var gotPath, gotAppID, gotAppKey string
	var gotBody []byte
	s, srv := newTestNutritionix(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAppID = r.Header.Get("x-app-id")
		gotAppKey = r.Header.Get("x-app-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write(bananaResponse())
	})
	defer srv.Close()

	foods, err := s.Search(testOwner, "banana")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	require.Equal(t, "/natural/nutrients", gotPath)
	require.Equal(t, "test-id", gotAppID)
	require.Equal(t, "test-key", gotAppKey)
	require.JSONEq(t, `{"query":"banana"}`, string(gotBody))

	f := foods[0]
	require.Equal(t, "banana", f.FoodName)
	require.Equal(t, 105.0, f.Calories)
	require.Equal(t, foods, s.Results(testOwner))
}

func TestNutritionix_Search_Non200IsSearchError(t *testing.T) {
	s, srv := newTestNutritionix(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := s.Search(testOwner, "banana")
	var serr *SearchError
	require.ErrorAs(t, err, &serr)
	require.Empty(t, s.Results(testOwner))
}

func TestNutritionix_Search_DecodeFailureIsSearchError(t *testing.T) {
	s, srv := newTestNutritionix(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": [`))
	})
	defer srv.Close()

	_, err := s.Search(testOwner, "banana")
	var serr *SearchError
	require.ErrorAs(t, err, &serr)
}

func TestNutritionix_StaleResponseDoesNotOverwriteNewer(t *testing.T) {
	slowArrived := make(chan struct{})
	release := make(chan struct{})
	s, srv := newTestNutritionix(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		_ = json.Unmarshal(body, &req)
		if req["query"] == "slow" {
			close(slowArrived)
			<-release
			data, _ := json.Marshal(map[string]any{
				"foods": []map[string]any{{"food_name": "stale"}},
			})
			w.Write(data)
			return
		}
		w.Write(bananaResponse())
	})
	defer srv.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Search(testOwner, "slow")
	}()

	<-slowArrived
	_, err := s.Search(testOwner, "banana")
	require.NoError(t, err)

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("slow search never returned")
	}

	// the superseded response was discarded; the slot keeps the newer one
	results := s.Results(testOwner)
	require.Len(t, results, 1)
	require.Equal(t, "banana", results[0].FoodName)
}

func TestNutritionix_ResultSlotsAreIsolatedPerUser(t *testing.T) {
	s, srv := newTestNutritionix(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		_ = json.Unmarshal(body, &req)
		data, _ := json.Marshal(map[string]any{
			"foods": []map[string]any{{"food_name": req["query"]}},
		})
		w.Write(data)
	})
	defer srv.Close()

	_, err := s.Search("user-a", "banana")
	require.NoError(t, err)
	_, err = s.Search("user-b", "pizza")
	require.NoError(t, err)

	// user B's search must not replace what user A is about to commit
	a := s.Results("user-a")
	require.Len(t, a, 1)
	require.Equal(t, "banana", a[0].FoodName)

	b := s.Results("user-b")
	require.Len(t, b, 1)
	require.Equal(t, "pizza", b[0].FoodName)

	require.Empty(t, s.Results("user-c"))
}

func TestNutritionixFood_ToFood(t *testing.T) {
	f := NutritionixFood{
		FoodName:    "banana",
		ServingQty:  1,
		ServingUnit: "medium",
		Calories:    105,
		Protein:     1.3,
		Carbs:       27,
		Fat:         0.4,
	}
	food := f.ToFood(testOwner)
	require.Empty(t, food.ID)
	require.True(t, food.DateAdded.IsZero())
	require.Equal(t, "1 medium", food.ServingSize)
	require.Equal(t, testOwner, food.UserID)

	// committing the result assigns a fresh id and timestamp
	store := NewFoodStore(newFakeBackend(), testOwner)
	committed, err := store.AddFood(food)
	require.NoError(t, err)
	require.NotEmpty(t, committed.ID)
	require.False(t, committed.DateAdded.IsZero())
}
