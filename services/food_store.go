package services

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/models"
)

const foodsCollection = "foods"

// FoodStore keeps one user's food catalog: every write goes to the
// document store, and a live watch replaces the in-memory mirror with
// the canonical (dateAdded descending) ordering on every push.
type FoodStore struct {
	backend docstore.Backend
	ownerID string

	mu    sync.RWMutex
	foods []models.Food

	sub        *docstore.Subscription
	onSnapshot func([]models.Food)
}

func NewFoodStore(backend docstore.Backend, ownerID string) *FoodStore {
	return &FoodStore{backend: backend, ownerID: ownerID}
}

// OnSnapshot registers a callback invoked with the fresh mirror after
// every watch push. Set it before Subscribe.
func (s *FoodStore) OnSnapshot(fn func([]models.Food)) {
	s.onSnapshot = fn
}

// AddFood validates the draft, writes it through and inserts it at the
// front of the mirror. The front insert can disagree with the
// subscription ordering for a moment; the next push re-establishes
// canonical order.
func (s *FoodStore) AddFood(draft models.Food) (*models.Food, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if draft.Calories <= 0 {
		return nil, &ValidationError{Field: "calories", Reason: "must be greater than zero"}
	}
	if draft.Protein < 0 || draft.Carbs < 0 || draft.Fat < 0 {
		return nil, &ValidationError{Field: "nutrients", Reason: "must not be negative"}
	}

	food := draft
	food.ID = s.backend.NewID()
	food.UserID = s.ownerID
	food.DateAdded = time.Now()
	if strings.TrimSpace(food.ServingSize) == "" {
		food.ServingSize = "1 serving"
	}

	data, err := json.Marshal(food)
	if err != nil {
		return nil, &RemoteWriteError{Op: "add food", Err: err}
	}
	if err := s.backend.Put(foodsCollection, food.ID, s.ownerID, food.DateAdded, data); err != nil {
		return nil, &RemoteWriteError{Op: "add food", Err: err}
	}

	s.mu.Lock()
	s.foods = append([]models.Food{food}, s.foods...)
	s.mu.Unlock()
	return &food, nil
}

// UpdateFood merge-writes an existing food. Unlike creation, a zero
// calorie value is accepted here.
func (s *FoodStore) UpdateFood(id string, upd models.Food) error {
	if strings.TrimSpace(upd.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if upd.Calories < 0 {
		return &ValidationError{Field: "calories", Reason: "must not be negative"}
	}
	if upd.Protein < 0 || upd.Carbs < 0 || upd.Fat < 0 {
		return &ValidationError{Field: "nutrients", Reason: "must not be negative"}
	}
	if strings.TrimSpace(upd.ServingSize) == "" {
		upd.ServingSize = "1 serving"
	}
	// foods are only ever created through AddFood; a merge against an
	// unknown id must not materialize one
	if _, err := s.Lookup(id); err != nil {
		return err
	}

	fields := map[string]any{
		"name":        upd.Name,
		"calories":    upd.Calories,
		"protein":     upd.Protein,
		"carbs":       upd.Carbs,
		"fat":         upd.Fat,
		"servingSize": upd.ServingSize,
	}
	if err := s.backend.Merge(foodsCollection, id, s.ownerID, time.Now(), fields); err != nil {
		return &RemoteWriteError{Op: "update food", Err: err}
	}

	s.mu.Lock()
	for i := range s.foods {
		if s.foods[i].ID == id {
			s.foods[i].Name = upd.Name
			s.foods[i].Calories = upd.Calories
			s.foods[i].Protein = upd.Protein
			s.foods[i].Carbs = upd.Carbs
			s.foods[i].Fat = upd.Fat
			s.foods[i].ServingSize = upd.ServingSize
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteFood removes the food remotely first; the mirror is only
// touched after the remote delete succeeded, so a failed delete never
// makes a food disappear from view.
func (s *FoodStore) DeleteFood(id string) error {
	if err := s.backend.Delete(foodsCollection, id); err != nil {
		return &RemoteWriteError{Op: "delete food", Err: err}
	}
	s.mu.Lock()
	for i := range s.foods {
		if s.foods[i].ID == id {
			s.foods = append(s.foods[:i], s.foods[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Subscribe opens the live feed and starts applying snapshots to the
// mirror. Calling it while already subscribed is a no-op.
func (s *FoodStore) Subscribe() error {
	if s.sub != nil {
		return nil
	}
	sub, err := s.backend.Watch(foodsCollection, s.ownerID)
	if err != nil {
		return &RemoteReadError{Op: "subscribe foods", Err: err}
	}
	s.sub = sub
	go func() {
		for snap := range sub.C {
			foods := decodeFoods(snap)
			s.mu.Lock()
			s.foods = foods
			s.mu.Unlock()
			if s.onSnapshot != nil {
				s.onSnapshot(foods)
			}
		}
	}()
	return nil
}

// Unsubscribe releases the feed. Safe to call repeatedly.
func (s *FoodStore) Unsubscribe() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// Foods returns a copy of the current mirror, most recent first.
func (s *FoodStore) Foods() []models.Food {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Food, len(s.foods))
	copy(out, s.foods)
	return out
}

// FoodByID looks a food up in the current mirror.
func (s *FoodStore) FoodByID(id string) (models.Food, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.foods {
		if f.ID == id {
			return f, true
		}
	}
	return models.Food{}, false
}

// Lookup resolves a food from the mirror, falling back to a direct
// owner-scoped backend read when the mirror has not caught up with the
// watch yet.
func (s *FoodStore) Lookup(id string) (models.Food, error) {
	if f, ok := s.FoodByID(id); ok {
		return f, nil
	}
	doc, err := s.backend.Get(foodsCollection, id, s.ownerID)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Food{}, &NotFoundError{Kind: "food", ID: id}
	}
	if err != nil {
		return models.Food{}, &RemoteReadError{Op: "lookup food", Err: err}
	}
	var f models.Food
	if err := json.Unmarshal(doc.Data, &f); err != nil {
		return models.Food{}, &RemoteReadError{Op: "lookup food", Err: err}
	}
	f.ID = doc.ID
	return f, nil
}

// decodeFoods is best-effort: a malformed document is dropped and
// logged, never fails the whole snapshot.
func decodeFoods(snap docstore.Snapshot) []models.Food {
	foods := make([]models.Food, 0, len(snap))
	for _, doc := range snap {
		var f models.Food
		if err := json.Unmarshal(doc.Data, &f); err != nil {
			logrus.WithFields(logrus.Fields{
				"collection": foodsCollection,
				"doc_id":     doc.ID,
			}).WithError(err).Warn("dropping malformed food document")
			continue
		}
		f.ID = doc.ID
		foods = append(foods, f)
	}
	return foods
}
