package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/models"
)

const mealEntriesCollection = "mealEntries"

// MealLogStore keeps one user's meal log, mirrored from the
// "mealEntries" collection ordered by consumption time descending.
type MealLogStore struct {
	backend docstore.Backend
	ownerID string

	mu      sync.RWMutex
	entries []models.MealEntry

	sub        *docstore.Subscription
	onSnapshot func([]models.MealEntry)
}

func NewMealLogStore(backend docstore.Backend, ownerID string) *MealLogStore {
	return &MealLogStore{backend: backend, ownerID: ownerID}
}

func (s *MealLogStore) OnSnapshot(fn func([]models.MealEntry)) {
	s.onSnapshot = fn
}

// AddEntry logs a consumption event. The food's current per-serving
// nutrients are copied into the entry; later edits to the food leave
// existing entries alone.
func (s *MealLogStore) AddEntry(food models.Food, quantity float64, slot models.MealSlot, date time.Time) (*models.MealEntry, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if !slot.Valid() {
		return nil, &ValidationError{Field: "meal_type", Reason: "must be Breakfast, Lunch, Dinner or Snack"}
	}

	entry := models.MealEntry{
		ID:           s.backend.NewID(),
		FoodID:       food.ID,
		FoodName:     food.Name,
		Calories:     food.Calories,
		Protein:      food.Protein,
		Carbs:        food.Carbs,
		Fat:          food.Fat,
		Quantity:     quantity,
		MealSlot:     slot,
		DateConsumed: date,
		UserID:       s.ownerID,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, &RemoteWriteError{Op: "add meal entry", Err: err}
	}
	if err := s.backend.Put(mealEntriesCollection, entry.ID, s.ownerID, entry.DateConsumed, data); err != nil {
		return nil, &RemoteWriteError{Op: "add meal entry", Err: err}
	}

	s.mu.Lock()
	s.entries = append([]models.MealEntry{entry}, s.entries...)
	s.mu.Unlock()
	return &entry, nil
}

// DeleteEntry removes the entry remotely first, then from the mirror.
func (s *MealLogStore) DeleteEntry(id string) error {
	if err := s.backend.Delete(mealEntriesCollection, id); err != nil {
		return &RemoteWriteError{Op: "delete meal entry", Err: err}
	}
	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *MealLogStore) Subscribe() error {
	if s.sub != nil {
		return nil
	}
	sub, err := s.backend.Watch(mealEntriesCollection, s.ownerID)
	if err != nil {
		return &RemoteReadError{Op: "subscribe meal entries", Err: err}
	}
	s.sub = sub
	go func() {
		for snap := range sub.C {
			entries := decodeMealEntries(snap)
			s.mu.Lock()
			s.entries = entries
			s.mu.Unlock()
			if s.onSnapshot != nil {
				s.onSnapshot(entries)
			}
		}
	}()
	return nil
}

func (s *MealLogStore) Unsubscribe() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// Entries returns a copy of the current mirror, most recent first.
func (s *MealLogStore) Entries() []models.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MealEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntriesOn returns the entries consumed on the same calendar day as
// date, regardless of time of day. Pure read over the mirror, no I/O.
func (s *MealLogStore) EntriesOn(date time.Time) []models.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MealEntry
	for _, e := range s.entries {
		if sameCalendarDay(e.DateConsumed, date) {
			out = append(out, e)
		}
	}
	return out
}

// EntriesFor narrows EntriesOn to one meal slot.
func (s *MealLogStore) EntriesFor(slot models.MealSlot, date time.Time) []models.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MealEntry
	for _, e := range s.entries {
		if e.MealSlot == slot && sameCalendarDay(e.DateConsumed, date) {
			out = append(out, e)
		}
	}
	return out
}

// DailyTotals sums the nutrient totals of everything consumed on the
// given calendar day. Recomputed from the mirror on every call.
func (s *MealLogStore) DailyTotals(date time.Time) models.DailyTotals {
	return SumEntries(s.EntriesOn(date))
}

// sameCalendarDay compares in ref's location so the comparison is
// stable regardless of the zone the entry was recorded in.
func sameCalendarDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month() && t.Day() == ref.Day()
}

func decodeMealEntries(snap docstore.Snapshot) []models.MealEntry {
	entries := make([]models.MealEntry, 0, len(snap))
	for _, doc := range snap {
		var e models.MealEntry
		if err := json.Unmarshal(doc.Data, &e); err != nil {
			logrus.WithFields(logrus.Fields{
				"collection": mealEntriesCollection,
				"doc_id":     doc.ID,
			}).WithError(err).Warn("dropping malformed meal entry document")
			continue
		}
		e.ID = doc.ID
		entries = append(entries, e)
	}
	return entries
}
