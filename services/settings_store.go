package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/models"
	"github.com/christian6134/byte-buddy/utils"
)

const usersCollection = "users"

// SettingsStore mirrors the single per-user goal/reminder document
// (document id = owner id). Fields are written independently, so a
// partial document only updates the fields it carries; everything else
// keeps its last-known value.
type SettingsStore struct {
	backend docstore.Backend
	ownerID string

	mu      sync.RWMutex
	profile models.GoalProfile

	sub      *docstore.Subscription
	onChange func(models.GoalProfile)
}

func NewSettingsStore(backend docstore.Backend, ownerID string) *SettingsStore {
	return &SettingsStore{
		backend: backend,
		ownerID: ownerID,
		profile: models.DefaultGoalProfile(),
	}
}

func (s *SettingsStore) OnChange(fn func(models.GoalProfile)) {
	s.onChange = fn
}

// SaveGoals merge-writes the numeric targets. Weight is optional; when
// nil the stored weight is left untouched.
func (s *SettingsStore) SaveGoals(calorie, protein, carb, sugar, fat float64, weight *float64) error {
	if calorie <= 0 || protein <= 0 || carb <= 0 || sugar <= 0 || fat <= 0 {
		return &ValidationError{Field: "goals", Reason: "all targets must be greater than zero"}
	}
	if weight != nil && *weight <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be greater than zero"}
	}

	fields := map[string]any{
		"dailyCalorieGoal": calorie,
		"dailyProteinGoal": protein,
		"dailyCarbGoal":    carb,
		"dailySugarGoal":   sugar,
		"dailyFatGoal":     fat,
	}
	if weight != nil {
		fields["weight"] = *weight
	}
	if err := s.backend.Merge(usersCollection, s.ownerID, s.ownerID, time.Now(), fields); err != nil {
		return &RemoteWriteError{Op: "save goals", Err: err}
	}
	return nil
}

// SaveReminder merge-writes the reminder settings. The time is stored
// as a fixed "HH:MM" 24-hour string; that format is the wire contract
// and must round-trip exactly.
func (s *SettingsStore) SaveReminder(enabled bool, hour, minute int, message string) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return &ValidationError{Field: "time", Reason: "must be a valid hour and minute of day"}
	}

	fields := map[string]any{
		"reminderEnabled": enabled,
		"reminderTime":    utils.FormatClock(hour, minute),
		"reminderMessage": message,
	}
	if err := s.backend.Merge(usersCollection, s.ownerID, s.ownerID, time.Now(), fields); err != nil {
		return &RemoteWriteError{Op: "save reminder", Err: err}
	}
	return nil
}

func (s *SettingsStore) Subscribe() error {
	if s.sub != nil {
		return nil
	}
	sub, err := s.backend.Watch(usersCollection, s.ownerID)
	if err != nil {
		return &RemoteReadError{Op: "subscribe settings", Err: err}
	}
	s.sub = sub
	go func() {
		for snap := range sub.C {
			for _, doc := range snap {
				if doc.ID != s.ownerID {
					continue
				}
				s.apply(doc.Data)
			}
		}
	}()
	return nil
}

func (s *SettingsStore) Unsubscribe() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

func (s *SettingsStore) Profile() models.GoalProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// apply folds one document into the mirror field by field. Fields the
// document does not carry, or carries with the wrong type, keep their
// previous value.
func (s *SettingsStore) apply(data []byte) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		logrus.WithFields(logrus.Fields{
			"collection": usersCollection,
			"owner_id":   s.ownerID,
		}).WithError(err).Warn("dropping malformed settings document")
		return
	}

	s.mu.Lock()
	if v, ok := doc["dailyCalorieGoal"].(float64); ok {
		s.profile.DailyCalorieGoal = v
	}
	if v, ok := doc["dailyProteinGoal"].(float64); ok {
		s.profile.DailyProteinGoal = v
	}
	if v, ok := doc["dailyCarbGoal"].(float64); ok {
		s.profile.DailyCarbGoal = v
	}
	if v, ok := doc["dailySugarGoal"].(float64); ok {
		s.profile.DailySugarGoal = v
	}
	if v, ok := doc["dailyFatGoal"].(float64); ok {
		s.profile.DailyFatGoal = v
	}
	if v, ok := doc["weight"].(float64); ok {
		s.profile.Weight = &v
	}
	if v, ok := doc["reminderEnabled"].(bool); ok {
		s.profile.ReminderEnabled = v
	}
	if v, ok := doc["reminderTime"].(string); ok {
		if _, _, err := utils.ParseClock(v); err == nil {
			s.profile.ReminderTime = v
		}
	}
	if v, ok := doc["reminderMessage"].(string); ok {
		s.profile.ReminderMessage = v
	}
	profile := s.profile
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(profile)
	}
}
