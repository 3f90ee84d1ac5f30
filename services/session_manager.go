package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/models"
	"github.com/christian6134/byte-buddy/utils"
)

// SessionStores are the per-user stores backing one active session.
type SessionStores struct {
	Foods    *FoodStore
	Meals    *MealLogStore
	Settings *SettingsStore
}

// SessionManager owns store lifecycles: stores are constructed and
// subscribed when a session begins and torn down when it ends, instead
// of each store watching auth state on its own. Snapshot callbacks are
// wired to the realtime hub, and reminder settings changes drive the
// scheduler.
type SessionManager struct {
	backend   docstore.Backend
	hub       *RealtimeHub
	scheduler *ReminderScheduler

	mu       sync.Mutex
	sessions map[string]*SessionStores
}

func NewSessionManager(backend docstore.Backend, hub *RealtimeHub, scheduler *ReminderScheduler) *SessionManager {
	return &SessionManager{
		backend:   backend,
		hub:       hub,
		scheduler: scheduler,
		sessions:  make(map[string]*SessionStores),
	}
}

// Begin returns the user's stores, creating and subscribing them on
// first use. Idempotent per user.
func (m *SessionManager) Begin(userID string) (*SessionStores, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.sessions[userID]; ok {
		return st, nil
	}

	st := &SessionStores{
		Foods:    NewFoodStore(m.backend, userID),
		Meals:    NewMealLogStore(m.backend, userID),
		Settings: NewSettingsStore(m.backend, userID),
	}

	if m.hub != nil {
		st.Foods.OnSnapshot(func(foods []models.Food) {
			m.hub.BroadcastEvent(userID, "foods.snapshot", foods)
		})
		st.Meals.OnSnapshot(func(entries []models.MealEntry) {
			m.hub.BroadcastEvent(userID, "mealEntries.snapshot", entries)
		})
	}
	st.Settings.OnChange(func(p models.GoalProfile) {
		if m.hub != nil {
			m.hub.BroadcastEvent(userID, "profile.snapshot", p)
		}
		m.applyReminder(userID, p)
	})

	if err := st.Foods.Subscribe(); err != nil {
		return nil, err
	}
	if err := st.Meals.Subscribe(); err != nil {
		st.Foods.Unsubscribe()
		return nil, err
	}
	if err := st.Settings.Subscribe(); err != nil {
		st.Foods.Unsubscribe()
		st.Meals.Unsubscribe()
		return nil, err
	}

	m.sessions[userID] = st
	logrus.WithField("user_id", userID).Info("session stores started")
	return st, nil
}

// End tears the user's stores down. Safe to call for a user with no
// session.
func (m *SessionManager) End(userID string) {
	m.mu.Lock()
	st, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return
	}

	st.Foods.Unsubscribe()
	st.Meals.Unsubscribe()
	st.Settings.Unsubscribe()
	if m.scheduler != nil {
		m.scheduler.Cancel(userID)
	}
	logrus.WithField("user_id", userID).Info("session stores stopped")
}

func (m *SessionManager) applyReminder(userID string, p models.GoalProfile) {
	if m.scheduler == nil {
		return
	}
	if !p.ReminderEnabled {
		m.scheduler.Cancel(userID)
		return
	}
	hour, minute, err := utils.ParseClock(p.ReminderTime)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("unusable reminder time, not scheduling")
		return
	}
	m.scheduler.Schedule(userID, hour, minute, p.ReminderMessage)
}
