package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const reminderTitle = "Daily Reminder"

type reminderEntry struct {
	hour    int
	minute  int
	message string
	// calendar day ("2006-01-02") the reminder last fired on, so one
	// registration fires at most once per day
	lastFired string
}

// ReminderScheduler keeps at most one repeating daily reminder per
// user. Scheduling again replaces the previous registration; Cancel
// removes it and is safe to call any number of times.
//
// Delivery fans out over the realtime hub and, when available, SNS push
// to the user's enabled devices.
type ReminderScheduler struct {
	hub  *RealtimeHub
	push *PushService // optional

	mu        sync.Mutex
	reminders map[string]*reminderEntry

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewReminderScheduler(hub *RealtimeHub, push *PushService) *ReminderScheduler {
	return &ReminderScheduler{
		hub:       hub,
		push:      push,
		reminders: make(map[string]*reminderEntry),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	go func() {
		t := time.NewTicker(20 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				s.fireDue(s.now())
			}
		}
	}()
}

func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Schedule registers the user's daily reminder, replacing any previous
// one.
func (s *ReminderScheduler) Schedule(userID string, hour, minute int, message string) {
	s.mu.Lock()
	s.reminders[userID] = &reminderEntry{hour: hour, minute: minute, message: message}
	s.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"hour":    hour,
		"minute":  minute,
	}).Info("reminder scheduled")
}

// Cancel removes the user's reminder, if any.
func (s *ReminderScheduler) Cancel(userID string) {
	s.mu.Lock()
	_, had := s.reminders[userID]
	delete(s.reminders, userID)
	s.mu.Unlock()
	if had {
		logrus.WithField("user_id", userID).Info("reminder cancelled")
	}
}

func (s *ReminderScheduler) fireDue(now time.Time) {
	day := now.Format("2006-01-02")

	type due struct {
		userID  string
		message string
	}
	var fire []due

	s.mu.Lock()
	for uid, r := range s.reminders {
		if now.Hour() == r.hour && now.Minute() == r.minute && r.lastFired != day {
			r.lastFired = day
			fire = append(fire, due{userID: uid, message: r.message})
		}
	}
	s.mu.Unlock()

	for _, d := range fire {
		logrus.WithField("user_id", d.userID).Info("reminder fired")
		if s.hub != nil {
			s.hub.BroadcastEvent(d.userID, "reminder", map[string]string{
				"title":   reminderTitle,
				"message": d.message,
			})
		}
		if s.push != nil {
			s.push.PushToUser(d.userID, reminderTitle, d.message, map[string]string{"type": "reminder"})
		}
	}
}
