package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christian6134/byte-buddy/docstore"
)

func TestSessionManager_BeginIsIdempotent(t *testing.T) {
	b := newFakeBackend()
	m := NewSessionManager(b, nil, nil)

	st1, err := m.Begin(testOwner)
	require.NoError(t, err)
	st2, err := m.Begin(testOwner)
	require.NoError(t, err)
	require.Same(t, st1, st2)
}

func TestSessionManager_EndWithoutSessionIsSafe(t *testing.T) {
	m := NewSessionManager(newFakeBackend(), nil, nil)
	m.End("nobody")
}

func TestSessionManager_BeginFailsWhenWatchFails(t *testing.T) {
	b := newFakeBackend()
	b.failWatch = true
	m := NewSessionManager(b, nil, nil)

	_, err := m.Begin(testOwner)
	require.Error(t, err)

	// a later attempt with a healthy backend succeeds
	b.failWatch = false
	_, err = m.Begin(testOwner)
	require.NoError(t, err)
}

func TestSessionManager_ReminderSettingsDriveScheduler(t *testing.T) {
	b := newFakeBackend()
	sched := NewReminderScheduler(nil, nil)
	m := NewSessionManager(b, nil, sched)

	_, err := m.Begin(testOwner)
	require.NoError(t, err)

	enabled := map[string]any{"reminderEnabled": true, "reminderTime": "07:15", "reminderMessage": "rise and dine"}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, enabled)}})

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		r, ok := sched.reminders[testOwner]
		return ok && r.hour == 7 && r.minute == 15 && r.message == "rise and dine"
	}, time.Second, 5*time.Millisecond)

	disabled := map[string]any{"reminderEnabled": false}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, disabled)}})

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		_, ok := sched.reminders[testOwner]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSessionManager_EndCancelsReminder(t *testing.T) {
	b := newFakeBackend()
	sched := NewReminderScheduler(nil, nil)
	m := NewSessionManager(b, nil, sched)

	_, err := m.Begin(testOwner)
	require.NoError(t, err)

	enabled := map[string]any{"reminderEnabled": true, "reminderTime": "07:15"}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, enabled)}})
	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		_, ok := sched.reminders[testOwner]
		return ok
	}, time.Second, 5*time.Millisecond)

	m.End(testOwner)
	sched.mu.Lock()
	_, ok := sched.reminders[testOwner]
	sched.mu.Unlock()
	require.False(t, ok)
}
