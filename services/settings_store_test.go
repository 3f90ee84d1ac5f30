package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/models"
)

func newSettingsStore(t *testing.T) (*SettingsStore, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	return NewSettingsStore(b, testOwner), b
}

func TestSettingsStore_DefaultsBeforeFirstDocument(t *testing.T) {
	s, _ := newSettingsStore(t)

	p := s.Profile()
	require.Equal(t, 2000.0, p.DailyCalorieGoal)
	require.Equal(t, 150.0, p.DailyProteinGoal)
	require.False(t, p.ReminderEnabled)
	require.Equal(t, "08:00", p.ReminderTime)
	require.Nil(t, p.Weight)
}

func TestSettingsStore_SaveGoals_MergeWrite(t *testing.T) {
	s, b := newSettingsStore(t)

	require.NoError(t, s.SaveReminder(true, 7, 30, "log your meals"))
	require.NoError(t, s.SaveGoals(1800, 120, 200, 30, 60, nil))

	// the reminder fields written earlier survive the goals merge
	b.mu.Lock()
	data := b.docs[usersCollection][testOwner].data
	b.mu.Unlock()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, 1800.0, doc["dailyCalorieGoal"])
	require.Equal(t, true, doc["reminderEnabled"])
	require.Equal(t, "07:30", doc["reminderTime"])
	_, hasWeight := doc["weight"]
	require.False(t, hasWeight)
}

func TestSettingsStore_SaveGoals_Validation(t *testing.T) {
	s, _ := newSettingsStore(t)

	var verr *ValidationError
	require.ErrorAs(t, s.SaveGoals(0, 120, 200, 30, 60, nil), &verr)

	bad := -2.0
	require.ErrorAs(t, s.SaveGoals(1800, 120, 200, 30, 60, &bad), &verr)
}

func TestSettingsStore_SaveReminder_WireFormatRoundTrips(t *testing.T) {
	s, b := newSettingsStore(t)

	require.NoError(t, s.SaveReminder(true, 6, 5, "breakfast time"))

	b.mu.Lock()
	data := b.docs[usersCollection][testOwner].data
	b.mu.Unlock()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "06:05", doc["reminderTime"])
}

func TestSettingsStore_SaveReminder_RejectsBadTime(t *testing.T) {
	s, _ := newSettingsStore(t)

	var verr *ValidationError
	require.ErrorAs(t, s.SaveReminder(true, 24, 0, "x"), &verr)
	require.ErrorAs(t, s.SaveReminder(true, 8, 60, "x"), &verr)
}

func TestSettingsStore_PartialDocumentKeepsOtherFields(t *testing.T) {
	s, b := newSettingsStore(t)
	require.NoError(t, s.Subscribe())

	full := map[string]any{
		"dailyCalorieGoal": 1900.0,
		"dailyProteinGoal": 130.0,
		"reminderEnabled":  true,
		"reminderTime":     "21:15",
		"reminderMessage":  "evening check-in",
	}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, full)}})

	require.Eventually(t, func() bool {
		return s.Profile().DailyCalorieGoal == 1900
	}, time.Second, 5*time.Millisecond)

	// a later partial document only touches the fields it carries
	partial := map[string]any{"dailyCalorieGoal": 1750.0}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, partial)}})

	require.Eventually(t, func() bool {
		return s.Profile().DailyCalorieGoal == 1750
	}, time.Second, 5*time.Millisecond)

	p := s.Profile()
	require.Equal(t, 130.0, p.DailyProteinGoal)
	require.True(t, p.ReminderEnabled)
	require.Equal(t, "21:15", p.ReminderTime)
	require.Equal(t, "evening check-in", p.ReminderMessage)
}

func TestSettingsStore_BadReminderTimeInDocumentIsIgnored(t *testing.T) {
	s, b := newSettingsStore(t)
	require.NoError(t, s.Subscribe())

	doc := map[string]any{"reminderTime": "25:99", "reminderMessage": "late"}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, doc)}})

	require.Eventually(t, func() bool {
		return s.Profile().ReminderMessage == "late"
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "08:00", s.Profile().ReminderTime)
}

func TestSettingsStore_OnChangeDrivesCallback(t *testing.T) {
	s, b := newSettingsStore(t)

	got := make(chan models.GoalProfile, 1)
	s.OnChange(func(p models.GoalProfile) { got <- p })
	require.NoError(t, s.Subscribe())

	doc := map[string]any{"reminderEnabled": true, "reminderTime": "09:45"}
	b.pushRaw(usersCollection, testOwner, docstore.Snapshot{{ID: testOwner, Data: mustJSON(t, doc)}})

	select {
	case p := <-got:
		require.True(t, p.ReminderEnabled)
		require.Equal(t, "09:45", p.ReminderTime)
	case <-time.After(time.Second):
		t.Fatal("no change callback")
	}
}
