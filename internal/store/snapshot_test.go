package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
)

func TestLoad_FreshDirectoryIsEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Nurses)
	assert.Empty(t, snap.Appointments)
	assert.Empty(t, snap.Notifications)
}

func TestFlushAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	snap := schedule.Snapshot{
		Nurses: []schedule.Nurse{{
			ID:        "n1",
			Name:      "Nurse Sarah Miller",
			Specialty: "Nephrology",
			Status:    schedule.NurseAvailable,
			Active:    true,
			Availability: map[string][]string{
				"2030-05-20": {"09:00 AM", "11:00 AM"},
			},
			BlockedDates: []string{"2030-05-21"},
		}},
		Appointments: []schedule.Appointment{{
			ID:      "a1",
			NurseID: "n1",
			Date:    "2030-05-20",
			Time:    "09:00 AM",
			Status:  schedule.StatusUpcoming,
		}},
		Notifications: []schedule.Notification{{
			ID:       "nt1",
			Audience: schedule.AudiencePatient,
			Type:     schedule.NotificationAppointment,
			Title:    "Booking Confirmed",
		}},
	}
	require.NoError(t, s.Flush(ctx, snap))

	for _, name := range []string{"nurses.json", "appointments.json", "notifications.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Nurses, got.Nurses)
	assert.Equal(t, snap.Appointments, got.Appointments)
	assert.Equal(t, snap.Notifications, got.Notifications)
}

func TestFlush_ReplacesPreviousSnapshot(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Flush(ctx, schedule.Snapshot{
		Nurses: []schedule.Nurse{{ID: "n1"}, {ID: "n2"}},
	}))
	require.NoError(t, s.Flush(ctx, schedule.Snapshot{
		Nurses: []schedule.Nurse{{ID: "n3"}},
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Nurses, 1)
	assert.Equal(t, "n3", got.Nurses[0].ID)
}

func TestLoad_CorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "appointments.json"), []byte("{not json"), 0o644))

	_, err = s.Load(context.Background())
	assert.ErrorContains(t, err, "appointments.json")
}

func TestReady(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.NoError(t, s.Ready())

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, s.Ready())
}
