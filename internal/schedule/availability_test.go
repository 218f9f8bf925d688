package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNurse(id string) Nurse {
	return Nurse{
		ID:        id,
		Name:      "Nurse Sarah Miller",
		Specialty: "Dialysis Specialist",
		Status:    NurseAvailable,
		Active:    true,
	}
}

func TestEffectiveSlots_SortedCanonically(t *testing.T) {
	s := NewAvailabilityStore()
	n := testNurse("n1")
	n.Availability = map[string][]string{
		"2030-05-20": {"01:00 PM", "08:00 AM", "12:00 PM"},
	}
	s.Upsert(n)

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00 AM", "12:00 PM", "01:00 PM"}, slots)
}

func TestEffectiveSlots_BlockedDateWinsOverAvailability(t *testing.T) {
	s := NewAvailabilityStore()
	n := testNurse("n1")
	n.Availability = map[string][]string{"2030-05-20": {"09:00 AM", "10:00 AM"}}
	n.BlockedDates = []string{"2030-05-20"}
	s.Upsert(n)

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestEffectiveSlots_UnknownNurse(t *testing.T) {
	s := NewAvailabilityStore()
	_, err := s.EffectiveSlots("ghost", "2030-05-20")
	assert.ErrorIs(t, err, ErrNurseNotFound)
}

func TestSetSlots_RejectsUnknownLabel(t *testing.T) {
	s := NewAvailabilityStore()
	s.Upsert(testNurse("n1"))

	err := s.SetSlots("n1", "2030-05-20", []string{"09:00 AM", "05:00 PM"})
	assert.ErrorIs(t, err, ErrInvalidSlotLabel)

	// Store unchanged after the rejected mutation.
	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSetSlots_ReplacesAndNormalizes(t *testing.T) {
	s := NewAvailabilityStore()
	s.Upsert(testNurse("n1"))

	require.NoError(t, s.SetSlots("n1", "2030-05-20", []string{"10:00 AM"}))
	require.NoError(t, s.SetSlots("n1", "2030-05-20", []string{"02:00 PM", "09:00 AM", "09:00 AM"}))

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM", "02:00 PM"}, slots)
}

func TestToggleSlot(t *testing.T) {
	s := NewAvailabilityStore()
	s.Upsert(testNurse("n1"))

	added, err := s.ToggleSlot("n1", "2030-05-20", "09:00 AM")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.ToggleSlot("n1", "2030-05-20", "09:00 AM")
	require.NoError(t, err)
	assert.False(t, added)

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = s.ToggleSlot("n1", "2030-05-20", "half past nine")
	assert.ErrorIs(t, err, ErrInvalidSlotLabel)
}

func TestBlockUnblockDate(t *testing.T) {
	s := NewAvailabilityStore()
	n := testNurse("n1")
	n.Availability = map[string][]string{"2030-05-20": {"09:00 AM"}}
	s.Upsert(n)

	require.NoError(t, s.BlockDate("n1", "2030-05-20"))
	require.NoError(t, s.BlockDate("n1", "2030-05-20")) // idempotent

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Empty(t, slots)

	require.NoError(t, s.UnblockDate("n1", "2030-05-20"))

	slots, err = s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM"}, slots)
}

func TestNurseCopiesDoNotAliasStore(t *testing.T) {
	s := NewAvailabilityStore()
	n := testNurse("n1")
	n.Availability = map[string][]string{"2030-05-20": {"09:00 AM"}}
	s.Upsert(n)

	got, err := s.Nurse("n1")
	require.NoError(t, err)
	got.Availability["2030-05-20"][0] = "04:00 PM"
	got.Availability["2030-05-21"] = []string{"08:00 AM"}

	slots, err := s.EffectiveSlots("n1", "2030-05-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM"}, slots)

	slots, err = s.EffectiveSlots("n1", "2030-05-21")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDeactivateKeepsNurse(t *testing.T) {
	s := NewAvailabilityStore()
	s.Upsert(testNurse("n1"))

	require.NoError(t, s.Deactivate("n1"))

	n, err := s.Nurse("n1")
	require.NoError(t, err)
	assert.False(t, n.Active)
}

func TestLoadReplacesContents(t *testing.T) {
	s := NewAvailabilityStore()
	s.Upsert(testNurse("old"))

	s.Load([]Nurse{testNurse("n1"), testNurse("n2")})

	_, err := s.Nurse("old")
	assert.ErrorIs(t, err, ErrNurseNotFound)
	assert.Len(t, s.Nurses(), 2)
}
