package schedule

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AppointmentStore holds booked appointments. The (nurseID, date, time) key
// of every upcoming appointment is indexed so that the double-booking check
// is a single map lookup and insert+check happens under one lock.
type AppointmentStore struct {
	mu       sync.RWMutex
	byID     map[string]*Appointment
	order    []string          // insertion order of ids
	upcoming map[string]string // slot key -> appointment id, Upcoming only
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		byID:     make(map[string]*Appointment),
		upcoming: make(map[string]string),
	}
}

func slotKey(nurseID, date, timeLabel string) string {
	return fmt.Sprintf("%s|%s|%s", nurseID, date, timeLabel)
}

// Insert assigns a fresh id, forces status to Upcoming and appends the
// appointment. The double-booking check is the final guard here; all other
// validation belongs to the engine.
func (s *AppointmentStore) Insert(a Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(a.NurseID, a.Date, a.Time)
	if _, taken := s.upcoming[key]; taken {
		return Appointment{}, ErrSlotConflict
	}

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.Status = StatusUpcoming
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := a
	s.byID[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	s.upcoming[key] = stored.ID

	return a, nil
}

// Transition moves an upcoming appointment to Completed or Cancelled. Any
// other transition fails with ErrInvalidTransition; terminal states are
// immutable.
func (s *AppointmentStore) Transition(id string, newStatus AppointmentStatus) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	if a.Status != StatusUpcoming {
		return Appointment{}, ErrInvalidTransition
	}
	if newStatus != StatusCompleted && newStatus != StatusCancelled {
		return Appointment{}, ErrInvalidTransition
	}

	a.Status = newStatus
	a.UpdatedAt = time.Now().UTC()
	delete(s.upcoming, slotKey(a.NurseID, a.Date, a.Time))

	return *a, nil
}

// Reassign moves an upcoming appointment to another nurse, atomically
// swapping the slot index keys. Fails with ErrSlotConflict when the new
// nurse already has an upcoming appointment at that date and time, leaving
// the appointment untouched.
func (s *AppointmentStore) Reassign(id, newNurseID, newNurseName string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	if a.Status != StatusUpcoming {
		return Appointment{}, ErrInvalidTransition
	}

	newKey := slotKey(newNurseID, a.Date, a.Time)
	if holder, taken := s.upcoming[newKey]; taken && holder != id {
		return Appointment{}, ErrSlotConflict
	}

	delete(s.upcoming, slotKey(a.NurseID, a.Date, a.Time))
	a.NurseID = newNurseID
	a.NurseName = newNurseName
	a.UpdatedAt = time.Now().UTC()
	s.upcoming[newKey] = a.ID

	return *a, nil
}

// Get returns a copy of the appointment.
func (s *AppointmentStore) Get(id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	return *a, nil
}

// HasUpcoming reports whether an upcoming appointment holds the slot.
func (s *AppointmentStore) HasUpcoming(nurseID, date, timeLabel string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.upcoming[slotKey(nurseID, date, timeLabel)]
	return ok
}

// ListByNurse returns a restartable sequence of appointment snapshots for
// one nurse, in insertion order.
func (s *AppointmentStore) ListByNurse(nurseID string) iter.Seq[Appointment] {
	return s.filtered(func(a *Appointment) bool { return a.NurseID == nurseID })
}

// ListByPatient returns a restartable sequence of appointment snapshots for
// one patient.
func (s *AppointmentStore) ListByPatient(patientID string) iter.Seq[Appointment] {
	return s.filtered(func(a *Appointment) bool { return a.PatientID == patientID })
}

// ListByDate returns a restartable sequence of appointment snapshots for a
// date key.
func (s *AppointmentStore) ListByDate(date string) iter.Seq[Appointment] {
	return s.filtered(func(a *Appointment) bool { return a.Date == date })
}

// All returns copies of every appointment in insertion order, for
// persistence and admin listings.
func (s *AppointmentStore) All() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

func (s *AppointmentStore) filtered(keep func(*Appointment) bool) iter.Seq[Appointment] {
	return func(yield func(Appointment) bool) {
		// Snapshot under the read lock so the caller iterates copies and
		// can never alias live store state.
		s.mu.RLock()
		matches := make([]Appointment, 0)
		for _, id := range s.order {
			if a := s.byID[id]; keep(a) {
				matches = append(matches, *a)
			}
		}
		s.mu.RUnlock()

		for _, a := range matches {
			if !yield(a) {
				return
			}
		}
	}
}

// Load replaces store contents from a persisted snapshot, rebuilding the
// upcoming slot index.
func (s *AppointmentStore) Load(appointments []Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*Appointment, len(appointments))
	s.order = make([]string, 0, len(appointments))
	s.upcoming = make(map[string]string)

	for i := range appointments {
		a := appointments[i]
		s.byID[a.ID] = &a
		s.order = append(s.order, a.ID)
		if a.Status == StatusUpcoming {
			s.upcoming[slotKey(a.NurseID, a.Date, a.Time)] = a.ID
		}
	}
}
