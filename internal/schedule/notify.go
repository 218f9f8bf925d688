package schedule

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Emitter produces role-targeted notification records as a side effect of
// scheduling operations and retains them for the notification center to
// consume.
type Emitter struct {
	mu      sync.RWMutex
	records []Notification
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// BookingFanOut produces the three audit records for a successful booking:
// a confirmation to the patient, an assignment alert to the nurse and an
// audit alert to the admin roster.
func (e *Emitter) BookingFanOut(a Appointment) []Notification {
	ts := time.Now().UTC()

	records := []Notification{
		{
			ID:          uuid.NewString(),
			Audience:    AudiencePatient,
			RecipientID: a.PatientID,
			Type:        NotificationAppointment,
			Title:       "Booking Confirmed",
			Message: fmt.Sprintf("Your appointment with %s is scheduled for %s at %s. Confirmation email sent.",
				a.NurseName, a.Date, a.Time),
			Timestamp: ts,
			ActionURL: "/dashboard",
		},
		{
			ID:          uuid.NewString(),
			Audience:    AudienceNurse,
			RecipientID: a.NurseID,
			Type:        NotificationAppointment,
			Title:       "New Clinical Assignment",
			Message: fmt.Sprintf("Urgent: Patient %s has booked a %s session with you for %s. Check your schedule.",
				a.PatientName, a.Type, a.Date),
			Timestamp: ts,
			ActionURL: "/dashboard",
		},
		{
			ID:       uuid.NewString(),
			Audience: AudienceAdmin,
			Type:     NotificationSecurity,
			Title:    "System Roster Update",
			Message: fmt.Sprintf("Audit Alert: Booking established between %s and %s. HIPAA/POPIA compliant emails dispatched to all parties.",
				a.PatientName, a.NurseName),
			Timestamp: ts,
			ActionURL: "/admin/appointments",
		},
	}

	e.mu.Lock()
	e.records = append(e.records, records...)
	e.mu.Unlock()

	return records
}

// ByAudience returns a restartable sequence of notification snapshots for
// one audience, newest last.
func (e *Emitter) ByAudience(audience Audience) iter.Seq[Notification] {
	return func(yield func(Notification) bool) {
		e.mu.RLock()
		matches := make([]Notification, 0)
		for _, n := range e.records {
			if n.Audience == audience {
				matches = append(matches, n)
			}
		}
		e.mu.RUnlock()

		for _, n := range matches {
			if !yield(n) {
				return
			}
		}
	}
}

// All returns copies of every record, for persistence and listings.
func (e *Emitter) All() []Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Notification(nil), e.records...)
}

// MarkRead flags a record as read.
func (e *Emitter) MarkRead(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.records {
		if e.records[i].ID == id {
			e.records[i].Read = true
			return true
		}
	}
	return false
}

// Load replaces emitter contents from a persisted snapshot.
func (e *Emitter) Load(records []Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append([]Notification(nil), records...)
}
