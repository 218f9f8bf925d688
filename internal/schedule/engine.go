package schedule

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/renalhub/nurse-scheduling/internal/slotlock"
)

const dateLayout = "2006-01-02"

// Persister flushes the three collections after each successful mutation.
// A nil Persister keeps the engine purely in-memory.
type Persister interface {
	Flush(ctx context.Context, snap Snapshot) error
}

// BookingRequest is the tuple collected by the booking flow.
type BookingRequest struct {
	NurseID          string
	PatientID        string
	PatientName      string
	Date             string // YYYY-MM-DD
	Time             string // one of the clinic slot labels
	Type             string // free-text category, e.g. "Check-up"
	ConsultationType ConsultationType
	Platform         MeetingPlatform
	Notes            string
}

// Engine owns the invariant-checking over the availability and appointment
// stores. It is the only component callers should mutate schedules through.
type Engine struct {
	avail   *AvailabilityStore
	appts   *AppointmentStore
	emitter *Emitter
	locker  slotlock.Locker
	persist Persister
	log     zerolog.Logger

	now func() time.Time
}

func NewEngine(avail *AvailabilityStore, appts *AppointmentStore, emitter *Emitter, locker slotlock.Locker, persist Persister, log zerolog.Logger) *Engine {
	return &Engine{
		avail:   avail,
		appts:   appts,
		emitter: emitter,
		locker:  locker,
		persist: persist,
		log:     log,
		now:     time.Now,
	}
}

// Book reserves a slot for a patient. The availability check and the insert
// run inside the per-slot critical section, so a check-then-act race between
// two requests for the same (nurse, date, time) cannot both succeed.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (Appointment, error) {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return Appointment{}, ErrInvalidDate
	}
	if req.Date < e.now().Format(dateLayout) {
		return Appointment{}, ErrDateInPast
	}

	nurse, err := e.avail.Nurse(req.NurseID)
	if err != nil {
		return Appointment{}, err
	}
	if !nurse.Active {
		return Appointment{}, ErrNurseInactive
	}

	var created Appointment

	err = e.locker.WithSlotLock(ctx, slotKey(req.NurseID, req.Date, req.Time), func(ctx context.Context) error {
		slots, err := e.avail.EffectiveSlots(req.NurseID, req.Date)
		if err != nil {
			return err
		}
		if !contains(slots, req.Time) {
			return ErrSlotUnavailable
		}

		appt := Appointment{
			NurseID:          req.NurseID,
			NurseName:        nurse.Name,
			PatientID:        req.PatientID,
			PatientName:      req.PatientName,
			Date:             req.Date,
			Time:             req.Time,
			Type:             req.Type,
			ConsultationType: req.ConsultationType,
			Notes:            req.Notes,
		}
		if req.ConsultationType == ConsultationVirtual {
			appt.Platform = req.Platform
			appt.VideoRoomID = newVideoRoomID()
		}

		created, err = e.appts.Insert(appt)
		return err
	})
	if err != nil {
		return Appointment{}, err
	}

	e.emitter.BookingFanOut(created)
	e.flush(ctx, "book")

	e.log.Info().
		Str("appointment_id", created.ID).
		Str("nurse_id", created.NurseID).
		Str("date", created.Date).
		Str("time", created.Time).
		Msg("appointment booked")

	return created, nil
}

// Cancel transitions an appointment to Cancelled. The slot becomes bookable
// again because the conflict check only considers upcoming appointments.
func (e *Engine) Cancel(ctx context.Context, appointmentID, actor string) (Appointment, error) {
	appt, err := e.appts.Transition(appointmentID, StatusCancelled)
	if err != nil {
		return Appointment{}, err
	}

	e.flush(ctx, "cancel")
	e.log.Info().
		Str("appointment_id", appointmentID).
		Str("actor", actor).
		Msg("appointment cancelled")

	return appt, nil
}

// Complete transitions an appointment to Completed.
func (e *Engine) Complete(ctx context.Context, appointmentID, actor string) (Appointment, error) {
	appt, err := e.appts.Transition(appointmentID, StatusCompleted)
	if err != nil {
		return Appointment{}, err
	}

	e.flush(ctx, "complete")
	e.log.Info().
		Str("appointment_id", appointmentID).
		Str("actor", actor).
		Msg("appointment completed")

	return appt, nil
}

// ReassignNurse moves an upcoming appointment to another nurse after
// re-running the full booking validation against the new nurse. On failure
// the original appointment is untouched.
func (e *Engine) ReassignNurse(ctx context.Context, appointmentID, newNurseID string) (Appointment, error) {
	appt, err := e.appts.Get(appointmentID)
	if err != nil {
		return Appointment{}, err
	}

	nurse, err := e.avail.Nurse(newNurseID)
	if err != nil {
		return Appointment{}, err
	}
	if !nurse.Active {
		return Appointment{}, ErrNurseInactive
	}

	var moved Appointment

	err = e.locker.WithSlotLock(ctx, slotKey(newNurseID, appt.Date, appt.Time), func(ctx context.Context) error {
		slots, err := e.avail.EffectiveSlots(newNurseID, appt.Date)
		if err != nil {
			return err
		}
		if !contains(slots, appt.Time) {
			return ErrSlotUnavailable
		}

		moved, err = e.appts.Reassign(appointmentID, newNurseID, nurse.Name)
		return err
	})
	if err != nil {
		return Appointment{}, err
	}

	e.flush(ctx, "reassign")
	e.log.Info().
		Str("appointment_id", appointmentID).
		Str("nurse_id", newNurseID).
		Msg("appointment reassigned")

	return moved, nil
}

// PublishAvailability commits a day's slot set for patient visibility.
func (e *Engine) PublishAvailability(ctx context.Context, nurseID, date string, slots []string) error {
	if err := e.avail.SetSlots(nurseID, date, slots); err != nil {
		return err
	}
	e.flush(ctx, "publish_availability")
	return nil
}

// ToggleSlot flips a single slot in a nurse's day. Removing a slot under an
// existing upcoming appointment is allowed and does not cancel it.
func (e *Engine) ToggleSlot(ctx context.Context, nurseID, date, label string) (bool, error) {
	added, err := e.avail.ToggleSlot(nurseID, date, label)
	if err != nil {
		return false, err
	}
	e.flush(ctx, "toggle_slot")
	return added, nil
}

// BlockDate soft-blocks a date: new bookings rejected, existing kept.
func (e *Engine) BlockDate(ctx context.Context, nurseID, date string) error {
	if err := e.avail.BlockDate(nurseID, date); err != nil {
		return err
	}
	e.flush(ctx, "block_date")
	return nil
}

func (e *Engine) UnblockDate(ctx context.Context, nurseID, date string) error {
	if err := e.avail.UnblockDate(nurseID, date); err != nil {
		return err
	}
	e.flush(ctx, "unblock_date")
	return nil
}

// SetNurseStatus updates presence; used by the presence simulator.
func (e *Engine) SetNurseStatus(ctx context.Context, nurseID string, status NurseStatus) error {
	if err := e.avail.SetStatus(nurseID, status); err != nil {
		return err
	}
	e.flush(ctx, "set_status")
	return nil
}

// OnboardNurse registers a nurse profile.
func (e *Engine) OnboardNurse(ctx context.Context, n Nurse) {
	e.avail.Upsert(n)
	e.flush(ctx, "onboard_nurse")
}

// EffectiveSlots is a fresh read of a nurse's bookable slots, the view a
// booking client must re-surface after any failure.
func (e *Engine) EffectiveSlots(nurseID, date string) ([]string, error) {
	return e.avail.EffectiveSlots(nurseID, date)
}

// Nurses lists nurse profiles.
func (e *Engine) Nurses() []Nurse {
	return e.avail.Nurses()
}

// Appointments exposes read access to the appointment store.
func (e *Engine) Appointments() *AppointmentStore {
	return e.appts
}

// Notifications exposes read access to emitted records.
func (e *Engine) Notifications() *Emitter {
	return e.emitter
}

// MarkNotificationRead flags a record as read and reports whether it exists.
// Read flags are part of the persisted state, so this flushes like any other
// mutation.
func (e *Engine) MarkNotificationRead(ctx context.Context, id string) bool {
	if !e.emitter.MarkRead(id) {
		return false
	}
	e.flush(ctx, "mark_notification_read")
	return true
}

// Load restores engine state from a persisted snapshot.
func (e *Engine) Load(snap Snapshot) {
	e.avail.Load(snap.Nurses)
	e.appts.Load(snap.Appointments)
	e.emitter.Load(snap.Notifications)
}

func (e *Engine) flush(ctx context.Context, op string) {
	if e.persist == nil {
		return
	}

	snap := Snapshot{
		Nurses:        e.avail.Nurses(),
		Appointments:  e.appts.All(),
		Notifications: e.emitter.All(),
	}
	if err := e.persist.Flush(ctx, snap); err != nil {
		// The in-memory mutation already succeeded; a flush failure must not
		// undo it or fail the caller.
		e.log.Error().Err(err).Str("op", op).Msg("snapshot flush failed")
	}
}

func contains(slots []string, label string) bool {
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}

var roomLetters = []rune("abcdefghijklmnopqrstuvwxyz")

// newVideoRoomID returns a meet-style room code like "abc-defg-hij".
func newVideoRoomID() string {
	var b strings.Builder
	for i, n := range []int{3, 4, 3} {
		if i > 0 {
			b.WriteByte('-')
		}
		for j := 0; j < n; j++ {
			b.WriteRune(roomLetters[rand.Intn(len(roomLetters))])
		}
	}
	return b.String()
}
