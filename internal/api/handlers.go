package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
)

func createAppointmentHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.NurseID == "" || req.PatientID == "" || req.Date == "" || req.Time == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "nurse_id, patient_id, date and time are required")
			return
		}

		consultation := schedule.ConsultationType(req.ConsultationType)
		if consultation != schedule.ConsultationInPerson && consultation != schedule.ConsultationVirtual {
			writeError(w, http.StatusBadRequest, "invalid_consultation_type", "consultation_type must be In-person or Virtual")
			return
		}

		appt, err := engine.Book(r.Context(), schedule.BookingRequest{
			NurseID:          req.NurseID,
			PatientID:        req.PatientID,
			PatientName:      req.PatientName,
			Date:             req.Date,
			Time:             req.Time,
			Type:             req.Type,
			ConsultationType: consultation,
			Platform:         schedule.MeetingPlatform(req.Platform),
			Notes:            req.Notes,
		})
		if err != nil {
			handleBookingError(w, engine, req.NurseID, req.Date, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := engine.Appointments()

		var resp []AppointmentResponse
		collect := func(a schedule.Appointment) bool {
			resp = append(resp, toAppointmentResponse(a))
			return true
		}

		q := r.URL.Query()
		switch {
		case q.Get("nurse_id") != "":
			store.ListByNurse(q.Get("nurse_id"))(collect)
		case q.Get("patient_id") != "":
			store.ListByPatient(q.Get("patient_id"))(collect)
		case q.Get("date") != "":
			store.ListByDate(q.Get("date"))(collect)
		default:
			for _, a := range store.All() {
				resp = append(resp, toAppointmentResponse(a))
			}
		}

		if resp == nil {
			resp = []AppointmentResponse{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := engine.Appointments().Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(engine *schedule.Engine) http.HandlerFunc {
	return transitionHandler(func(r *http.Request, id, actor string) (schedule.Appointment, error) {
		return engine.Cancel(r.Context(), id, actor)
	})
}

func completeAppointmentHandler(engine *schedule.Engine) http.HandlerFunc {
	return transitionHandler(func(r *http.Request, id, actor string) (schedule.Appointment, error) {
		return engine.Complete(r.Context(), id, actor)
	})
}

func transitionHandler(do func(r *http.Request, id, actor string) (schedule.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional, but if one is sent it has to parse.
		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := do(r, chi.URLParam(r, "id"), req.Actor)
		if err != nil {
			handleTransitionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func reassignAppointmentHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReassignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.NurseID == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "nurse_id is required")
			return
		}

		appt, err := engine.ReassignNurse(r.Context(), chi.URLParam(r, "id"), req.NurseID)
		if err != nil {
			handleReassignError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listNursesHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Nurses())
	}
}

func getAvailabilityHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nurseID := chi.URLParam(r, "id")
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "missing_date", "date query parameter is required")
			return
		}

		slots, err := engine.EffectiveSlots(nurseID, date)
		if err != nil {
			writeError(w, http.StatusNotFound, "nurse_not_found", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{NurseID: nurseID, Date: date, Slots: slots})
	}
}

func setAvailabilityHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetSlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		nurseID := chi.URLParam(r, "id")
		date := chi.URLParam(r, "date")

		if err := engine.PublishAvailability(r.Context(), nurseID, date, req.Slots); err != nil {
			handleAvailabilityError(w, err)
			return
		}

		slots, err := engine.EffectiveSlots(nurseID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, AvailabilityResponse{NurseID: nurseID, Date: date, Slots: slots})
	}
}

func toggleSlotHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ToggleSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		nurseID := chi.URLParam(r, "id")
		date := chi.URLParam(r, "date")

		if _, err := engine.ToggleSlot(r.Context(), nurseID, date, req.Time); err != nil {
			handleAvailabilityError(w, err)
			return
		}

		slots, err := engine.EffectiveSlots(nurseID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, AvailabilityResponse{NurseID: nurseID, Date: date, Slots: slots})
	}
}

func blockDateHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BlockDateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Date == "" {
			writeError(w, http.StatusBadRequest, "missing_date", "date is required")
			return
		}

		if err := engine.BlockDate(r.Context(), chi.URLParam(r, "id"), req.Date); err != nil {
			handleAvailabilityError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unblockDateHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.UnblockDate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date")); err != nil {
			handleAvailabilityError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listNotificationsHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		emitter := engine.Notifications()

		audience := r.URL.Query().Get("audience")
		if audience == "" {
			writeJSON(w, http.StatusOK, emitter.All())
			return
		}

		records := []schedule.Notification{}
		emitter.ByAudience(schedule.Audience(audience))(func(n schedule.Notification) bool {
			records = append(records, n)
			return true
		})
		writeJSON(w, http.StatusOK, records)
	}
}

func markNotificationReadHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !engine.MarkNotificationRead(r.Context(), chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "notification_not_found", "no notification with that id")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleBookingError maps booking failures to status codes. Slot failures
// embed a fresh availability read so the caller never retries on stale data.
func handleBookingError(w http.ResponseWriter, engine *schedule.Engine, nurseID, date string, err error) {
	freshSlots := func() []string {
		slots, readErr := engine.EffectiveSlots(nurseID, date)
		if readErr != nil {
			return nil
		}
		return slots
	}

	switch {
	case errors.Is(err, schedule.ErrNurseNotFound):
		writeError(w, http.StatusNotFound, "nurse_not_found", err.Error())
	case errors.Is(err, schedule.ErrNurseInactive):
		writeError(w, http.StatusConflict, "nurse_inactive", err.Error())
	case errors.Is(err, schedule.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, schedule.ErrDateInPast):
		writeError(w, http.StatusUnprocessableEntity, "date_in_past", err.Error())
	case errors.Is(err, schedule.ErrSlotUnavailable):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:          "slot_unavailable",
			Details:        err.Error(),
			AvailableSlots: freshSlots(),
		})
	case errors.Is(err, schedule.ErrSlotConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:          "slot_conflict",
			Details:        "another booking just took this slot, pick another",
			AvailableSlots: freshSlots(),
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleReassignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrNurseNotFound):
		writeError(w, http.StatusNotFound, "nurse_not_found", err.Error())
	case errors.Is(err, schedule.ErrNurseInactive):
		writeError(w, http.StatusConflict, "nurse_inactive", err.Error())
	case errors.Is(err, schedule.ErrSlotUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "slot_unavailable", err.Error())
	case errors.Is(err, schedule.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNurseNotFound):
		writeError(w, http.StatusNotFound, "nurse_not_found", err.Error())
	case errors.Is(err, schedule.ErrInvalidSlotLabel):
		writeError(w, http.StatusUnprocessableEntity, "invalid_slot_label", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
