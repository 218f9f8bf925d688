package api

import (
	"time"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
)

type BookAppointmentRequest struct {
	NurseID          string `json:"nurse_id"`
	PatientID        string `json:"patient_id"`
	PatientName      string `json:"patient_name"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Type             string `json:"type"`
	ConsultationType string `json:"consultation_type"`
	Platform         string `json:"platform,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID               string    `json:"id"`
	NurseID          string    `json:"nurse_id"`
	NurseName        string    `json:"nurse_name"`
	PatientID        string    `json:"patient_id"`
	PatientName      string    `json:"patient_name"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Type             string    `json:"type"`
	ConsultationType string    `json:"consultation_type"`
	Platform         string    `json:"platform,omitempty"`
	VideoRoomID      string    `json:"video_room_id,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAppointmentResponse(a schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:               a.ID,
		NurseID:          a.NurseID,
		NurseName:        a.NurseName,
		PatientID:        a.PatientID,
		PatientName:      a.PatientName,
		Date:             a.Date,
		Time:             a.Time,
		Type:             a.Type,
		ConsultationType: string(a.ConsultationType),
		Platform:         string(a.Platform),
		VideoRoomID:      a.VideoRoomID,
		Notes:            a.Notes,
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt,
	}
}

type TransitionRequest struct {
	Actor string `json:"actor"`
}

type ReassignRequest struct {
	NurseID string `json:"nurse_id"`
}

type SetSlotsRequest struct {
	Slots []string `json:"slots"`
}

type ToggleSlotRequest struct {
	Time string `json:"time"`
}

type BlockDateRequest struct {
	Date string `json:"date"`
}

type AvailabilityResponse struct {
	NurseID string   `json:"nurse_id"`
	Date    string   `json:"date"`
	Slots   []string `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	// AvailableSlots carries a fresh read of the nurse's effective slots on
	// booking failures so the caller can re-prompt with true availability.
	AvailableSlots []string `json:"available_slots,omitempty"`
}
