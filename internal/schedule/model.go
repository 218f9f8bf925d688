package schedule

import (
	"time"
)

type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "Upcoming"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

type NurseStatus string

const (
	NurseAvailable NurseStatus = "Available"
	NurseOnCall    NurseStatus = "On a Call"
	NurseOffline   NurseStatus = "Offline"
)

type ConsultationType string

const (
	ConsultationInPerson ConsultationType = "In-person"
	ConsultationVirtual  ConsultationType = "Virtual"
)

type MeetingPlatform string

const (
	PlatformGoogleMeet MeetingPlatform = "Google Meet"
	PlatformMSTeams    MeetingPlatform = "MS Teams"
)

// Nurse is a bookable provider. Availability maps a YYYY-MM-DD date key to
// the open slot labels for that day; BlockedDates lists date keys on which
// no booking may occur regardless of what Availability says.
type Nurse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Specialty      string              `json:"specialty"`
	SancNumber     string              `json:"sancNumber,omitempty"`
	NurseType      string              `json:"nurseType,omitempty"`
	Status         NurseStatus         `json:"status"`
	Active         bool                `json:"active"`
	Certifications []string            `json:"certifications,omitempty"`
	Languages      []string            `json:"languages,omitempty"`
	Availability   map[string][]string `json:"availability"`
	BlockedDates   []string            `json:"blockedDates,omitempty"`
}

// Appointment is a booked visit. Date is a YYYY-MM-DD key and Time is one of
// the clinic slot labels.
type Appointment struct {
	ID               string            `json:"id"`
	NurseID          string            `json:"nurseId"`
	NurseName        string            `json:"nurseName"`
	PatientID        string            `json:"patientId"`
	PatientName      string            `json:"patientName"`
	Date             string            `json:"date"`
	Time             string            `json:"time"`
	Type             string            `json:"type"`
	ConsultationType ConsultationType  `json:"consultationType"`
	Platform         MeetingPlatform   `json:"platform,omitempty"`
	VideoRoomID      string            `json:"videoRoomId,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Status           AppointmentStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type NotificationType string

const (
	NotificationAppointment NotificationType = "APPOINTMENT"
	NotificationRecord      NotificationType = "RECORD"
	NotificationHealthAlert NotificationType = "HEALTH_ALERT"
	NotificationSystem      NotificationType = "SYSTEM"
	NotificationSecurity    NotificationType = "SECURITY"
)

// Audience identifies the role a notification is addressed to.
type Audience string

const (
	AudiencePatient Audience = "patient"
	AudienceNurse   Audience = "nurse"
	AudienceAdmin   Audience = "admin"
)

// Notification is an audit/confirmation record produced by the engine.
// Ownership passes to the notification subsystem once emitted.
type Notification struct {
	ID          string           `json:"id"`
	Audience    Audience         `json:"audience"`
	RecipientID string           `json:"recipientId,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Timestamp   time.Time        `json:"timestamp"`
	Read        bool             `json:"read"`
	ActionURL   string           `json:"actionUrl,omitempty"`
}

// Snapshot is the persisted state: three collections serialized
// independently, keyed by their id fields.
type Snapshot struct {
	Nurses        []Nurse        `json:"nurses"`
	Appointments  []Appointment  `json:"appointments"`
	Notifications []Notification `json:"notifications"`
}
