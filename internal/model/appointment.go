package model

import "time"

// AppointmentStatus tracks a checkup appointment through its lifecycle.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentNoShow    AppointmentStatus = "No-show"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// Appointment is a scheduled visit between a student and a doctor.
type Appointment struct {
	ID              string            `json:"id"`
	StudentID       string            `json:"studentId"`
	DoctorID        string            `json:"doctorId"`
	AppointmentDate Date              `json:"appointmentDate"`
	AppointmentType string            `json:"appointmentType"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func (a Appointment) RecordID() string { return a.ID }
