package model

// VaccinationStatus tracks a scheduled dose through its lifecycle.
type VaccinationStatus string

const (
	VaccinationPending   VaccinationStatus = "Pending"
	VaccinationCompleted VaccinationStatus = "Completed"
	VaccinationOverdue   VaccinationStatus = "Overdue"
)

// Valid reports whether s is a known vaccination status.
func (s VaccinationStatus) Valid() bool {
	switch s {
	case VaccinationPending, VaccinationCompleted, VaccinationOverdue:
		return true
	}
	return false
}

// Vaccination is one dose of a vaccine series for a student.
// AdministeredDate is set only when Status is Completed.
type Vaccination struct {
	ID               string            `json:"id"`
	StudentID        string            `json:"studentId"`
	VaccineName      string            `json:"vaccineName"`
	VaccineType      string            `json:"vaccineType"`
	DoseNumber       int               `json:"doseNumber"`
	Status           VaccinationStatus `json:"status"`
	AdministeredDate *Date             `json:"administeredDate,omitempty"`
	NextDoseDate     *Date             `json:"nextDoseDate,omitempty"`
	AdministeredBy   string            `json:"administeredBy,omitempty"`
	BatchNumber      string            `json:"batchNumber,omitempty"`
}

func (v Vaccination) RecordID() string { return v.ID }
