package model

// ConditionSeverity grades a diagnosed condition.
type ConditionSeverity string

const (
	SeverityMild     ConditionSeverity = "Mild"
	SeverityModerate ConditionSeverity = "Moderate"
	SeveritySevere   ConditionSeverity = "Severe"
)

// Valid reports whether s is a known condition severity.
func (s ConditionSeverity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// MedicalCondition is a diagnosed, possibly ongoing condition. IsActive is
// a mutable status flag, not a timestamp.
type MedicalCondition struct {
	ID            string            `json:"id"`
	StudentID     string            `json:"studentId"`
	ConditionName string            `json:"conditionName"`
	DiagnosisDate Date              `json:"diagnosisDate"`
	Severity      ConditionSeverity `json:"severity"`
	Notes         string            `json:"notes,omitempty"`
	IsActive      bool              `json:"isActive"`
}

func (c MedicalCondition) RecordID() string { return c.ID }
