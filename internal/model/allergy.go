package model

// AllergyType classifies the allergen source.
type AllergyType string

const (
	AllergyFood          AllergyType = "Food"
	AllergyDrug          AllergyType = "Drug"
	AllergyEnvironmental AllergyType = "Environmental"
)

// Valid reports whether t is a known allergy type.
func (t AllergyType) Valid() bool {
	switch t {
	case AllergyFood, AllergyDrug, AllergyEnvironmental:
		return true
	}
	return false
}

// AllergySeverity grades an allergy up to Life-threatening.
type AllergySeverity string

const (
	AllergyMild            AllergySeverity = "Mild"
	AllergyModerate        AllergySeverity = "Moderate"
	AllergySevere          AllergySeverity = "Severe"
	AllergyLifeThreatening AllergySeverity = "Life-threatening"
)

// Valid reports whether s is a known allergy severity.
func (s AllergySeverity) Valid() bool {
	switch s {
	case AllergyMild, AllergyModerate, AllergySevere, AllergyLifeThreatening:
		return true
	}
	return false
}

// Allergy is a recorded allergy for one student.
type Allergy struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"studentId"`
	AllergyType AllergyType     `json:"allergyType"`
	Allergen    string          `json:"allergen"`
	Reaction    string          `json:"reaction"`
	Severity    AllergySeverity `json:"severity"`
}

func (a Allergy) RecordID() string { return a.ID }
