package model

import (
	"strconv"
	"time"
)

// Gender is the student gender enum.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// BloodGroup is one of the eight ABO/Rh blood groups.
type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

// AllBloodGroups returns the fixed 8-value domain in display order.
// Aggregations report every bucket, including empty ones.
func AllBloodGroups() []BloodGroup {
	return []BloodGroup{
		BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
		BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
	}
}

// Valid reports whether b is one of the eight blood groups.
func (b BloodGroup) Valid() bool {
	for _, g := range AllBloodGroups() {
		if b == g {
			return true
		}
	}
	return false
}

// ValidClass reports whether s is a class in "1".."12".
func ValidClass(s string) bool {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return false
	}
	return n >= 1 && n <= 12
}

// ValidSection reports whether s is a section in "A".."D".
func ValidSection(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// Student is the root entity; every other student-keyed record references
// its ID. RollNumber and StudentCode are generated, never user-supplied.
type Student struct {
	ID            string     `json:"id"`
	RollNumber    string     `json:"rollNumber"`
	StudentCode   string     `json:"studentId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	DateOfBirth   Date       `json:"dateOfBirth"`
	Gender        Gender     `json:"gender"`
	BloodGroup    BloodGroup `json:"bloodGroup"`
	Class         string     `json:"class"`
	Section       string     `json:"section"`
	AdmissionDate Date       `json:"admissionDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (s Student) RecordID() string { return s.ID }

// FullName is the display name used in reports and alerts.
func (s Student) FullName() string { return s.FirstName + " " + s.LastName }
