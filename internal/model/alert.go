package model

import (
	"encoding/json"
	"time"
)

// AlertSeverity grades an alert from Low to Critical.
type AlertSeverity string

const (
	AlertLow      AlertSeverity = "Low"
	AlertMedium   AlertSeverity = "Medium"
	AlertHigh     AlertSeverity = "High"
	AlertCritical AlertSeverity = "Critical"
)

// Valid reports whether s is a known alert severity.
func (s AlertSeverity) Valid() bool {
	switch s {
	case AlertLow, AlertMedium, AlertHigh, AlertCritical:
		return true
	}
	return false
}

// allStudentsSentinel is the wire form of a broadcast target, kept for
// compatibility with snapshots written by earlier versions that overloaded
// the studentId field with a magic string.
const allStudentsSentinel = "all"

// AlertTarget is either one student or every student. The zero value
// targets no one and is invalid; construct via TargetStudent or
// TargetAllStudents.
type AlertTarget struct {
	studentID string
	all       bool
}

// TargetStudent addresses the alert to a single student.
func TargetStudent(id string) AlertTarget { return AlertTarget{studentID: id} }

// TargetAllStudents addresses the alert to every student.
func TargetAllStudents() AlertTarget { return AlertTarget{all: true} }

// IsAll reports whether the target is the whole student body.
func (t AlertTarget) IsAll() bool { return t.all }

// Student returns the targeted student id and whether one is set.
func (t AlertTarget) Student() (string, bool) {
	if t.all {
		return "", false
	}
	return t.studentID, t.studentID != ""
}

// Matches reports whether the target covers the given student.
func (t AlertTarget) Matches(studentID string) bool {
	return t.all || t.studentID == studentID
}

func (t AlertTarget) MarshalJSON() ([]byte, error) {
	if t.all {
		return json.Marshal(allStudentsSentinel)
	}
	return json.Marshal(t.studentID)
}

func (t *AlertTarget) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == allStudentsSentinel {
		*t = TargetAllStudents()
	} else {
		*t = TargetStudent(s)
	}
	return nil
}

// Alert is a health notice for one student or the whole school. Alerts are
// consumed newest-first; the store prepends on add.
type Alert struct {
	ID         string        `json:"id"`
	Target     AlertTarget   `json:"studentId"`
	AlertType  string        `json:"alertType"`
	Severity   AlertSeverity `json:"severity"`
	Message    string        `json:"message"`
	IsRead     bool          `json:"isRead"`
	CreatedBy  string        `json:"createdBy"`
	CreatedAt  time.Time     `json:"createdAt"`
	ResolvedAt *time.Time    `json:"resolvedAt,omitempty"`
}

func (a Alert) RecordID() string { return a.ID }
