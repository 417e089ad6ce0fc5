package model

// EmergencyContact is a guardian or relative reachable for a student. At
// most one contact per student is primary; the store demotes any existing
// primary when a new one is added or promoted.
type EmergencyContact struct {
	ID             string `json:"id"`
	StudentID      string `json:"studentId"`
	ContactName    string `json:"contactName"`
	Relationship   string `json:"relationship"`
	PhonePrimary   string `json:"phonePrimary"`
	PhoneSecondary string `json:"phoneSecondary,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	IsPrimary      bool   `json:"isPrimary"`
}

func (c EmergencyContact) RecordID() string { return c.ID }
