package model

import "time"

// RequestUrgency grades how quickly a blood request must be fulfilled.
type RequestUrgency string

const (
	UrgencyLow      RequestUrgency = "Low"
	UrgencyMedium   RequestUrgency = "Medium"
	UrgencyHigh     RequestUrgency = "High"
	UrgencyCritical RequestUrgency = "Critical"
)

// Valid reports whether u is a known urgency.
func (u RequestUrgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// BloodRequestStatus tracks a request through fulfilment.
type BloodRequestStatus string

const (
	RequestPending   BloodRequestStatus = "Pending"
	RequestFulfilled BloodRequestStatus = "Fulfilled"
	RequestCancelled BloodRequestStatus = "Cancelled"
)

// Valid reports whether s is a known request status.
func (s BloodRequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestFulfilled, RequestCancelled:
		return true
	}
	return false
}

// BloodRequest is a blood-bank request. It is the one student-independent
// entity besides Student itself.
type BloodRequest struct {
	ID            string             `json:"id"`
	BloodGroup    BloodGroup         `json:"bloodGroup"`
	UnitsRequired int                `json:"unitsRequired"`
	Urgency       RequestUrgency     `json:"urgency"`
	RequestedBy   string             `json:"requestedBy"`
	HospitalName  string             `json:"hospitalName"`
	ContactNumber string             `json:"contactNumber"`
	Status        BloodRequestStatus `json:"status"`
	RequestedAt   time.Time          `json:"requestedAt"`
}

func (r BloodRequest) RecordID() string { return r.ID }
