package model

import "time"

// Message is a direct message between two dashboard users (doctor, admin,
// parent, blood bank). Messages are consumed newest-first; the store
// prepends on add.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Subject     string    `json:"subject"`
	Body        string    `json:"message"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m Message) RecordID() string { return m.ID }
