package models

import "time"

// Audit carries the ownership and timestamp fields every persisted
// document shares. Embedded inline so the fields sit flat on the document.
type Audit struct {
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Stamp sets all four audit fields for a freshly created document.
func (a *Audit) Stamp(userID string, now time.Time) {
	a.CreatedBy = userID
	a.UpdatedBy = userID
	a.CreatedAt = now
	a.UpdatedAt = now
}
