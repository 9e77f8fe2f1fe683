package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a named moderation policy binding a set of checks. A profile with
// zero bound checks is a valid state; the aggregation layer decides what that
// means for the verdict.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Checks    []*Check  `json:"checks" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a new Profile instance
func NewProfile(name string, checks []*Check) *Profile {
	now := time.Now()
	return &Profile{
		ID:        uuid.New(),
		Name:      name,
		Checks:    checks,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
