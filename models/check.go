package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalCheckPrefix is the reserved name namespace for checks resolved from
// static configuration instead of an upstream backend.
const LocalCheckPrefix = "local:dummy:"

// CheckKind identifies the execution strategy for a check.
type CheckKind string

const (
	CheckKindLocal  CheckKind = "local"
	CheckKindRemote CheckKind = "remote"
)

// CheckKindFromName resolves the execution strategy from a check name.
// Resolved once when the check is loaded, never re-parsed at dispatch time.
func CheckKindFromName(name string) CheckKind {
	if strings.HasPrefix(name, LocalCheckPrefix) {
		return CheckKindLocal
	}
	return CheckKindRemote
}

// Check is the static description of one unit of verification. The evaluator
// receives read-only snapshots per request; ownership stays with the store.
type Check struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Kind             CheckKind      `json:"kind" db:"-"`
	UpstreamServices []string       `json:"upstream_services" db:"upstream_services"`
	SupportedKinds   []PayloadKind  `json:"supported_kinds" db:"supported_kinds"`
	Config           map[string]any `json:"config,omitempty" db:"config"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Check model
func (Check) TableName() string {
	return "checks"
}

// NewCheck creates a new Check instance with its kind resolved from the name.
func NewCheck(name string, upstreamServices []string, supportedKinds []PayloadKind, config map[string]any) *Check {
	now := time.Now()
	return &Check{
		ID:               uuid.New(),
		Name:             name,
		Kind:             CheckKindFromName(name),
		UpstreamServices: upstreamServices,
		SupportedKinds:   supportedKinds,
		Config:           config,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Supports reports whether the check declares support for the payload kind.
func (c *Check) Supports(kind PayloadKind) bool {
	for _, k := range c.SupportedKinds {
		if k == kind {
			return true
		}
	}
	return false
}
