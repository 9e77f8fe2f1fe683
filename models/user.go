package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// User represents an API caller. Authentication is by API key; only the
// sha256 digest of the key is stored.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	APIKeyHash     string    `json:"-" db:"api_key_hash"`
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`
	DefaultProfile string    `json:"default_profile,omitempty" db:"default_profile"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance with the given plaintext API key hashed.
func NewUser(name, email, apiKey string, isAdmin bool) *User {
	now := time.Now()
	return &User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		APIKeyHash: HashAPIKey(apiKey),
		IsAdmin:    isAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HashAPIKey returns the hex-encoded sha256 digest of an API key.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}
