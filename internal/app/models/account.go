package models

import "time"

// Account is a login-capable identity. Exactly one profile (organization or
// student) points back at it, except for the admin which has none.
type Account struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	Email           string    `json:"email" db:"email" example:"owner@school.edu"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            Role      `json:"role" db:"role" example:"institution"`
	LinkedProfileID *int64    `json:"linkedProfileId,omitempty" db:"linked_profile_id" example:"3"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Credentials are the one-time plaintext login details handed to a newly
// provisioned account holder.
type Credentials struct {
	Email    string `json:"email" example:"student@school.edu"`
	Password string `json:"password" example:"k3Q9xv2LpA"`
}
