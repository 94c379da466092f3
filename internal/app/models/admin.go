package models

import "time"

// Admin defines the administrator model based on the 'admins' table.
// Admins manage student records and authenticate with their own credentials.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
