package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID           int64      `json:"id" db:"id" example:"1"`                               // Opaque identifier, immutable after creation
	Username     string     `json:"username" db:"username" example:"nqa"`                 // Unique, case-sensitive
	Email        string     `json:"email" db:"email" example:"nqa@vku.udn.vn"`            // Unique, lowercased, institutional domain
	PasswordHash string     `json:"-" db:"password_hash"`                                 // Bcrypt hash (never serialized)
	PhotoURL     string     `json:"photoUrl" db:"photo_url" example:"https://res.cloudinary.com/demo/nqa_1.jpg"` // Empty string means no photo
	CreatedAt    *time.Time `json:"createdAt,omitempty" db:"created_at"`                  // Set only by self-registration
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
