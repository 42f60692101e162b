package models

import (
	"time"
)

// Coordinator is a registered school administrator; every student and drive is scoped to one
type Coordinator struct {
	ID           string    `json:"id" db:"id" example:"5d3f0c1e-8a9b-4c2d-9e1f-0a1b2c3d4e5f"`
	Name         string    `json:"name" db:"name" example:"Jane Doe"`
	Email        string    `json:"email" db:"email" example:"jane@school.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	School       string    `json:"school" db:"school" example:"Springfield High"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
