package domain

import "time"

// User represents a registered FlyWise user.
type User struct {
	ID           string
	Identifier   string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
