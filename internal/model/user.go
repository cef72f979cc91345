package model

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthContext carries the authenticated identity into every core operation.
// Handlers build it from the verified token; nothing below the handler layer
// touches request types.
type AuthContext struct {
	UserID int64
}
