package models

import "time"

// TokenPayload is the content of an admin session token
type TokenPayload struct {
	Login     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Admin is the back-office account
type Admin struct {
	Login        string
	PasswordHash string
}
