package model

import "time"

// Session - серверная сессия refresh токена.
// RefreshToken хранится в виде хэша
type Session struct {
	ID           string
	UserID       int
	RefreshToken string
	ExpiresAt    time.Time
}
