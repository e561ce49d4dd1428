package models

import "time"

// User is a registered account row. Password holds the bcrypt digest, never
// the plaintext; it and Active are persisted but not serialized.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
