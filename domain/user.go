package domain

import "github.com/google/uuid"

// User is the account returned by the auth endpoints.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}
