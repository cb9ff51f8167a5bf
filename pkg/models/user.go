package models

// User is the identity record owned by the external identity provider.
// The app reads it from session claims and never mutates it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
