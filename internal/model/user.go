package model

import "time"

// User is the persisted account record. The password hash never leaves the
// service layer; handlers convert this to UserDTO before responding.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// UserDTO is the client-facing shape of a user.
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// DTO strips credentials from a user record.
func (u *User) DTO() UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}
