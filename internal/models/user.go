package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of portal roles. It decides which endpoint variant
// each view calls and which filter defaults apply.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleWarden  Role = "warden"
	RoleStudent Role = "student"
)

// ParseRole normalizes a role string coming from the backend or the command line.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleWarden, RoleStudent:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role sees unscoped (hostel-wide) listings.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleWarden
}

// User is a portal account as returned by the backend.
type User struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	StudentID  string    `json:"studentId,omitempty"`
	Block      string    `json:"block,omitempty"`
	RoomNumber string    `json:"roomNumber,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// UserRef is the populated subset of a user embedded in other records.
type UserRef struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	StudentID string `json:"studentId,omitempty"`
}

// DisplayName falls back to the email when the name was not populated.
func (u *UserRef) DisplayName() string {
	if u == nil {
		return "-"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// Credentials are echoed once by the backend when an account is created.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Warden is a staff member responsible for a block.
type Warden struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Block     string    `json:"block,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
