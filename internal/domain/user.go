package domain

import "time"

// UserRole separates requesters from portal administrators.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ResponderTypeFor maps an account role to the responder tag recorded on
// ticket responses authored by that account.
func ResponderTypeFor(role UserRole) ResponderType {
	if role == RoleAdmin {
		return ResponderAdmin
	}
	return ResponderUser
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for portal accounts, both requesters and admins.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
