package domain

import (
	"fmt"
	"time"
)

// Role governs which operations a user may perform.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleCustomer   Role = "CUSTOMER"
)

// ParseRole validates a role name.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleAdmin, RoleTechnician, RoleCustomer:
		return Role(name), nil
	default:
		return "", fmt.Errorf("unknown role %q", name)
	}
}

// User is an account able to sign in. Email is the login identity.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
