package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleStaff UserRole = "STAFF"
	UserRoleAdmin UserRole = "ADMIN"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsInternal reports whether the caller may see cost figures.
func (p Principal) IsInternal() bool {
	return p.Role == UserRoleStaff || p.Role == UserRoleAdmin
}
