package users

import "time"

// Role define los roles soportados.
// @Enum adopter, shelter, admin
type Role string

const (
	RoleAdopter Role = "adopter"
	RoleShelter Role = "shelter"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdopter, RoleShelter, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Status define el estado de la cuenta.
// @Enum active, blocked
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusBlocked:
		return Status(s), true
	default:
		return "", false
	}
}

// User representa una cuenta de la plataforma.
// El role es inmutable después del signup (no hay self-service de cambio de rol).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	Role   Role
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
