package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NewKind(http.StatusNotFound, apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.NewKind(http.StatusConflict, apperror.KindConflict, "email already used")
	ErrInvalidCredentials = apperror.NewKind(http.StatusUnauthorized, "unauthorized", "invalid email or password")
	ErrInactiveUser       = apperror.NewKind(http.StatusUnauthorized, "unauthorized", "user is inactive")
	ErrEmailRequired      = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "email is required")
	ErrPasswordTooShort   = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "password is too short")
	ErrInvalidRole        = apperror.NewKind(http.StatusBadRequest, apperror.KindInvalidInput, "invalid role")
)

// Role is the staff role of an account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHost       Role = "host"
	RoleCaseworker Role = "caseworker"
	RoleVolunteer  Role = "volunteer"
)

// Roles lists every staff role.
var Roles = []Role{RoleAdmin, RoleHost, RoleCaseworker, RoleVolunteer}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleCaseworker, RoleVolunteer:
		return true
	}
	return false
}

// User represents a staff account: an administrator, host staff, a caseworker or a volunteer.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	Hosts        []HostBrief
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email       string
	DisplayName string
	Role        Role
	IsActive    *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// HostBrief holds minimal info about a host the user works at.
type HostBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
