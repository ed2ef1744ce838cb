// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Role is the access level recorded on an identity.
type Role string

const (
	RoleStudent Role = common.RoleStudent
	RoleAdmin   Role = common.RoleAdmin
)

// RoleFromRegistrationType maps the registrationType field of a sign-up
// request to a Role. Anything other than "admin" yields RoleStudent.
//
// Registrants choose their own role: nothing gates the admin grant. This is
// a known risk kept for compatibility with existing clients.
func RoleFromRegistrationType(registrationType string) Role {
	if registrationType == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStudent
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is a registered identity. PasswordHash is never serialised.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedOn    time.Time `json:"createdOn"`
}
