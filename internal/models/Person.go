package models

import "strings"

type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleCounselor Role = "counselor"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
	RoleParent    Role = "parent"
)

// Person is a read-only entry of the canonical user directory.
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username,omitempty"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleStudent, RoleTeacher, RoleCounselor, RoleStaff, RoleAdmin, RoleParent:
		return r, true
	}
	return "", false
}
