package model

// Role represents an RBAC role (student, teacher).
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Well-known role slugs.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)
