package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolesAllow(t *testing.T) {
	assert.True(t, RolesAllow([]string{RoleStudent}, PermissionQuizzesRead))
	assert.False(t, RolesAllow([]string{RoleStudent}, PermissionQuizzesWrite))
	assert.False(t, RolesAllow([]string{RoleStudent}, PermissionSessionsReadAll))

	assert.True(t, RolesAllow([]string{RoleTeacher}, PermissionQuizzesWrite))
	assert.True(t, RolesAllow([]string{RoleTeacher}, PermissionGenerationRequest))

	// Multiple roles grant the union.
	assert.True(t, RolesAllow([]string{RoleStudent, RoleTeacher}, PermissionSubjectsWrite))

	// Unknown roles grant nothing.
	assert.False(t, RolesAllow([]string{"janitor"}, PermissionQuizzesRead))
	assert.False(t, RolesAllow(nil, PermissionQuizzesRead))
}

func TestPermissionsForRoles(t *testing.T) {
	perms := PermissionsForRoles([]string{RoleStudent, RoleTeacher})

	seen := make(map[Permission]int)
	for _, p := range perms {
		seen[p]++
	}
	// Shared permissions appear once.
	assert.Equal(t, 1, seen[PermissionQuizzesRead])
	assert.Contains(t, perms, PermissionQuizzesWrite)

	assert.Empty(t, PermissionsForRoles(nil))
}
