package model

// Permission represents a string code for a specific system action.
// Authorization is a single predicate over (role, permission) — handlers
// declare the permission a route needs and the middleware resolves it from
// the caller's roles, instead of ad hoc role checks inside every endpoint.
type Permission string

const (
	// PermissionQuizzesRead allows taking quizzes and viewing own sessions.
	PermissionQuizzesRead Permission = "quizzes:read"

	// PermissionQuizzesWrite allows creating, editing, and deleting quizzes
	// and their questions/answer keys.
	PermissionQuizzesWrite Permission = "quizzes:write"

	// PermissionSessionsReadAll allows viewing other users' quiz sessions
	// and submissions.
	PermissionSessionsReadAll Permission = "sessions:read_all"

	// PermissionSubjectsWrite allows creating subjects and themes.
	PermissionSubjectsWrite Permission = "subjects:write"

	// PermissionFilesUpload allows attaching files to subjects and themes.
	PermissionFilesUpload Permission = "files:upload"

	// PermissionGenerationRequest allows requesting AI quiz/summary generation.
	PermissionGenerationRequest Permission = "generation:request"
)

// rolePermissions maps a role slug to the permissions it grants.
var rolePermissions = map[string][]Permission{
	RoleStudent: {
		PermissionQuizzesRead,
	},
	RoleTeacher: {
		PermissionQuizzesRead,
		PermissionQuizzesWrite,
		PermissionSessionsReadAll,
		PermissionSubjectsWrite,
		PermissionFilesUpload,
		PermissionGenerationRequest,
	},
}

// PermissionsForRoles resolves the union of permissions granted by the
// given role slugs.
func PermissionsForRoles(slugs []string) []Permission {
	seen := make(map[Permission]bool)
	var perms []Permission
	for _, slug := range slugs {
		for _, p := range rolePermissions[slug] {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}
	return perms
}

// RolesAllow reports whether any of the role slugs grants perm.
func RolesAllow(slugs []string, perm Permission) bool {
	for _, slug := range slugs {
		for _, p := range rolePermissions[slug] {
			if p == perm {
				return true
			}
		}
	}
	return false
}
