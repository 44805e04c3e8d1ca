package constants

import "fmt"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Role error templates
const (
	ErrOnlyAdminsCanAccess = "Только администратор может выполнять действие: %s."
	ErrRoleCannotView      = "Раздел «%s» недоступен для вашей роли."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorView(section string) string {
	return fmt.Sprintf(ErrRoleCannotView, section)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleTeacher,
		RoleAdmin,
	}

	TeacherAndAdmin = []string{
		RoleTeacher,
		RoleAdmin,
	}

	StudentAndAdmin = []string{
		RoleStudent,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
