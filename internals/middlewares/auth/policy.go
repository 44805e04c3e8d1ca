package auth

import (
	"biolab_backend/internals/constants"
	"biolab_backend/internals/features/content/schema"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// viewers lists who may read each kind. Every mutation is admin only.
var viewers = map[schema.Kind][]string{
	schema.KindLab:     constants.AllRoles,
	schema.KindSteam:   constants.AllRoles,
	schema.KindTeacher: constants.TeacherAndAdmin,
	schema.KindStudent: constants.StudentAndAdmin,
}

// Can reports whether role may perform action on kind.
func Can(role string, kind schema.Kind, action Action) bool {
	allowed := constants.AdminOnly
	if action == ActionView {
		allowed = viewers[kind]
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// VisibleKinds lists the kinds role may view, in display order.
func VisibleKinds(role string) []schema.Kind {
	var out []schema.Kind
	for _, k := range schema.Kinds {
		if Can(role, k, ActionView) {
			out = append(out, k)
		}
	}
	return out
}
