package domain

import "strings"

// Role is the viewer's role on the dashboard.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole maps the role names used by the frontend and identity provider. Anything
// unrecognised is a guest.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "aluno", "estudante":
		return RoleStudent
	case "teacher", "docente", "professor":
		return RoleTeacher
	case "admin", "administrador":
		return RoleAdmin
	default:
		return RoleGuest
	}
}

func (r Role) IsGuest() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return false
	default:
		return true
	}
}

// IsEvaluator reports whether the role may look at projects in review mode.
func (r Role) IsEvaluator() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// AttachmentAccess is what a viewer may do with a project's attachment list.
type AttachmentAccess struct {
	CanList     bool `json:"can_list"`
	CanDownload bool `json:"can_download"`
}

// Locked reports whether entries are shown with a locked affordance.
func (a AttachmentAccess) Locked() bool {
	return a.CanList && !a.CanDownload
}

// CanList reports whether role may see that attachments exist. Every viewer can.
func CanList(role Role, vis Visibility) bool {
	return true
}

// CanDownload reports whether role may open attachments. Only the guest/authenticated
// axis matters; vis is accepted so a stricter policy for private projects can be added
// without changing callers.
func CanDownload(role Role, vis Visibility) bool {
	return !role.IsGuest()
}

func ResolveAccess(role Role, vis Visibility) AttachmentAccess {
	return AttachmentAccess{
		CanList:     CanList(role, vis),
		CanDownload: CanDownload(role, vis),
	}
}
