// Package rbac resolves a coarse role for each request and answers
// capability questions about it.
package rbac

import "strings"

type Role string

const (
	Admin  Role = "ADMIN"
	Editor Role = "EDITOR"
	Anon   Role = "ANON"
)

func (r Role) level() int {
	switch r {
	case Admin:
		return 30
	case Editor:
		return 20
	default:
		return 10
	}
}

// AtLeast reports whether r carries every capability of target.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// ParseRole accepts any letter case. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case Admin:
		return Admin, true
	case Editor:
		return Editor, true
	case Anon:
		return Anon, true
	}
	return "", false
}

func CanCreateOrUpdate(r Role) bool {
	return r == Admin || r == Editor
}

func CanDelete(r Role) bool {
	return r == Admin
}

func CanPublish(r Role) bool {
	return r == Admin
}
