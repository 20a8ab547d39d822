package rbac

import "strings"

// HeaderName carries the explicit role signal.
const HeaderName = "x-role"

// Metadata is the part of a request the resolver looks at.
type Metadata struct {
	RoleHeader  string
	BearerToken string
}

// Resolver walks the role precedence chain:
//  1. an explicit signal (verified token claim, then the role header), ADMIN or EDITOR only
//  2. the bypass flag
//  3. development mode
//  4. Fallback, ADMIN when unset
type Resolver struct {
	TokenSecret []byte
	Bypass      bool
	DevMode     bool
	Fallback    Role
}

func (r *Resolver) Resolve(meta Metadata) Role {
	if role, ok := r.explicit(meta); ok {
		return role
	}
	if r.Bypass {
		return Admin
	}
	if r.DevMode {
		return Admin
	}
	if r.Fallback == "" {
		return Admin
	}
	return r.Fallback
}

func (r *Resolver) explicit(meta Metadata) (Role, bool) {
	if meta.BearerToken != "" && len(r.TokenSecret) > 0 {
		if role, err := ParseToken(r.TokenSecret, meta.BearerToken); err == nil && elevated(role) {
			return role, true
		}
	}
	if role, ok := ParseRole(meta.RoleHeader); ok && elevated(role) {
		return role, true
	}
	return "", false
}

func elevated(r Role) bool {
	return r == Admin || r == Editor
}

// IsAffirmative reports whether an environment flag value means "on".
func IsAffirmative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}
