package permission

import (
	"errors"
	"strings"

	"github.com/MrEthical07/selmaGate/session"
)

// AdminRole is the super-role that bypasses the permissions map.
const AdminRole = "admin"

// NormalizeRole trims role and lower-cases its ASCII letters. Other runes
// are left alone, so no non-ASCII spelling can fold into "admin".
func NormalizeRole(role string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(role))
}

// IsAdmin reports whether role is the admin super-role.
func IsAdmin(role string) bool {
	return NormalizeRole(role) == AdminRole
}

// Check decides whether rec grants feature.
//
// The boolean is the whole contract. A non-nil error is returned only when the
// permissions string is malformed, so callers can log it; the boolean is
// always false in that case.
func Check(rec *session.Record, feature string) (bool, error) {
	if rec == nil {
		return false, nil
	}
	if IsAdmin(rec.Role()) {
		return true, nil
	}

	perms, err := session.DecodePermissions(rec)
	if err != nil {
		if errors.Is(err, session.ErrPermissionsAbsent) {
			return false, nil
		}
		return false, err
	}
	return perms.Granted(feature), nil
}
