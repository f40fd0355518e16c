package session

import "encoding/json"

// DefaultStorageKey is the key the dashboard has always persisted its
// session under.
const DefaultStorageKey = "authUser"

// Record is the persisted session.
type Record struct {
	Token   string  `json:"token"`
	Payload Payload `json:"payload"`
}

// Payload wraps the authorization data issued at login.
type Payload struct {
	Data Data `json:"data"`
}

// Data carries the role and the JSON-encoded permissions map. Permissions is
// kept raw; see [DecodePermissions].
type Data struct {
	Role        string          `json:"role"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
}

// Role returns the role exactly as stored.
func (r *Record) Role() string {
	if r == nil {
		return ""
	}
	return r.Payload.Data.Role
}

// Permissions is a decoded feature-key map. Only keys whose stored value was
// a JSON boolean are present.
type Permissions map[string]bool

// Granted reports whether key maps to true. Missing keys are not granted.
func (p Permissions) Granted(key string) bool {
	return p[key]
}
