package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRecord is returned when the stored record is not a JSON object
	// of the expected shape.
	ErrMalformedRecord = errors.New("malformed session record")
	// ErrMalformedPermissions is returned when the permissions field is not a
	// JSON string holding a JSON object.
	ErrMalformedPermissions = errors.New("malformed session permissions")
	// ErrPermissionsAbsent is returned when the record carries no permissions.
	ErrPermissionsAbsent = errors.New("session permissions absent")
)

// DecodeRecord parses a stored record. Any failure yields [ErrMalformedRecord];
// callers must treat it exactly like an absent session.
func DecodeRecord(raw []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedRecord
	}

	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &rec, nil
}

// DecodePermissions parses the double-encoded permissions string of rec.
//
// Values that are not JSON booleans are dropped, so {"news":"true"} does not
// grant news. A JSON null map decodes to an empty [Permissions].
func DecodePermissions(rec *Record) (Permissions, error) {
	if rec == nil {
		return nil, ErrPermissionsAbsent
	}

	raw := bytes.TrimSpace(rec.Payload.Data.Permissions)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrPermissionsAbsent
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("%w: not a string: %v", ErrMalformedPermissions, err)
	}
	if strings.TrimSpace(encoded) == "" {
		return nil, ErrPermissionsAbsent
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPermissions, err)
	}

	perms := make(Permissions, len(values))
	for key, value := range values {
		if granted, ok := value.(bool); ok {
			perms[key] = granted
		}
	}
	return perms, nil
}

// NewRecord builds a record in the persisted layout, double-encoding perms.
// A nil perms map produces a record without permissions.
func NewRecord(token, role string, perms map[string]bool) (*Record, error) {
	rec := &Record{
		Token: token,
		Payload: Payload{
			Data: Data{Role: role},
		},
	}
	if perms == nil {
		return rec, nil
	}

	inner, err := json.Marshal(perms)
	if err != nil {
		return nil, err
	}
	outer, err := json.Marshal(string(inner))
	if err != nil {
		return nil, err
	}
	rec.Payload.Data.Permissions = outer
	return rec, nil
}

// Encode serializes rec for storage.
func Encode(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, ErrMalformedRecord
	}
	return json.Marshal(rec)
}
