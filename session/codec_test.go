package session

import (
	"errors"
	"testing"
)

func TestDecodeRecordReadsPersistedLayout(t *testing.T) {
	raw := []byte(`{"token":"t.k.n","payload":{"data":{"role":" Editor ","permissions":"{\"news\":true,\"jobs\":false}"}}}`)

	rec, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Token != "t.k.n" {
		t.Fatalf("unexpected token %q", rec.Token)
	}
	if rec.Role() != " Editor " {
		t.Fatalf("role must be kept verbatim, got %q", rec.Role())
	}

	perms, err := DecodePermissions(rec)
	if err != nil {
		t.Fatalf("decode permissions: %v", err)
	}
	if !perms.Granted("news") || perms.Granted("jobs") || perms.Granted("park") {
		t.Fatalf("unexpected grants: %v", perms)
	}
}

func TestDecodeRecordRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "[]", `"authUser"`, "42", `{"token":`, `{"token":7}`} {
		if _, err := DecodeRecord([]byte(raw)); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("input %q: expected ErrMalformedRecord, got %v", raw, err)
		}
	}
}

func TestDecodePermissionsDropsNonBooleanValues(t *testing.T) {
	rec := &Record{Payload: Payload{Data: Data{
		Permissions: []byte(`"{\"news\":\"true\",\"jobs\":1,\"park\":true,\"pages\":null}"`),
	}}}

	perms, err := DecodePermissions(rec)
	if err != nil {
		t.Fatalf("decode permissions: %v", err)
	}
	if perms.Granted("news") {
		t.Fatal("string \"true\" must not grant")
	}
	if perms.Granted("jobs") {
		t.Fatal("number 1 must not grant")
	}
	if !perms.Granted("park") {
		t.Fatal("boolean true must grant")
	}
	if _, ok := perms["pages"]; ok {
		t.Fatal("null value must be dropped")
	}
}

func TestDecodePermissionsAbsent(t *testing.T) {
	cases := map[string][]byte{
		"missing":      nil,
		"null":         []byte("null"),
		"empty string": []byte(`""`),
		"blank string": []byte(`"  "`),
	}
	for name, raw := range cases {
		rec := &Record{Payload: Payload{Data: Data{Permissions: raw}}}
		if _, err := DecodePermissions(rec); !errors.Is(err, ErrPermissionsAbsent) {
			t.Fatalf("%s: expected ErrPermissionsAbsent, got %v", name, err)
		}
	}
	if _, err := DecodePermissions(nil); !errors.Is(err, ErrPermissionsAbsent) {
		t.Fatalf("nil record: expected ErrPermissionsAbsent, got %v", err)
	}
}

func TestDecodePermissionsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"truncated json":  []byte(`"{\"news\":tr"`),
		"nested object":   []byte(`{"news":true}`),
		"array payload":   []byte(`"[true]"`),
		"number":          []byte(`12`),
		"string not json": []byte(`"news"`),
	}
	for name, raw := range cases {
		rec := &Record{Payload: Payload{Data: Data{Permissions: raw}}}
		if _, err := DecodePermissions(rec); !errors.Is(err, ErrMalformedPermissions) {
			t.Fatalf("%s: expected ErrMalformedPermissions, got %v", name, err)
		}
	}
}

func TestNewRecordDoubleEncodesPermissions(t *testing.T) {
	rec, err := NewRecord("tok", "editor", map[string]bool{"news": true, "jobs": false})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	raw, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := `{"token":"tok","payload":{"data":{"role":"editor","permissions":"{\"jobs\":false,\"news\":true}"}}}`
	if string(raw) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", raw, want)
	}
}

func TestNewRecordWithoutPermissions(t *testing.T) {
	rec, err := NewRecord("tok", "admin", nil)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	raw, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != `{"token":"tok","payload":{"data":{"role":"admin"}}}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}
