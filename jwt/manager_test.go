package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newHSManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		TTL:           10 * time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("selma-dev-secret-selma-dev-secret"),
		Issuer:        "selma-cms",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	pub, _ := newEdKeys(t)
	cases := map[string]Config{
		"zero ttl":       {SigningMethod: MethodHS256, PrivateKey: []byte("k")},
		"large leeway":   {TTL: time.Minute, Leeway: time.Hour, SigningMethod: MethodHS256, PrivateKey: []byte("k")},
		"hs256 no key":   {TTL: time.Minute, SigningMethod: MethodHS256},
		"ed25519 no pub": {TTL: time.Minute, SigningMethod: MethodEd25519},
		"bad pub":        {TTL: time.Minute, SigningMethod: MethodEd25519, PublicKey: []byte("short")},
		"unknown method": {TTL: time.Minute, SigningMethod: "rs256", PublicKey: pub},
	}
	for name, cfg := range cases {
		if _, err := NewManager(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestIssueAndVerifyHS256(t *testing.T) {
	m := newHSManager(t)

	token, err := m.Issue("u-1", "editor")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != "editor" || claims.Issuer != "selma-cms" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	m := newHSManager(t)
	if _, err := m.Issue("  ", "editor"); err == nil {
		t.Fatal("expected empty subject to fail")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newHSManager(t)

	token, err := m.IssueAt("u-1", "editor", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := SessionClaims{RegisteredClaims: gjwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestVerifyEd25519WithKeyID(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Audience:      "dashboard",
		KeyID:         "k1",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.Issue("u-2", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("verify: %v", err)
	}

	claims := SessionClaims{RegisteredClaims: gjwt.RegisteredClaims{
		Subject:   "u-2",
		Audience:  gjwt.ClaimStrings{"dashboard"},
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, claims)
	tok.Header["kid"] = "k2"
	foreign, err := tok.SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(foreign); err == nil {
		t.Fatal("expected unknown kid to fail")
	}
}

func TestVerifyOnlyManagerCannotIssue(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.Issue("u-1", "editor"); err == nil {
		t.Fatal("expected issue without private key to fail")
	}
}
