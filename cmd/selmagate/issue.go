package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	selmaGate "github.com/MrEthical07/selmaGate"
	"github.com/MrEthical07/selmaGate/jwt"
	"github.com/MrEthical07/selmaGate/session"
)

func runIssue(args []string) error {
	var (
		common  commonFlags
		subject string
		role    string
		perms   map[string]string
		ttl     time.Duration
	)
	fs := newFlagSet("issue", &common)
	fs.StringVar(&subject, "subject", "dev-user", "token subject")
	fs.StringVar(&role, "role", "", "role stored with the session")
	fs.StringToStringVar(&perms, "perm", nil, "feature grant as KEY=BOOL (repeatable)")
	fs.DurationVar(&ttl, "ttl", 0, "token lifetime (default SELMAGATE_TOKEN_TTL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.client == "" {
		return errors.New("--client is required")
	}

	grants, err := parseGrants(perms)
	if err != nil {
		return err
	}

	g, cfg, closeAll, err := openGate(common, false)
	if err != nil {
		return err
	}
	defer closeAll()

	if cfg.SigningKey == "" {
		return errors.New("SELMAGATE_SIGNING_KEY is required to issue tokens")
	}
	if ttl <= 0 {
		ttl = cfg.TokenTTL
	}
	manager, err := jwt.NewManager(jwt.Config{
		TTL:           ttl,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte(cfg.SigningKey),
		Issuer:        "selmagate",
	})
	if err != nil {
		return err
	}
	token, err := manager.Issue(subject, role)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	rec, err := session.NewRecord(token, role, grants)
	if err != nil {
		return err
	}
	ctx := selmaGate.WithClientID(context.Background(), common.client)
	if err := g.Establish(ctx, rec); err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	fmt.Fprintf(os.Stdout, "client:  %s\nrole:    %s\nexpires: %s\ntoken:   %s\n",
		common.client, role, time.Now().Add(ttl).UTC().Format(time.RFC3339), token)
	return nil
}

// parseGrants converts KEY=BOOL flag values. An empty map yields a record
// without permissions.
func parseGrants(raw map[string]string) (map[string]bool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	grants := make(map[string]bool, len(raw))
	for key, value := range raw {
		granted, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("--perm %s=%s: %w", key, value, err)
		}
		grants[key] = granted
	}
	return grants, nil
}
