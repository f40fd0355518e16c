package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	selmaGate "github.com/MrEthical07/selmaGate"
	"github.com/MrEthical07/selmaGate/jwt"
	"github.com/MrEthical07/selmaGate/session"
)

func runInspect(args []string) error {
	var (
		common commonFlags
		verify bool
	)
	fs := newFlagSet("inspect", &common)
	fs.BoolVar(&verify, "verify", false, "verify the token signature with SELMAGATE_SIGNING_KEY")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.client == "" {
		return errors.New("--client is required")
	}

	cfg, err := loadConfig(common.envFile)
	if err != nil {
		return err
	}
	client, closeRedis, err := redisClient(cfg.RedisAddr, false)
	if err != nil {
		return err
	}
	defer closeRedis()

	gc := cfg.gateConfig()
	store := session.NewRedisStore(client, gc.Session.RedisPrefix, gc.Session.StorageKey, gc.Session.TTL)
	gc.Idle.Enabled = false
	g, err := selmaGate.New().WithConfig(gc).WithStore(store).Build()
	if err != nil {
		return err
	}
	defer g.Close()

	ctx := selmaGate.WithClientID(context.Background(), common.client)
	rec, err := session.Read(ctx, store)
	if errors.Is(err, session.ErrNotFound) {
		fmt.Fprintf(os.Stdout, "client %s: no session\n", common.client)
		return exitError(1)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "client\t%s\n", common.client)
	fmt.Fprintf(w, "role\t%q\n", rec.Role())

	claims, err := jwt.DecodeClaims(rec.Token)
	switch {
	case err != nil:
		fmt.Fprintf(w, "token\tunreadable (%v)\n", err)
	default:
		state := "live"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(w, "subject\t%s\n", claims.Subject)
		fmt.Fprintf(w, "expires\t%s (%s)\n", claims.ExpiresAt.UTC().Format(time.RFC3339), state)
	}

	if verify {
		fmt.Fprintf(w, "signature\t%s\n", verifySignature(cfg, rec.Token))
	}

	perms, err := session.DecodePermissions(rec)
	switch {
	case errors.Is(err, session.ErrPermissionsAbsent):
		fmt.Fprintf(w, "permissions\tabsent\n")
	case err != nil:
		fmt.Fprintf(w, "permissions\tmalformed (%v)\n", err)
	default:
		fmt.Fprintf(w, "permissions\t%d keys\n", len(perms))
	}
	fmt.Fprintf(w, "granted\t%s\n", strings.Join(g.GrantedFeatures(ctx), ", "))
	return w.Flush()
}

func verifySignature(cfg envConfig, token string) string {
	if cfg.SigningKey == "" {
		return "skipped (SELMAGATE_SIGNING_KEY unset)"
	}
	manager, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.TokenTTL,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte(cfg.SigningKey),
		Issuer:        "selmagate",
	})
	if err != nil {
		return err.Error()
	}
	if _, err := manager.Verify(token); err != nil {
		return "invalid: " + err.Error()
	}
	return "valid"
}
