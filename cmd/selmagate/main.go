// selmagate inspects and exercises the dashboard session gate against a
// Redis-backed session store.
//
// Subcommands:
//
//	issue    mint a development token and store a session for a client
//	inspect  print a client's stored record, token claims and grants
//	check    report whether a client's session grants a feature
//	serve    run a demo dashboard behind the gate middleware
//
// Configuration comes from the environment and an optional .env file; see
// envConfig for the variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	selmaGate "github.com/MrEthical07/selmaGate"
)

// exitError carries a process exit code without printing an error message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitError) ExitCode() int { return int(e) }

func main() {
	if err := run(os.Args[1:]); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage()
		return nil
	}

	var err error
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "issue":
		err = runIssue(rest)
	case "inspect":
		err = runInspect(rest)
	case "check":
		err = runCheck(rest)
	case "serve":
		err = runServe(rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func printUsage() {
	fmt.Fprint(os.Stderr, `selmagate: dashboard session gate tooling

Usage:
  selmagate issue   --client ID --role ROLE [--perm KEY=BOOL ...] [--ttl D]
  selmagate inspect --client ID [--verify]
  selmagate check   --client ID --feature KEY
  selmagate serve   [--listen ADDR]

Every command accepts --env-file (default .env). issue, inspect and check
need REDIS_ADDR; serve falls back to an in-process Redis.
`)
}

// commonFlags registers the flags shared by every subcommand.
type commonFlags struct {
	envFile string
	client  string
}

func newFlagSet(name string, common *commonFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&common.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	fs.StringVar(&common.client, "client", "", "client scope ID")
	return fs
}

// redisClient connects to addr, or to a fresh miniredis when addr is empty
// and allowEmbedded is set.
func redisClient(addr string, allowEmbedded bool) (redis.UniversalClient, func(), error) {
	if addr == "" {
		if !allowEmbedded {
			return nil, nil, errors.New("REDIS_ADDR is required")
		}
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, func() { _ = client.Close() }, nil
}

// openGate loads configuration and builds a Redis-backed gate.
func openGate(common commonFlags, allowEmbedded bool) (*selmaGate.Gate, envConfig, func(), error) {
	cfg, err := loadConfig(common.envFile)
	if err != nil {
		return nil, cfg, nil, err
	}
	client, closeRedis, err := redisClient(cfg.RedisAddr, allowEmbedded)
	if err != nil {
		return nil, cfg, nil, err
	}

	b := selmaGate.New().
		WithConfig(cfg.gateConfig()).
		WithRedis(client).
		WithLogger(cfg.logger())
	if cfg.AuditLog {
		b = b.WithAuditSink(selmaGate.NewSlogSink(cfg.logger()))
	}
	g, err := b.Build()
	if err != nil {
		closeRedis()
		return nil, cfg, nil, err
	}
	return g, cfg, func() {
		g.Close()
		closeRedis()
	}, nil
}
