package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	selmaGate "github.com/MrEthical07/selmaGate"
)

// runCheck exits 0 when the feature is granted and 1 otherwise.
func runCheck(args []string) error {
	var (
		common  commonFlags
		feature string
	)
	fs := newFlagSet("check", &common)
	fs.StringVar(&feature, "feature", "", "feature key to check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.client == "" || feature == "" {
		return errors.New("--client and --feature are required")
	}

	g, _, closeAll, err := openGate(common, false)
	if err != nil {
		return err
	}
	defer closeAll()

	ctx := selmaGate.WithClientID(context.Background(), common.client)
	if g.HasPermission(ctx, feature) {
		fmt.Fprintf(os.Stdout, "%s: granted\n", feature)
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s: denied\n", feature)
	return exitError(1)
}
