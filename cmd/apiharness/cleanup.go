package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuport/apiharness/internal/harness"
	"github.com/docuport/apiharness/internal/lifecycle"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <definition-id>...",
	Short: "Bulk-delete leftover API definitions from a tenant",
	Long: `Deletes the given API definitions from the configured tenant in a
single bulk call, after checking that each one still exists. Use this to
clear out definitions a crashed test run left behind.

Requires portal.apiToken and portal.projectVersionId to be configured
(flags, config file or APIHARNESS_* environment variables).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCleanup,
}

var cleanupTimeout time.Duration

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupTimeout, "timeout", 60*time.Second, "Overall cleanup timeout")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	if cfg.Portal.APIToken == "" {
		return fmt.Errorf("portal.apiToken is required for cleanup")
	}

	h := harness.New(cfg)

	for _, id := range args {
		h.Tracker.Track(lifecycle.TrackedDefinition{
			APIDefinitionID:  id,
			ProjectVersionID: cfg.Portal.ProjectVersionID,
			AuthToken:        cfg.Portal.APIToken,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if !h.Teardown(ctx) {
		return fmt.Errorf("cleanup did not complete; some definitions may remain")
	}

	fmt.Printf("Cleaned up %d API definition(s)\n", len(args))
	return nil
}
