// blogctl is a small operational CLI for the dashboard's sync layer: inspect
// and mutate the remote collections from a terminal. Repository coordinates
// and the token come from BLOG_* environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comrelyy/blog-7-Eleven/internal/config"
	"github.com/comrelyy/blog-7-Eleven/localcache"
	"github.com/comrelyy/blog-7-Eleven/store"
)

var rootCmd = &cobra.Command{
	Use:          "blogctl",
	Short:        "CLI for the dashboard's remote JSON collections",
	SilenceUsage: true,
}

// newClient builds a synchronous store client from the environment. CLI
// invocations are short-lived, so the background queue is disabled.
func newClient() (*store.Client, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	cfg.InitLogger()

	opts := []store.Option{
		store.WithBranch(cfg.Branch),
		store.WithThoughtsRoot(cfg.ThoughtsRoot),
		store.WithCheckinRoot(cfg.CheckinRoot),
		store.WithProbeWindow(cfg.ProbeMonths),
		store.WithoutExecutor(),
	}
	if cfg.APIURL != "" {
		opts = append(opts, store.WithAPIBaseURL(cfg.APIURL))
	}

	cleanup := func() {}
	if cfg.CachePath != "" {
		cache, err := localcache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		opts = append(opts, store.WithCache(cache))
		cleanup = func() { _ = cache.Close() }
	}

	return store.New(cfg.Owner, cfg.Repo, cfg.Token, opts...), cleanup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
