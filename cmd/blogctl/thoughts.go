package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comrelyy/blog-7-Eleven/internal/shard"
	"github.com/comrelyy/blog-7-Eleven/store"
)

func init() {
	thoughtsCmd := &cobra.Command{Use: "thoughts", Short: "Thought collection operations"}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch thoughts from the probe window, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			thoughts, err := c.FetchThoughts(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(thoughts, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	thoughtsCmd.AddCommand(fetchCmd)

	addCmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Append a thought and push its shard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			thoughts, err := c.FetchThoughts(cmd.Context())
			if err != nil {
				return err
			}
			t := store.NewThought(args[0], time.Now())
			thoughts = append(thoughts, t)

			key, err := shard.Key(t.Date)
			if err != nil {
				return err
			}
			if err := c.PushThoughts(cmd.Context(), thoughts, []string{key}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "added thought %s to shard %s\n", t.ID, key)
			return nil
		},
	}
	thoughtsCmd.AddCommand(addCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Push locally cached thoughts if the remote is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			migrated, err := c.MigrateThoughtsIfNeeded(cmd.Context())
			if err != nil {
				return err
			}
			if migrated {
				_, _ = fmt.Fprintln(os.Stdout, "migrated cached thoughts")
			} else {
				_, _ = fmt.Fprintln(os.Stdout, "nothing to migrate")
			}
			return nil
		},
	}
	thoughtsCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(thoughtsCmd)
}
