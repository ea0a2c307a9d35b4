package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	checkinCmd := &cobra.Command{Use: "checkin", Short: "Habit tracker operations"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the check-in aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			d, err := c.LoadCheckin(cmd.Context())
			if err != nil {
				return err
			}
			if d == nil {
				_, _ = fmt.Fprintln(os.Stdout, "no checkin data")
				return nil
			}
			data, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	checkinCmd.AddCommand(showCmd)

	toggleCmd := &cobra.Command{
		Use:   "toggle DATE EVENT_ID",
		Short: "Flip the check-in state for a (date, event) pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			d, err := c.LoadCheckin(cmd.Context())
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("no checkin data; nothing to toggle")
			}
			d.Toggle(args[0], args[1])
			if err := c.SaveCheckin(cmd.Context(), d); err != nil {
				return err
			}
			state := "off"
			if d.CheckedIn(args[0], args[1]) {
				state = "on"
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s %s: %s\n", args[0], args[1], state)
			return nil
		},
	}
	checkinCmd.AddCommand(toggleCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move the legacy local cache to the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient()
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = c.Close() }()

			migrated, err := c.MigrateCheckinIfNeeded(cmd.Context())
			if err != nil {
				return err
			}
			if migrated {
				_, _ = fmt.Fprintln(os.Stdout, "migrated cached checkin data")
			} else {
				_, _ = fmt.Fprintln(os.Stdout, "nothing to migrate")
			}
			return nil
		},
	}
	checkinCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(checkinCmd)
}
