package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persistent sessions",
		Long:  `List, inspect, reset and remove sessions stored in the configured store.`,
	}

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List all sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.sessions.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			fmt.Fprintln(out, "Sessions:")
			for _, s := range sessions {
				fmt.Fprintln(out, "- "+s)
			}
			return nil
		},
	})

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "inspect [session-id]",
		Short: "Print a session as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := a.sessionID
			if len(args) == 1 {
				id = args[0]
			}
			sess, err := a.sessions.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", id, err)
			}
			data, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restart the session from --chart, dropping its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.CreateFrom(cmd.Context(), a.sessionID, a.loader())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session '%s' reset with %d employees\n", sess.ID, sess.Chart.Size())
			return nil
		},
	})

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "rm <session-id>",
		Short: "Remove a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to remove session '%s': %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' removed.\n", args[0])
			return nil
		},
	})

	return sessionCmd
}
