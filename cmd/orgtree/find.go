package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/orgtree"
	"github.com/spf13/cobra"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <employee-id>",
		Short: "Show who an employee reports to and who reports to them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader()); err != nil {
				return err
			}

			return a.sessions.View(cmd.Context(), a.sessionID, func(e *orgtree.Engine) error {
				pos, err := e.FindByIDOrFail(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if pos.Employee == e.Root() {
					fmt.Fprintf(out, "%d is the CEO\n", id)
				} else {
					fmt.Fprintf(out, "%d reports to %d\n", id, pos.Supervisor.ID)
				}
				fmt.Fprintf(out, "direct reports: %s\n", formatIDs(pos.Employee.SubordinateIDs()))
				return nil
			})
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid employee id %q: must be an integer", s)
	}
	return id, nil
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
