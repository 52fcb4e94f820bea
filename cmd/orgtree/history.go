package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded moves",
		Long:  `Lists every recorded move. The arrow marks the last applied move; moves below it were undone and can be redone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sess.History) == 0 {
				fmt.Fprintln(out, "No moves recorded.")
				return nil
			}
			for i, mv := range sess.History {
				marker := "  "
				if i+1 == sess.Cursor {
					marker = "->"
				}
				state := ""
				if i+1 > sess.Cursor {
					state = " (undone)"
				}
				fmt.Fprintf(out, "%s %d. %d: %d -> %d%s\n",
					marker, i+1, mv.EmployeeID, mv.OriginalSupervisorID, mv.SupervisorID, state)
			}
			return nil
		},
	}
}
