package main

import (
	"fmt"

	"github.com/aretw0/orgtree"
	"github.com/spf13/cobra"
)

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <employee-id> <supervisor-id>",
		Short: "Move an employee under a new supervisor",
		Long: `Moves the employee under the new supervisor. The employee's direct reports stay
behind and now report to the employee's previous supervisor. The move is recorded and
can be undone.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, err := parseID(args[0])
			if err != nil {
				return err
			}
			supervisorID, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader()); err != nil {
				return err
			}

			sess, err := a.sessions.Update(cmd.Context(), a.sessionID, func(e *orgtree.Engine) error {
				return e.Move(employeeID, supervisorID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %d under %d (step %d of %d)\n",
				employeeID, supervisorID, sess.Cursor, len(sess.History))
			return nil
		},
	}
}

func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, "undo", (*orgtree.Engine).Undo)
		},
	}
}

func newRedoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, "redo", (*orgtree.Engine).Redo)
		},
	}
}

func (a *app) step(cmd *cobra.Command, verb string, fn func(*orgtree.Engine) bool) error {
	if _, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader()); err != nil {
		return err
	}

	var applied bool
	sess, err := a.sessions.Update(cmd.Context(), a.sessionID, func(e *orgtree.Engine) error {
		applied = fn(e)
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !applied {
		fmt.Fprintf(out, "nothing to %s\n", verb)
		return nil
	}
	fmt.Fprintf(out, "%s done (step %d of %d)\n", verb, sess.Cursor, len(sess.History))
	return nil
}
