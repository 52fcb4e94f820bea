package main

import (
	"fmt"

	"github.com/aretw0/orgtree/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Export the chart as a Mermaid diagram",
		Long:  `Outputs a Mermaid diagram (graph TD) of the current chart, highlighting employees moved by applied moves.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(sess.Chart, graph.OverlayFromHistory(sess.History, sess.Cursor)))
			return err
		},
	}
}
