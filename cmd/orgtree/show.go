package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/orgtree/internal/presentation/graph"
	"github.com/aretw0/orgtree/internal/presentation/tree"
	"github.com/aretw0/orgtree/internal/presentation/tui"
	"github.com/aretw0/orgtree/pkg/chart"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current organization chart",
		Long: `Prints the session's chart. A session that does not exist yet is started from --chart.

Formats:
- tree (default): indented tree, the last moved employee highlighted
- markdown: tree plus history, rendered with glamour on a terminal
- json, yaml: the chart document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.LoadOrCreate(cmd.Context(), a.sessionID, a.loader())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "tree":
				opts := []tree.Option{}
				if !a.colorful() {
					opts = append(opts, tree.WithProfile(termenv.Ascii))
				}
				if overlay := graph.OverlayFromHistory(sess.History, sess.Cursor); overlay.LastMoved != 0 {
					opts = append(opts, tree.WithHighlight(overlay.LastMoved))
				}
				return tree.NewRenderer(opts...).Render(out, sess.Chart)
			case "markdown":
				md := tui.Report("Session "+sess.ID, sess.Chart, sess.History, sess.Cursor)
				if a.colorful() {
					rendered, err := tui.NewRenderer()(md)
					if err != nil {
						return fmt.Errorf("failed to render markdown: %w", err)
					}
					md = rendered
				}
				_, err := fmt.Fprint(out, md)
				return err
			case "json":
				data, err := json.MarshalIndent(sess.Chart, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case "yaml":
				data, err := chart.Marshal(sess.Chart, chart.FormatYAML)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unknown format %q. Supported: tree, markdown, json, yaml", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "Output format: tree, markdown, json, yaml")
	return cmd
}
