package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/orgtree"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of orgtree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "orgtree version %s\n", strings.TrimSpace(orgtree.Version))
		},
	}
}
