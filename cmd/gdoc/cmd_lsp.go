package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/gdoc/lsp"
)

func newLSPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			server := lsp.NewServer(version, newScanner(cfg))
			return server.RunStdio()
		},
	}
}
