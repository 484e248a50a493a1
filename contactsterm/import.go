package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [url]",
		Short: "Import contacts from a JSON endpoint, skipping known phone numbers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			url := a.cfg.ImportURL
			if len(args) == 1 {
				url = args[0]
			}

			if err := a.store.Initialize(ctx); err != nil {
				return err
			}

			inserted, err := a.store.ImportFromRemote(ctx, url)
			if inserted > 0 || err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d new contact(s) from %s\n", inserted, url)
			}
			return err
		},
	}
}
