package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"rhystmorgan/contactsterm/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve contacts read-only over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.store.Initialize(ctx); err != nil {
				return err
			}

			if addr == "" {
				addr = a.cfg.ServeAddr
			}

			gin.SetMode(gin.ReleaseMode)
			fmt.Fprintf(cmd.OutOrStdout(), "serving contacts on http://%s\n", addr)
			return api.NewServer(a.store, false).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
