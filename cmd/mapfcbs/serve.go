package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/orange-dot/mapf-cbs/internal/api"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solve API",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer()
			log.Printf("[INFO] serve: listening on %s", addr)
			if err := server.Engine.Run(addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
