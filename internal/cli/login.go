package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as host with the shared PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"pin": pin}
			var result HostAuth

			if err := client.Post("/api/host/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Host PIN (required)")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
