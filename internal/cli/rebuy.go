package cli

import (
	"github.com/spf13/cobra"
)

func newRebuyCmd() *cobra.Command {
	var amount float64
	var method string

	cmd := &cobra.Command{
		Use:   "rebuy <player-name>",
		Short: "Submit a rebuy by player name, creating the player if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_name": args[0],
				"amount":      amount,
				"method":      method,
			}
			var result Rebuy

			if err := client.Post("/api/rebuys", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Rebuy amount (required)")
	cmd.Flags().StringVar(&method, "method", "Cash", "Payment method")
	_ = cmd.MarkFlagRequired("amount")

	cmd.AddCommand(newRebuyRecentCmd())

	return cmd
}

func newRebuyRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recent buy-ins and rebuys",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Payment

			if err := client.Get("/api/rebuys/recent", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
