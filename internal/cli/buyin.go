package cli

import (
	"github.com/spf13/cobra"
)

func newBuyInCmd() *cobra.Command {
	var amount float64
	var method string

	cmd := &cobra.Command{
		Use:   "buyin <player-id>",
		Short: "Record a buy-in for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"amount": amount,
				"method": method,
			}
			var result Payment

			if err := client.Post("/api/players/"+args[0]+"/buyin", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Buy-in amount (required)")
	cmd.Flags().StringVar(&method, "method", "Cash", "Payment method")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
