package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCashOutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashout",
		Short: "Cash-out commands",
	}

	cmd.AddCommand(newCashOutRequestCmd())
	cmd.AddCommand(newCashOutPendingCmd())
	cmd.AddCommand(newCashOutConfirmCmd())
	cmd.AddCommand(newCashOutRecentCmd())
	cmd.AddCommand(newCashOutHistoryCmd())

	return cmd
}

func newCashOutRequestCmd() *cobra.Command {
	var amount float64
	var method string

	cmd := &cobra.Command{
		Use:   "request <player-id>",
		Short: "Request a cash-out for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"amount": amount,
				"method": method,
			}
			var result Payment

			if err := client.Post("/api/players/"+args[0]+"/cashout", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Cash-out amount (required)")
	cmd.Flags().StringVar(&method, "method", "Cash", "Payout method")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCashOutPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending cash-outs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Payment

			if err := client.Get("/api/pending-cashouts", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCashOutConfirmCmd() *cobra.Command {
	var splits []string

	cmd := &cobra.Command{
		Use:   "confirm <cashout-id>",
		Short: "Confirm a pending cash-out (host only)",
		Long: `Confirm a pending cash-out. An optional method split records how the
payout was actually made, e.g.:

  pokerctl cashout confirm <id> --split Cash=100 --split Venmo=50

Split amounts must sum to the cash-out amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req any
			if len(splits) > 0 {
				split, err := parseSplits(splits)
				if err != nil {
					return err
				}
				req = map[string]any{"method_split": split}
			}

			var result Payment
			if err := client.Put("/api/cashouts/"+args[0]+"/confirm", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&splits, "split", nil, "Payout split as method=amount (repeatable)")

	return cmd
}

func newCashOutRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recent confirmed cash-outs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Payment

			if err := client.Get("/api/cashouts/recent", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCashOutHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the full cash-out history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Payment

			if err := client.Get("/api/cashouts/history", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func parseSplits(splits []string) (map[string]float64, error) {
	result := make(map[string]float64, len(splits))
	for _, s := range splits {
		method, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid split %q, expected method=amount", s)
		}
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid split amount %q", raw)
		}
		result[method] = amount
	}
	return result, nil
}
