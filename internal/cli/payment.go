package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPaymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment commands",
	}

	cmd.AddCommand(newPaymentPendingCmd())
	cmd.AddCommand(newPaymentRecentCmd())
	cmd.AddCommand(newPaymentConfirmCmd())
	cmd.AddCommand(newPaymentDeleteCmd())

	return cmd
}

func newPaymentPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending buy-ins and rebuys",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Payment

			if err := client.Get("/api/pending-payments", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPaymentRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent transactions of all types",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/transactions/recent"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result []Payment
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions")

	return cmd
}

func newPaymentConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <player-id> <payment-id>",
		Short: "Confirm a pending payment (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Payment

			path := "/api/players/" + args[0] + "/payments/" + args[1] + "/confirm"
			if err := client.Put(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPaymentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <player-id> <payment-id>",
		Short: "Delete a payment, reversing its pot effect (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/players/" + args[0] + "/payments/" + args[1]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Payment deleted")
			return nil
		},
	}
}
