package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shop-assist/internal/cli"
	"github.com/Veraticus/shop-assist/internal/config"
	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/reconcile"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

// Replaced in tests.
var (
	openStorage = initStorage
	newOrderAPI = func(baseURL string) tekmetric.OrderAPI {
		return tekmetric.NewOrderClient(baseURL, nil)
	}
)

func reconcileCmd() *cobra.Command {
	var (
		token   string
		shopID  string
		orderID string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Correct one repair order's labor rate",
		Long: `Fetch a repair order, find the labor rate group for its vehicle make, and
update the order's labor rate if it differs. The token is the x-auth-token the
shop web app sends with its own requests.`,
		Example: `  shopassist reconcile --token "$TOKEN" --shop 469 --order 1001`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions := reconcile.NewSessionStore()
			if !sessions.Capture(model.AuthSession{Token: token, ShopID: shopID}) {
				return fmt.Errorf("--token and --shop are required")
			}

			orders := newOrderAPI(config.LoadTekmetric().BaseURL)
			recon := reconcile.NewReconciler(orders, store, sessions, nil, nil)

			outcome := recon.Reconcile(ctx, model.RepairOrderEvent{
				OrderID: orderID,
				ShopID:  shopID,
				Kind:    model.EventExistingOrderViewed,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				if err := printJSON(out, outcome); err != nil {
					return err
				}
				return outcome.Err
			}

			switch outcome.Status {
			case reconcile.StatusApplied:
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Order %s set to %s (%s)", orderID, cli.FormatRate(outcome.LaborRate), outcome.Group)))
			case reconcile.StatusFailed:
				return outcome.Err
			default:
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Order %s unchanged: %s", orderID, outcome.Reason)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "captured x-auth-token (required)")
	cmd.Flags().StringVar(&shopID, "shop", "", "shop id (required)")
	cmd.Flags().StringVar(&orderID, "order", "", "repair order id (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("shop")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}
