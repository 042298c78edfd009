/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bookblitz/storefront/internal/checkout"
	"github.com/bookblitz/storefront/internal/flow"
	"github.com/bookblitz/storefront/internal/guard"
	"github.com/bookblitz/storefront/types"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place and manage your orders",
}

var orderPlaceCmd = &cobra.Command{
	Use:   "place <isbn>",
	Short: "Order one copy of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, guard.RequireAuth()); err != nil {
				return err
			}
			book, err := a.public.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			journeys := flow.New(a.sessions, a.uploads, a.backend, a.log)
			order, err := journeys.PlaceOrder(ctx, book, a.sessions.Current().Identity)
			if err != nil {
				return err
			}
			fmt.Printf("Ordered %q for %.2f\n", order.Title, order.TotalAmount)
			return nil
		})
	},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			who, err := a.identity()
			if err != nil {
				return err
			}
			orders, err := a.backend.Orders(ctx, who.Email)
			if err != nil {
				return err
			}
			for _, o := range orders {
				fmt.Printf("%-26s %-40s %8.2f  %s/%s\n", o.ID, o.Title, o.TotalAmount, o.Status, o.Fulfillment)
			}
			return nil
		})
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel a pending order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if _, err := a.identity(); err != nil {
				return err
			}
			ack, err := a.backend.SetOrderStatus(ctx, args[0], types.OrderCancelled)
			if err != nil {
				return err
			}
			if ack.ModifiedCount == 0 {
				return fmt.Errorf("order %s was not cancelled, it may already be settled", args[0])
			}
			fmt.Println("Order cancelled")
			return nil
		})
	},
}

var orderPayCmd = &cobra.Command{
	Use:   "pay <order-id>",
	Short: "Open a payment session for a pending order",
	Long: `Open a payment session for a pending order and print the checkout
URL. Complete the payment in a browser, then run
` + "`storefront order confirm <session-id>`" + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			who, err := a.identity()
			if err != nil {
				return err
			}
			orders, err := a.backend.Orders(ctx, who.Email)
			if err != nil {
				return err
			}
			for _, o := range orders {
				if o.ID != args[0] {
					continue
				}
				url, err := checkout.NewFlow(a.backend, a.log).Begin(ctx, o)
				if err != nil {
					return err
				}
				fmt.Printf("Complete your payment at:\n%s\n", url)
				return nil
			}
			return fmt.Errorf("order %s not found", args[0])
		})
	},
}

var confirmWait time.Duration

var orderConfirmCmd = &cobra.Command{
	Use:   "confirm <session-id>",
	Short: "Confirm a completed payment session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if _, err := a.identity(); err != nil {
				return err
			}
			pay := checkout.NewFlow(a.backend, a.log)

			if confirmWait > 0 {
				waitCtx, cancel := context.WithTimeout(ctx, confirmWait)
				defer cancel()
				if err := pay.AwaitConfirmation(waitCtx, args[0], 2*time.Second); err != nil {
					return fmt.Errorf("payment not confirmed within %s: %w", confirmWait, err)
				}
				fmt.Println("Payment confirmed")
				return nil
			}

			result, err := pay.Confirm(ctx, args[0])
			if err != nil {
				return err
			}
			if result == checkout.Confirmed {
				fmt.Println("Payment confirmed")
			} else {
				fmt.Println("Payment not recorded yet, re-run or use --wait")
			}
			return nil
		})
	},
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List your payment invoices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			who, err := a.identity()
			if err != nil {
				return err
			}
			invoices, err := a.backend.Invoices(ctx, who.Email)
			if err != nil {
				return err
			}
			for _, inv := range invoices {
				fmt.Printf("%-26s %-40s %8.2f %s  %s\n", inv.PaymentID, inv.Book, inv.Amount, inv.Currency, inv.Date)
			}
			return nil
		})
	},
}

func init() {
	orderConfirmCmd.Flags().DurationVar(&confirmWait, "wait", 0, "poll until confirmed, up to this long")

	orderCmd.AddCommand(orderPlaceCmd, orderListCmd, orderCancelCmd, orderPayCmd, orderConfirmCmd)
	rootCmd.AddCommand(orderCmd, invoicesCmd)
}
