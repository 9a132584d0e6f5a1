package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

func authorizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authorize [checkout_token]",
		Short: "Authorize a charge from a checkout token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := stringParams(cmd, "order-id")
			resp, err := a.client.Authorize(cmd.Context(), args[0], params)
			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().String("order-id", "", "Merchant order identifier")

	return cmd
}

func captureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [charge_id]",
		Short: "Capture an authorized charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := stringParams(cmd, "order-id", "shipping-carrier", "shipping-confirmation")
			resp, err := a.client.Capture(cmd.Context(), args[0], params)
			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().String("order-id", "", "Merchant order identifier")
	cmd.Flags().String("shipping-carrier", "", "Shipping carrier, e.g. USPS")
	cmd.Flags().String("shipping-confirmation", "", "Shipment tracking number")

	return cmd
}

func readCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [charge_id]",
		Short: "Show a charge and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := stringParams(cmd, "before", "after")
			if cmd.Flags().Changed("limit") {
				limit, _ := cmd.Flags().GetInt("limit")
				params["limit"] = limit
			}
			resp, err := a.client.Read(cmd.Context(), args[0], params)
			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().Int("limit", 0, "Maximum number of events to return")
	cmd.Flags().String("before", "", "Return events before this cursor")
	cmd.Flags().String("after", "", "Return events after this cursor")

	return cmd
}

func voidCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "void [charge_id]",
		Short: "Void an authorized charge that has not been captured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Void(cmd.Context(), args[0])
			return printResponse(cmd, resp, err)
		},
	}
}

func refundCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund [charge_id]",
		Short: "Refund a captured charge in full or in part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := affirm.Params{}
			if cmd.Flags().Changed("amount") {
				amount, _ := cmd.Flags().GetInt64("amount")
				params["amount"] = amount
			}
			resp, err := a.client.Refund(cmd.Context(), args[0], params)
			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().Int64("amount", 0, "Amount to refund in cents; omit for a full refund")

	return cmd
}

// stringParams collects the flags the user set, keyed by their API name.
func stringParams(cmd *cobra.Command, flags ...string) affirm.Params {
	params := affirm.Params{}
	for _, flag := range flags {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(flag)
		params[apiName(flag)] = v
	}
	return params
}

func apiName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func printResponse(cmd *cobra.Command, resp affirm.Response, err error) error {
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling response: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
