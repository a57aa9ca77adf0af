package main

import (
	"github.com/spf13/cobra"

	"github.com/meridian-advisory/renewal-intel/internal/model"
	"github.com/meridian-advisory/renewal-intel/internal/store"
)

var (
	alertsCustomer string
	alertsStatus   string
	alertsPriority string
	alertsCarrier  string
	alertsLimit    int
	snoozeDays     int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List persisted dashboard alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		alerts, err := e.Store.ListAlerts(ctx, store.AlertFilter{
			Customer: alertsCustomer,
			Status:   model.Status(alertsStatus),
			Priority: model.Priority(alertsPriority),
			Carrier:  alertsCarrier,
			Limit:    alertsLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, alerts)
	},
}

var alertsSnoozeCmd = &cobra.Command{
	Use:   "snooze <alert-id>",
	Short: "Snooze an alert for a number of days (1-90)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		return e.Store.SnoozeAlert(ctx, args[0], snoozeDays)
	},
}

var alertsDismissCmd = &cobra.Command{
	Use:   "dismiss <alert-id>",
	Short: "Dismiss an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		return e.Store.DismissAlert(ctx, args[0])
	},
}

var alertsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics for a customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.Store.GetDashboardStats(ctx, alertsCustomer)
		if err != nil {
			return err
		}
		return printJSON(cmd, stats)
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsCustomer, "customer", "", "filter by customer identifier")
	alertsCmd.Flags().StringVar(&alertsStatus, "status", "", "filter by status (pending, snoozed, dismissed)")
	alertsCmd.Flags().StringVar(&alertsPriority, "priority", "", "filter by priority (low, medium, high)")
	alertsCmd.Flags().StringVar(&alertsCarrier, "carrier", "", "filter by carrier")
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 0, "max alerts to return")

	alertsSnoozeCmd.Flags().IntVar(&snoozeDays, "days", 7, "days to snooze")

	alertsStatsCmd.Flags().StringVar(&alertsCustomer, "customer", "", "customer identifier")
	alertsStatsCmd.MarkFlagRequired("customer")

	alertsCmd.AddCommand(alertsSnoozeCmd)
	alertsCmd.AddCommand(alertsDismissCmd)
	alertsCmd.AddCommand(alertsStatsCmd)
	rootCmd.AddCommand(alertsCmd)
}
