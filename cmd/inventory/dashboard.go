package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summary: material count and soon-to-expire count",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		total, err := matRepo.Count(ctx)
		if err != nil {
			return err
		}
		expiring, err := matRepo.CountExpiringWithin(ctx, cfg.Inventory.ExpiryWarnDays)
		if err != nil {
			return err
		}

		fmt.Printf("Materials:            %d\n", total)
		fmt.Printf("Expiring within %3dd:  %d\n", cfg.Inventory.ExpiryWarnDays, expiring)
		return nil
	},
}
