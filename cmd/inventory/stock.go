package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Material stock list and editing",
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all materials with current stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		mats, err := matRepo.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTOCK (g)\tEXPIRES\tVENDOR\tPRICE (KRW/kg)\tMOQ (kg)\tLEAD (d)")
		for _, m := range mats {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%.0f\t%.1f\t%d\n",
				m.ID, m.Name, m.StockG, fmtDate(m.ExpiresAt), m.Vendor, m.UnitPriceKrwKg, m.MoqKg, m.LeadTimeDays)
		}
		return w.Flush()
	},
}

var (
	stockAddExpiry string
	stockAddVendor string
	stockAddPrice  float64
	stockAddMoq    float64
	stockAddLead   int64
)

var stockAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new material with zero stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expires, err := parseDateFlag(stockAddExpiry)
		if err != nil {
			return err
		}
		m, err := matRepo.Add(cmd.Context(), args[0], expires, stockAddVendor, stockAddPrice, stockAddMoq, stockAddLead)
		if err != nil {
			return err
		}
		log.Info("material added", "id", m.ID, "name", m.Name)
		fmt.Printf("added material %d (%s)\n", m.ID, m.Name)
		return nil
	},
}

var (
	stockEditName   string
	stockEditStock  float64
	stockEditExpiry string
	stockEditVendor string
	stockEditPrice  float64
	stockEditMoq    float64
	stockEditLead   int64
)

var stockEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a material row in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ctx := cmd.Context()
		m, err := matRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %d not found", id)
		}

		// Only the flags the user set overwrite the current values.
		if cmd.Flags().Changed("name") {
			m.Name = stockEditName
		}
		if cmd.Flags().Changed("stock") {
			m.StockG = stockEditStock
		}
		if cmd.Flags().Changed("expiry") {
			if m.ExpiresAt, err = parseDateFlag(stockEditExpiry); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("vendor") {
			m.Vendor = stockEditVendor
		}
		if cmd.Flags().Changed("price") {
			m.UnitPriceKrwKg = stockEditPrice
		}
		if cmd.Flags().Changed("moq") {
			m.MoqKg = stockEditMoq
		}
		if cmd.Flags().Changed("lead") {
			m.LeadTimeDays = stockEditLead
		}

		if err := matRepo.Update(ctx, *m); err != nil {
			return err
		}
		log.Info("material updated", "id", m.ID)
		return nil
	},
}

var stockSetExpiryCmd = &cobra.Command{
	Use:   "set-expiry <id> <YYYY-MM-DD>",
	Short: "Set a material's expiration date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		expires, err := parseDateFlag(args[1])
		if err != nil {
			return err
		}
		if err := matRepo.UpdateExpiration(cmd.Context(), id, expires); err != nil {
			return err
		}
		log.Info("expiration updated", "id", id, "expires", args[1])
		return nil
	},
}

var stockExpiringDays int

var stockExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List materials expiring within a day window",
	RunE: func(cmd *cobra.Command, args []string) error {
		mats, err := matRepo.ExpiringWithin(cmd.Context(), stockExpiringDays)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTOCK (g)\tEXPIRES\tVENDOR")
		for _, m := range mats {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", m.ID, m.Name, m.StockG, fmtDate(m.ExpiresAt), m.Vendor)
		}
		return w.Flush()
	},
}

var stockVendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List known vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vendors, err := matRepo.Vendors(cmd.Context())
		if err != nil {
			return err
		}
		for _, v := range vendors {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	stockAddCmd.Flags().StringVar(&stockAddExpiry, "expiry", "", "expiration date (YYYY-MM-DD)")
	stockAddCmd.Flags().StringVar(&stockAddVendor, "vendor", "", "vendor name")
	stockAddCmd.Flags().Float64Var(&stockAddPrice, "price", 0, "unit price (KRW/kg)")
	stockAddCmd.Flags().Float64Var(&stockAddMoq, "moq", 0, "minimum order quantity (kg)")
	stockAddCmd.Flags().Int64Var(&stockAddLead, "lead", 0, "lead time (days)")

	stockEditCmd.Flags().StringVar(&stockEditName, "name", "", "material name")
	stockEditCmd.Flags().Float64Var(&stockEditStock, "stock", 0, "stock (g)")
	stockEditCmd.Flags().StringVar(&stockEditExpiry, "expiry", "", "expiration date (YYYY-MM-DD, empty clears)")
	stockEditCmd.Flags().StringVar(&stockEditVendor, "vendor", "", "vendor name")
	stockEditCmd.Flags().Float64Var(&stockEditPrice, "price", 0, "unit price (KRW/kg)")
	stockEditCmd.Flags().Float64Var(&stockEditMoq, "moq", 0, "minimum order quantity (kg)")
	stockEditCmd.Flags().Int64Var(&stockEditLead, "lead", 0, "lead time (days)")

	stockExpiringCmd.Flags().IntVar(&stockExpiringDays, "days", 30, "day window")

	stockCmd.AddCommand(stockListCmd)
	stockCmd.AddCommand(stockAddCmd)
	stockCmd.AddCommand(stockEditCmd)
	stockCmd.AddCommand(stockSetExpiryCmd)
	stockCmd.AddCommand(stockExpiringCmd)
	stockCmd.AddCommand(stockVendorsCmd)
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
