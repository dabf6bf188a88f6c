package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/production"
)

var produceCmd = &cobra.Command{
	Use:   "produce",
	Short: "Production feasibility, recording and history",
}

var (
	produceCapacity float64
	produceUnits    int64
	produceYes      bool
)

var producePlanCmd = &cobra.Command{
	Use:   "plan <product>",
	Short: "Feasibility check only (no stock is touched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := prodRepo.Plan(cmd.Context(), args[0], produceCapacity, produceUnits)
		if err != nil {
			return err
		}
		printPlan(plan)
		return nil
	},
}

var produceRunCmd = &cobra.Command{
	Use:   "run <product>",
	Short: "Plan and, if sufficient, record the production run",
	Long: `Run performs the feasibility check and shows the per-material
requirements. With --yes a sufficient plan is committed immediately:
the run is recorded and every requirement is deducted from stock.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		plan, err := prodRepo.Plan(ctx, args[0], produceCapacity, produceUnits)
		if err != nil {
			return err
		}
		printPlan(plan)

		if !plan.Sufficient {
			return production.ErrNotSufficient
		}
		if !produceYes {
			fmt.Println("plan is sufficient; re-run with --yes to record the production run")
			return nil
		}

		id, err := prodRepo.Confirm(ctx, plan)
		if err != nil {
			return err
		}
		log.Info("production recorded", "id", id, "product", plan.ProductName, "units", plan.TotalUnits)
		fmt.Printf("recorded production run %d\n", id)
		return nil
	},
}

var produceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List production runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := prodRepo.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tPRODUCT\tUNIT (g)\tUNITS")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02"), r.ProductName, r.UnitCapacityG, r.TotalUnits)
		}
		return w.Flush()
	},
}

var produceShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Per-material usage of one run (from the current formula)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		run, usages, err := prodRepo.Detail(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("run %d: %s, %.1fg x %d units (%s)\n",
			run.ID, run.ProductName, run.UnitCapacityG, run.TotalUnits, run.CreatedAt.Format("2006-01-02"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MATERIAL\tUSAGE (g/%)\tUSED (g)")
		for _, u := range usages {
			fmt.Fprintf(w, "%s\t%.3f\t%.2f\n", u.MaterialName, u.UsagePerUnit, u.UsedG)
		}
		return w.Flush()
	},
}

var produceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a run and restore the consumed materials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := prodRepo.Delete(cmd.Context(), id); err != nil {
			return err
		}
		log.Info("production run deleted", "id", id)
		return nil
	},
}

func printPlan(p production.Plan) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tREQUIRED (g)\tAVAILABLE (g)\tOK")
	for _, req := range p.Requirements {
		ok := "yes"
		if !req.Sufficient() {
			ok = "NO"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", req.MaterialName, req.RequiredG, req.AvailableG, ok)
	}
	_ = w.Flush()
}

func init() {
	for _, c := range []*cobra.Command{producePlanCmd, produceRunCmd} {
		c.Flags().Float64Var(&produceCapacity, "unit-capacity", 0, "grams per unit (required)")
		c.Flags().Int64Var(&produceUnits, "units", 0, "units to produce (required)")
		_ = c.MarkFlagRequired("unit-capacity")
		_ = c.MarkFlagRequired("units")
	}
	produceRunCmd.Flags().BoolVar(&produceYes, "yes", false, "commit a sufficient plan")

	produceCmd.AddCommand(producePlanCmd)
	produceCmd.AddCommand(produceRunCmd)
	produceCmd.AddCommand(produceHistoryCmd)
	produceCmd.AddCommand(produceShowCmd)
	produceCmd.AddCommand(produceDeleteCmd)
}
