package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/transactions"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Inbound/outbound material transactions",
}

var (
	txRecordMemo   string
	txRecordNewMat bool
	txRecordExpiry string
	txRecordVendor string
	txRecordPrice  float64
	txRecordMoq    float64
	txRecordLead   int64
)

var txRecordCmd = &cobra.Command{
	Use:   "record <material> <inbound|outbound> <qty-g>",
	Short: "Record a transaction and adjust stock",
	Long: `Record appends a transaction and applies its stock delta atomically.

With --new-material the material is first registered with zero stock, so a
delivery of a brand-new ingredient is a single command.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]
		typ := transactions.Type(args[1])
		qty, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}

		if txRecordNewMat {
			expires, err := parseDateFlag(txRecordExpiry)
			if err != nil {
				return err
			}
			m, err := matRepo.Add(ctx, name, expires, txRecordVendor, txRecordPrice, txRecordMoq, txRecordLead)
			if err != nil {
				return err
			}
			log.Info("material added", "id", m.ID, "name", m.Name)
		}

		t, err := txRepo.Record(ctx, name, typ, qty, txRecordMemo)
		if err != nil {
			return err
		}
		log.Info("transaction recorded", "id", t.ID, "material", t.MaterialName, "type", t.Type, "qty_g", t.QtyG)
		fmt.Printf("recorded transaction %d\n", t.ID)
		return nil
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := txRepo.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tMATERIAL\tTYPE\tQTY (g)\tMEMO")
		for _, t := range ts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
				t.ID, t.CreatedAt.Format("2006-01-02"), t.MaterialName, t.Type, t.QtyG, t.Memo)
		}
		return w.Flush()
	},
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction and restore its stock delta",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := txRepo.Delete(cmd.Context(), id); err != nil {
			return err
		}
		log.Info("transaction deleted", "id", id)
		return nil
	},
}

func init() {
	txRecordCmd.Flags().StringVar(&txRecordMemo, "memo", "", "free-form note")
	txRecordCmd.Flags().BoolVar(&txRecordNewMat, "new-material", false, "register the material first")
	txRecordCmd.Flags().StringVar(&txRecordExpiry, "expiry", "", "expiration date for --new-material")
	txRecordCmd.Flags().StringVar(&txRecordVendor, "vendor", "", "vendor for --new-material")
	txRecordCmd.Flags().Float64Var(&txRecordPrice, "price", 0, "unit price (KRW/kg) for --new-material")
	txRecordCmd.Flags().Float64Var(&txRecordMoq, "moq", 0, "MOQ (kg) for --new-material")
	txRecordCmd.Flags().Int64Var(&txRecordLead, "lead", 0, "lead time (days) for --new-material")

	txCmd.AddCommand(txRecordCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txDeleteCmd)
}
