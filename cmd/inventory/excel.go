package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/seorin-lab/cosmetic-inventory/internal/excel"
)

var excelCmd = &cobra.Command{
	Use:   "excel",
	Short: "Spreadsheet import/export for offline editing",
}

var excelExportOut string

var excelExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all four tables to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := excelExportOut
		if out == "" {
			out = filepath.Join(cfg.Excel.ExportDir, excel.ExportFilename(time.Now()))
		}
		if err := excel.Export(cmd.Context(), sqlDB, out); err != nil {
			return err
		}
		log.Info("excel exported", "path", out)
		fmt.Println(out)
		return nil
	},
}

var excelImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Merge workbook rows into the database (append with dedup)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := excel.Import(cmd.Context(), sqlDB, args[0]); err != nil {
			return err
		}
		log.Info("excel imported", "path", args[0])
		return nil
	},
}

func init() {
	excelExportCmd.Flags().StringVar(&excelExportOut, "out", "", "output path (default: dated workbook in excel.export_dir)")

	excelCmd.AddCommand(excelExportCmd)
	excelCmd.AddCommand(excelImportCmd)
}
