package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pdm/app/repositories"
	"github.com/shashiranjanraj/pdm/app/services"
	"github.com/shashiranjanraj/pdm/config"
	"github.com/shashiranjanraj/pdm/pkg/migration"
)

// pdm import <file.csv> runs the same upsert engine the HTTP endpoint uses.
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Batch import/update products from a CSV file (keyed by code)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		if err := migration.New(db).Run(); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		repo := repositories.NewProductRepository(db)
		importer := services.NewImportService(repo, services.ImportOptions{
			StrictNumbers: config.ImportStrictNumbers(),
		})

		report, err := importer.ImportCSV(f)
		if err != nil {
			return err
		}

		fmt.Printf("Inserted: %d  Updated: %d  Failed: %d\n",
			report.Inserted, report.Updated, len(report.Failed))
		for _, f := range report.Failed {
			fmt.Printf("  row %d (%s): %s\n", f.Index, f.Code, f.Reason)
		}
		return nil
	},
}

// pdm export <file.csv>
var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export all products to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		if err := migration.New(db).Run(); err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()

		exporter := services.NewExportService(repositories.NewProductRepository(db))
		if err := exporter.ExportCSV(f); err != nil {
			return err
		}

		fmt.Printf("Exported products to %s\n", args[0])
		return nil
	},
}
