package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sibors/sibors-backend/config"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/sibors/sibors-backend/internal/db"
)

// Imports a catalog file (CSV or XLSX) from the command line using the same
// analysis and execution as the HTTP import.
func main() {
	sheet := flag.String("sheet", "", "XLSX sheet name (default: first sheet)")
	assumeYes := flag.Bool("yes", false, "import without asking for confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/seed/main.go [-sheet name] [-yes] <catalog.csv|catalog.xlsx>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	database := db.GetDB()

	productRepo := repository.NewProductRepository(database)
	movementRepo := repository.NewStockMovementRepository(database)
	stockService := service.NewStockService(database, productRepo, movementRepo, nil)
	catalogService := service.NewCatalogIOService(
		database,
		productRepo,
		repository.NewAttributeRepository(database),
		repository.NewCategoryRepository(database),
		repository.NewSupplierRepository(database),
		stockService,
		nil,
	)

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open file:", err)
	}
	defer file.Close()

	ctx := context.Background()
	fmt.Printf("Reading catalog file: %s\n", filePath)

	var rows []service.ImportRow
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		rows, err = catalogService.AnalyzeCSV(ctx, file)
	case ".xlsx":
		rows, err = catalogService.AnalyzeXLSX(ctx, file, *sheet)
	default:
		log.Fatal("Unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		log.Fatal("Failed to analyze file:", err)
	}

	counts := map[service.ImportStatus]int{}
	for _, row := range rows {
		counts[row.Status]++
		if row.Status == service.ImportError {
			fmt.Printf("  row %d: %s\n", row.RowNumber, strings.Join(row.Errors, "; "))
		}
	}
	fmt.Printf("Rows: %d new, %d updates, %d with errors (skipped)\n",
		counts[service.ImportNew], counts[service.ImportUpdate], counts[service.ImportError])

	if counts[service.ImportNew]+counts[service.ImportUpdate] == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	summary, err := catalogService.Execute(ctx, rows, nil)
	if err != nil {
		log.Fatal("Import failed, no changes were saved:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Templates created: %d\n", summary.TemplatesCreated)
	fmt.Printf("Variants created: %d, updated: %d\n", summary.VariantsCreated, summary.VariantsUpdated)
	fmt.Printf("Stock adjustments: %d, rows skipped: %d\n", summary.StockAdjustments, summary.RowsSkipped)
}
