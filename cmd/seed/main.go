package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// importRow is one product read from the sheet
type importRow struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Stock       int
	Image       string
}

var requiredColumns = []string{"Nombre", "Precio"}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(rows), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categoryRepo := repository.NewCategoryRepository(conn)
	productRepo := repository.NewProductRepository(conn)

	imported := 0
	for _, row := range rows {
		product := &model.Product{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
			Image:       row.Image,
		}
		if row.Category != "" {
			category, err := categoryRepo.FindOrCreateByName(row.Category)
			if err != nil {
				log.Fatalf("Failed to resolve category %q: %v", row.Category, err)
			}
			product.CategoryID = &category.ID
		}
		if err := productRepo.Create(product); err != nil {
			log.Fatalf("Failed to create product %q: %v", row.Name, err)
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string) ([]importRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	return parseProductRows(rows)
}

// parseProductRows maps columns by header name. Rows without a name or with
// an invalid price or stock are skipped.
func parseProductRows(rows [][]string) ([]importRow, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		products []importRow
		skipped  int
	)
	for _, row := range rows[1:] {
		name := cell(row, "Nombre")
		if name == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, "Precio"), ",", "."), 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}

		stock := 0
		if raw := cell(row, "Disponible"); raw != "" {
			stock, err = strconv.Atoi(raw)
			if err != nil || stock < 0 {
				skipped++
				continue
			}
		}

		products = append(products, importRow{
			Name:        name,
			Category:    cell(row, "Categoría"),
			Description: cell(row, "Descripción"),
			Price:       price,
			Stock:       stock,
			Image:       cell(row, "Imagen"),
		})
	}
	return products, skipped, nil
}
