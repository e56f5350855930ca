// import_legacy genera un script SQL para migrar el inventario de un sistema
// anterior: productos con su stock agregado y el movimiento inicial sin lote que
// lo respalda, fechado antes del corte de migración.
//
// Entrada: CSV separado por punto y coma, codificación ISO-8859-1 (export típico
// de Excel en Windows): sku;nombre;stock;costo;precio
//
// Uso: go run ./cmd/import_legacy -company <uuid> -location <uuid> -fecha 2024-06-30 inventario.csv
// Escribe: internal/infrastructure/postgres/migrations/005_seed_legacy.sql
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type legacyRow struct {
	sku   string
	name  string
	stock decimal.Decimal
	cost  decimal.Decimal
	price decimal.Decimal
}

func main() {
	companyFlag := flag.String("company", "", "UUID de la empresa destino")
	locationFlag := flag.String("location", "", "UUID de la ubicación que recibe el stock")
	dateFlag := flag.String("fecha", "", "fecha del inventario legado (YYYY-MM-DD, anterior al corte)")
	flag.Parse()

	if *companyFlag == "" || *locationFlag == "" || *dateFlag == "" || flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_legacy -company <uuid> -location <uuid> -fecha YYYY-MM-DD inventario.csv")
		os.Exit(1)
	}
	companyID, err := uuid.Parse(*companyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-company no es un UUID válido: %v\n", err)
		os.Exit(1)
	}
	locationID, err := uuid.Parse(*locationFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-location no es un UUID válido: %v\n", err)
		os.Exit(1)
	}
	importedAt, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-fecha inválida (se espera YYYY-MM-DD): %v\n", err)
		os.Exit(1)
	}

	rows, err := readLegacyCSV(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene filas de inventario")
		os.Exit(1)
	}

	// Orden estable por SKU para que regenerar produzca el mismo script.
	sort.Slice(rows, func(i, j int) bool { return rows[i].sku < rows[j].sku })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "005_seed_legacy.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	ts := importedAt.UTC().Format(time.RFC3339)
	movements := 0

	fmt.Fprintf(out, "-- Inventario migrado del sistema anterior (%s)\n", *dateFlag)
	out.WriteString("-- Generado por cmd/import_legacy; seguro de re-ejecutar.\n\n")

	out.WriteString("-- 1. Productos: arrancan sin seguimiento por lote, se habilita por producto tras el corte.\n")
	for _, r := range rows {
		fmt.Fprintf(out, "INSERT INTO products (id, company_id, sku, name, description, price, cost, stock, inventory_method, enable_batch_tracking, created_at, updated_at)\n")
		fmt.Fprintf(out, "  VALUES ('%s', '%s', '%s', '%s', '', %s, %s, %s, 'FIFO', FALSE, '%s', '%s')\n",
			uuid.NewString(), companyID, escapeSQL(r.sku), escapeSQL(r.name),
			r.price, r.cost, r.stock, ts, ts)
		out.WriteString("  ON CONFLICT (company_id, sku) DO NOTHING;\n")
	}

	// 2. Un movimiento sin lote por producto respalda el stock importado; con
	// stock cero no hay nada que respaldar.
	out.WriteString("\n-- 2. Movimiento inicial sin lote por producto con existencias.\n")
	for _, r := range rows {
		if r.stock.IsZero() {
			continue
		}
		fmt.Fprintf(out, "INSERT INTO stock_changes (id, company_id, product_id, location_id, batch_id, change, reason, reference, cost_price, supplier_id, is_credit, created_at, created_by)\n")
		fmt.Fprintf(out, "SELECT '%s', '%s', id, '%s', NULL, %s, 'adjustment', 'import:%s', %s, NULL, FALSE, '%s', NULL\n",
			uuid.NewString(), companyID, locationID, r.stock, escapeSQL(r.sku), r.cost, ts)
		fmt.Fprintf(out, "FROM products WHERE company_id = '%s' AND sku = '%s'\n", companyID, escapeSQL(r.sku))
		out.WriteString("ON CONFLICT DO NOTHING;\n")
		movements++
	}

	fmt.Printf("Generado %s: %d productos, %d movimientos\n", outPath, len(rows), movements)
}

// readLegacyCSV decodifica el export ISO-8859-1 y tolera una fila de encabezado.
func readLegacyCSV(path string) ([]legacyRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var rows []legacyRow
	for i, rec := range records {
		if len(rec) < 5 {
			return nil, fmt.Errorf("fila %d: se esperan 5 columnas (sku;nombre;stock;costo;precio), hay %d", i+1, len(rec))
		}
		stock, err := parseDecimal(rec[2])
		if err != nil {
			if i == 0 {
				continue // encabezado
			}
			return nil, fmt.Errorf("fila %d: stock inválido %q", i+1, rec[2])
		}
		cost, err := parseDecimal(rec[3])
		if err != nil {
			return nil, fmt.Errorf("fila %d: costo inválido %q", i+1, rec[3])
		}
		price, err := parseDecimal(rec[4])
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio inválido %q", i+1, rec[4])
		}
		sku := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			return nil, fmt.Errorf("fila %d: sku y nombre son obligatorios", i+1)
		}
		if stock.IsNegative() {
			return nil, fmt.Errorf("fila %d: stock negativo %s", i+1, stock)
		}
		rows = append(rows, legacyRow{sku: sku, name: name, stock: stock, cost: cost, price: price})
	}
	return rows, nil
}

// parseDecimal acepta el formato local (miles con punto, decimal con coma).
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
