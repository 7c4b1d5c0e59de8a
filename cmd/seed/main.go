// seed genera un script SQL para poblar la jerarquía organizacional, los
// puntos de suministro y el catálogo de productos a partir de dos CSV.
//
// Uso: go run ./cmd/seed [facilities.csv] [products.csv]
//
// facilities.csv: code,name,type,parent_code   (type: hsa|hf|dist|reg|nat;
// las filas deben listar cada padre antes que sus hijos)
// products.csv:   sms_code,name,units,type_code
//
// Escribe: internal/infrastructure/postgres/migrations/002_seed_locations.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type facilityRow struct {
	Code       string
	Name       string
	Type       string
	ParentCode string
}

type productRow struct {
	SMSCode  string
	Name     string
	Units    string
	TypeCode string
}

func main() {
	facilitiesPath := "facilities.csv"
	productsPath := "products.csv"
	if len(os.Args) > 1 {
		facilitiesPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		productsPath = os.Args[2]
	}

	facilities, err := readFacilities(facilitiesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", facilitiesPath, err)
		os.Exit(1)
	}
	products, err := readProducts(productsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", productsPath, err)
		os.Exit(1)
	}

	var sb strings.Builder
	sb.WriteString("-- Generado por cmd/seed. No editar a mano.\n\n")

	// IDs estables por código dentro de la corrida: el script es autocontenido.
	locationIDs := make(map[string]string)
	supplyPointIDs := make(map[string]string)

	sb.WriteString("-- Ubicaciones\n")
	for _, f := range facilities {
		id := uuid.NewString()
		locationIDs[f.Code] = id
		parent := "NULL"
		if f.ParentCode != "" {
			pid, ok := locationIDs[f.ParentCode]
			if !ok {
				fmt.Fprintf(os.Stderr, "Fila %s: padre %s no definido antes\n", f.Code, f.ParentCode)
				os.Exit(1)
			}
			parent = quote(pid)
		}
		fmt.Fprintf(&sb, "INSERT INTO locations (id, code, name, type, parent_id) VALUES (%s, %s, %s, %s, %s);\n",
			quote(id), quote(f.Code), quote(f.Name), quote(f.Type), parent)
	}

	sb.WriteString("\n-- Puntos de suministro (uno por ubicación, abastecido por el del padre)\n")
	for _, f := range facilities {
		id := uuid.NewString()
		supplyPointIDs[f.Code] = id
		suppliedBy := "NULL"
		if f.ParentCode != "" {
			suppliedBy = quote(supplyPointIDs[f.ParentCode])
		}
		fmt.Fprintf(&sb, "INSERT INTO supply_points (id, code, name, type, location_id, supplied_by_id) VALUES (%s, %s, %s, %s, %s, %s);\n",
			quote(id), quote(f.Code), quote(f.Name), quote(f.Type), quote(locationIDs[f.Code]), suppliedBy)
	}

	sb.WriteString("\n-- Productos\n")
	for _, p := range products {
		fmt.Fprintf(&sb, "INSERT INTO products (id, sms_code, name, units, type_code) VALUES (%s, %s, %s, %s, %s);\n",
			quote(uuid.NewString()), quote(p.SMSCode), quote(p.Name), quote(p.Units), quote(p.TypeCode))
	}

	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_locations.sql")
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Escrito %s: %d ubicaciones, %d productos\n", outPath, len(facilities), len(products))
}

func readFacilities(path string) ([]facilityRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}
	out := make([]facilityRow, 0, len(records))
	for _, r := range records {
		out = append(out, facilityRow{Code: r[0], Name: r[1], Type: r[2], ParentCode: r[3]})
	}
	return out, nil
}

func readProducts(path string) ([]productRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}
	out := make([]productRow, 0, len(records))
	for _, r := range records {
		out = append(out, productRow{SMSCode: r[0], Name: r[1], Units: r[2], TypeCode: r[3]})
	}
	return out, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "code") {
		records = records[1:] // cabecera opcional
	}
	for i := range records {
		for j := range records[i] {
			records[i][j] = strings.TrimSpace(records[i][j])
		}
	}
	return records, nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
