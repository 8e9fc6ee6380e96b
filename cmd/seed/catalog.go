package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// namespace fijo: el mismo nombre produce siempre el mismo id y el script es re-ejecutable.
var materialNamespace = uuid.MustParse("6f1c2a4e-0b7d-4c1e-9a53-2f8d1b6e7c90")

type catalogRow struct {
	ID          string
	Name        string
	Description string
	Unit        string
}

// parseCatalog lee el CSV (nombre;descripcion;unidad). Filas sin nombre se omiten
// y los nombres repetidos conservan la primera aparición.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	seen := make(map[string]bool)
	var rows []catalogRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := field(rec, 0)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, catalogRow{
			ID:          uuid.NewSHA1(materialNamespace, []byte(key)).String(),
			Name:        name,
			Description: field(rec, 1),
			Unit:        field(rec, 2),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// writeSQL emite un INSERT por materia prima, sin existencia ni costo.
func writeSQL(w io.Writer, rows []catalogRow) error {
	if _, err := io.WriteString(w, "-- Catálogo de materias primas (sin existencia inicial)\n"); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w,
			"INSERT INTO materials (id, name, description, unit_of_measure) VALUES ('%s', '%s', '%s', '%s') ON CONFLICT (id) DO NOTHING;\n",
			r.ID, escapeSQL(r.Name), escapeSQL(r.Description), escapeSQL(r.Unit))
		if err != nil {
			return err
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
