// seed genera un script SQL para cargar el catálogo de materias primas
// a partir de un CSV exportado del sistema contable (separador ';', ISO-8859-1).
//
// Uso: go run ./cmd/seed [-utf8] [-out archivo.sql] catalogo.csv
// Columnas: nombre;descripcion;unidad. La primera fila es encabezado.
// Sin -out escribe en stdout.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	utf8 := flag.Bool("utf8", false, "el CSV ya viene en UTF-8")
	outPath := flag.String("out", "", "archivo SQL de salida (vacío = stdout)")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info", App: "seed"})

	if flag.NArg() < 1 {
		log.Fatal().Msg("uso: seed [-utf8] [-out archivo.sql] catalogo.csv")
	}
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseCatalog(f, !*utf8)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("crear archivo")
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, rows); err != nil {
		log.Fatal().Err(err).Msg("escribir SQL")
	}
	log.Info().Int("materials", len(rows)).Str("out", *outPath).Msg("catálogo generado")
}
