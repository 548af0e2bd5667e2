// seed_catalog importa tipos de EPI desde un CSV separado por ';' con columnas
// nome;ca;fabricante;categoria;vidaUtilDias;descricao. La primera fila puede ser
// cabecera. Cada tipo se crea por el caso de uso del catálogo, así que también
// se crea su ítem de stock.
//
// Uso: go run ./cmd/seed_catalog [-latin1] ruta/catalogo.csv
// Usa la misma configuración que la API (STORE_BACKEND, STORE_API_URL, DATABASE_URL...).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
	storebackend "github.com/jhoicas/epi-control-api/internal/infrastructure/backend"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/pkg/config"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// catalogLine fila válida del CSV con su número de línea.
type catalogLine struct {
	Line int
	Req  dto.CreateEquipmentTypeRequest
}

// lineError error de una fila concreta.
type lineError struct {
	Line int
	Err  error
}

func (e lineError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	lines, parseErrs := readCatalog(f, *latin1)
	for _, e := range parseErrs {
		fmt.Fprintln(os.Stderr, e)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	backend, err := storebackend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	types := docstore.NewEquipmentTypeRepository(backend)
	stock := docstore.NewStockRepository(backend)
	sync := inventory.NewCatalogSync(stock, docstore.NewStockEventRepository(backend), types, log.Component("catalog-sync"))
	catalog := usecase.NewCatalogUseCase(types, sync, log.Component("catalog"))

	created, failed := importCatalog(ctx, catalog, lines)
	for _, e := range failed {
		fmt.Fprintln(os.Stderr, e)
	}
	fmt.Printf("Importados: %d  Con error: %d\n", created, len(failed)+len(parseErrs))
	if len(failed)+len(parseErrs) > 0 {
		os.Exit(1)
	}
}

// readCatalog lee el CSV. Las filas mal formadas se devuelven como errores y no
// detienen la lectura.
func readCatalog(r io.Reader, latin1 bool) ([]catalogLine, []error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out  []catalogLine
		errs []error
	)
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, lineError{Line: n, Err: err})
			continue
		}
		if n == 1 && strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff"), "nome") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		req, err := parseRecord(rec)
		if err != nil {
			errs = append(errs, lineError{Line: n, Err: err})
			continue
		}
		out = append(out, catalogLine{Line: n, Req: req})
	}
	return out, errs
}

func parseRecord(rec []string) (dto.CreateEquipmentTypeRequest, error) {
	if len(rec) < 4 {
		return dto.CreateEquipmentTypeRequest{}, fmt.Errorf("se esperaban al menos 4 columnas, hay %d", len(rec))
	}
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	req := dto.CreateEquipmentTypeRequest{
		Name:         strings.TrimPrefix(field(0), "\ufeff"),
		CANumber:     field(1),
		Manufacturer: field(2),
		Category:     field(3),
		Description:  field(5),
	}
	if s := field(4); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 0 {
			return req, fmt.Errorf("vidaUtilDias inválido: %q", s)
		}
		req.ServiceLifeDays = days
	}
	return req, nil
}

// importCatalog crea cada tipo y devuelve cuántos se crearon y los errores por línea.
// Un fallo de stock no cuenta como error: el tipo queda creado.
func importCatalog(ctx context.Context, catalog *usecase.CatalogUseCase, lines []catalogLine) (int, []error) {
	var (
		created int
		errs    []error
	)
	for _, l := range lines {
		res, err := catalog.Create(ctx, l.Req)
		if err != nil {
			errs = append(errs, lineError{Line: l.Line, Err: err})
			continue
		}
		created++
		if !res.Stock.OK() {
			fmt.Fprintf(os.Stderr, "línea %d: tipo creado, stock con errores: %s\n", l.Line, strings.Join(res.Stock.Errors, "; "))
		}
	}
	return created, errs
}
