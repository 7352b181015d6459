//go:build integration

package service

// Runs against a real Postgres so row locks and the goose schema are the
// production ones:
//
//	go test -tags integration ./internal/service/ -run Postgres -v

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func entornoPostgres(t *testing.T) *entorno {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("bodega_test"),
		tcPostgres.WithUsername("bodega"),
		tcPostgres.WithPassword("bodega"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Close(db, nil) })

	require.NoError(t, infra.Migrar(ctx, db, "up"))
	return entornoSobre(t, db)
}

func TestPostgres_SalidasConcurrentesNoDejanStockNegativo(t *testing.T) {
	e := entornoPostgres(t)
	almacen := e.almacen(t, "Deposito")
	p := e.producto(t, "AGUA-500", "2000", "30", 10)
	productoID := uuid.MustParse(p.ID)
	e.entrada(t, productoID, almacen, 10)

	const intentos = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exitos   int
		rechazos int
		otros    []error
	)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.inventSvc.RegistrarMovimiento(context.Background(), nil, dto.MovimientoRequest{
				ProductoID: p.ID,
				AlmacenID:  almacen.String(),
				Tipo:       "salida",
				Cantidad:   1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				exitos++
			case apierror.Is(err, apierror.CodeValidation):
				rechazos++
			default:
				otros = append(otros, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, otros)
	assert.Equal(t, 10, exitos)
	assert.Equal(t, intentos-10, rechazos)
	assert.Equal(t, 0, e.stock(t, productoID))

	movs, err := e.inventSvc.ListarMovimientos(context.Background(), dto.MovimientoFilter{
		ProductoID: p.ID,
		Paginacion: dto.Paginacion{Page: 1, Limit: 100},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 11, movs.Total)
}

func TestPostgres_NumeracionDeFacturasSinHuecos(t *testing.T) {
	e := entornoPostgres(t)
	almacen := e.almacen(t, "Deposito")
	p := e.producto(t, "YERBA-1", "15000", "20", 10)
	e.entrada(t, uuid.MustParse(p.ID), almacen, 100)
	cliente := e.cliente(t, "4567890")

	const n = 8
	numeros := make(chan string, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := e.facturaSvc.Crear(context.Background(), nil, dto.CrearFacturaRequest{
				ClienteID:      cliente.String(),
				CondicionVenta: "contado",
				Detalles:       []dto.DetalleFacturaRequest{{ProductoID: p.ID, Cantidad: 1}},
			})
			if err != nil {
				errs <- err
				return
			}
			numeros <- f.Numero
		}()
	}
	wg.Wait()
	close(numeros)
	close(errs)

	require.NoError(t, errors.Join(drenar(errs)...))
	vistos := map[string]bool{}
	for num := range numeros {
		assert.False(t, vistos[num], "numero repetido %s", num)
		vistos[num] = true
	}
	assert.Len(t, vistos, n)
	assert.True(t, vistos["001-001-0000001"])
	assert.True(t, vistos["001-001-0000008"])
}

func TestPostgres_MigracionesReversibles(t *testing.T) {
	e := entornoPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, infra.Migrar(ctx, e.db, "down"))
	require.NoError(t, infra.Migrar(ctx, e.db, "up"))
	assert.True(t, e.db.Migrator().HasTable("facturas"))
}

func drenar(ch <-chan error) []error {
	var out []error
	for err := range ch {
		out = append(out, err)
	}
	return out
}
