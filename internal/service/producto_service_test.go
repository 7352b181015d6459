package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductoService_CrearDerivaPrecioYAbreHistorial(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	p := e.producto(t, "COCA-500", "10000", "30", 10)

	assert.Equal(t, "14300", p.PrecioVenta.String())
	precios, err := e.productoSvc.ListarPrecios(ctx, uuid.MustParse(p.ID))
	require.NoError(t, err)
	require.Len(t, precios, 1)
	assert.True(t, precios[0].Vigente)
	assert.Equal(t, "14300", precios[0].Precio.String())
}

func TestProductoService_CodigoDuplicado(t *testing.T) {
	e := nuevoEntorno(t)
	e.producto(t, "ARROZ-1K", "8000", "20", 5)

	_, err := e.productoSvc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "ARROZ-1K", Nombre: "Otro arroz", UnidadMedida: "kilos", PrecioCompra: dec("1"), IVA: 5,
	})
	requireCampo(t, err, "codigo")
}

func TestProductoService_CambioDePrecioCierraElVigente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fijarReloj(t, t0)
	p := e.producto(t, "YERBA-500", "10000", "30", 10)
	id := uuid.MustParse(p.ID)

	fijarReloj(t, t0.Add(24*time.Hour))
	act, err := e.productoSvc.Actualizar(ctx, id, dto.ActualizarProductoRequest{PrecioCompra: ptr(dec("11000"))})
	require.NoError(t, err)
	assert.Equal(t, "15730", act.PrecioVenta.String())

	precios, err := e.productoSvc.ListarPrecios(ctx, id)
	require.NoError(t, err)
	require.Len(t, precios, 2)

	vigentes := 0
	for _, pr := range precios {
		if pr.Vigente {
			vigentes++
			assert.Equal(t, "15730", pr.Precio.String())
		} else {
			require.NotNil(t, pr.FechaFin)
			assert.Equal(t, fechaHora(t0.Add(24*time.Hour)), *pr.FechaFin)
		}
	}
	assert.Equal(t, 1, vigentes)
}

func TestProductoService_ActualizarSinCambioDePrecioNoTocaHistorial(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := e.producto(t, "SAL-1K", "3000", "10", 10)
	id := uuid.MustParse(p.ID)

	_, err := e.productoSvc.Actualizar(ctx, id, dto.ActualizarProductoRequest{Nombre: ptr("Sal fina")})
	require.NoError(t, err)

	precios, err := e.productoSvc.ListarPrecios(ctx, id)
	require.NoError(t, err)
	assert.Len(t, precios, 1)
}

// intercalado runs fn once, the first time any wrapped read happens outside
// a transaction.
type intercalado struct {
	una sync.Once
	fn  func()
}

type productosIntercalados struct {
	repository.ProductoRepository
	i *intercalado
}

func (r *productosIntercalados) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := r.ProductoRepository.FindByID(ctx, id)
	r.i.una.Do(r.i.fn)
	return p, err
}

type categoriasIntercaladas struct {
	repository.CategoriaRepository
	i *intercalado
}

func (r *categoriasIntercaladas) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, err := r.CategoriaRepository.FindByID(ctx, id)
	r.i.una.Do(r.i.fn)
	return c, err
}

func (e *entorno) stockEnAlmacenes(t *testing.T, productoID uuid.UUID) int {
	t.Helper()
	var total int
	require.NoError(t, e.db.Model(&model.Inventario{}).
		Where("producto_id = ?", productoID).
		Select("COALESCE(SUM(cantidad), 0)").
		Scan(&total).Error)
	return total
}

func TestProductoService_ActualizarNoPisaUnaEntradaConcurrente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	almacen := e.almacen(t, "Central")
	p := e.producto(t, "FIDEO-500", "4000", "25", 5)
	id := uuid.MustParse(p.ID)
	cat := &model.Categoria{Nombre: "Pastas", Activo: true}
	require.NoError(t, e.db.Create(cat).Error)

	i := &intercalado{fn: func() { e.entrada(t, id, almacen, 7) }}
	svc := NewProductoService(
		&productosIntercalados{ProductoRepository: e.productos, i: i},
		e.precios,
		&categoriasIntercaladas{CategoriaRepository: repository.NewCategoriaRepository(e.db), i: i},
		repository.NewMarcaRepository(e.db),
		repository.NewProveedorRepository(e.db),
		nil,
	)

	act, err := svc.Actualizar(ctx, id, dto.ActualizarProductoRequest{
		Nombre:      ptr("Fideo tallarin"),
		CategoriaID: ptr(cat.ID.String()),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fideo tallarin", act.Nombre)
	assert.Equal(t, cat.ID.String(), *act.CategoriaID)
	assert.Equal(t, 7, e.stockEnAlmacenes(t, id))
	assert.Equal(t, 7, e.stock(t, id))
}

func TestProductoRepository_UpdateNoEscribeStock(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	almacen := e.almacen(t, "Central")
	p := e.producto(t, "AZUCAR-1K", "6000", "20", 10)
	id := uuid.MustParse(p.ID)

	leido, err := e.productos.FindByID(ctx, id)
	require.NoError(t, err)
	e.entrada(t, id, almacen, 4)

	leido.Nombre = "Azucar blanca"
	require.NoError(t, e.productos.Update(ctx, nil, leido))

	assert.Equal(t, 4, e.stock(t, id))
	assert.Equal(t, e.stockEnAlmacenes(t, id), e.stock(t, id))
}

func TestProductoService_CrearPrecio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fijarReloj(t, t0)
	p := e.producto(t, "LECHE-1L", "5000", "20", 5)
	id := uuid.MustParse(p.ID)

	t.Run("fin anterior al inicio", func(t *testing.T) {
		_, err := e.productoSvc.CrearPrecio(ctx, id, dto.CrearPrecioRequest{
			Precio:      dec("7000"),
			FechaInicio: t0.AddDate(0, 0, 5),
			FechaFin:    ptr(t0.AddDate(0, 0, 4)),
		})
		requireCampo(t, err, "fecha_fin")
	})

	t.Run("vigente sin cerrar", func(t *testing.T) {
		_, err := e.productoSvc.CrearPrecio(ctx, id, dto.CrearPrecioRequest{
			Precio:      dec("7000"),
			FechaInicio: t0.AddDate(0, 0, 5),
		})
		requireCampo(t, err, "cerrar_vigente")
	})

	t.Run("inicio anterior al vigente", func(t *testing.T) {
		_, err := e.productoSvc.CrearPrecio(ctx, id, dto.CrearPrecioRequest{
			Precio:        dec("7000"),
			FechaInicio:   t0.AddDate(0, 0, -1),
			CerrarVigente: true,
		})
		requireCampo(t, err, "fecha_inicio")
	})

	t.Run("cierra el vigente", func(t *testing.T) {
		nuevo, err := e.productoSvc.CrearPrecio(ctx, id, dto.CrearPrecioRequest{
			Precio:        dec("7000"),
			FechaInicio:   t0.AddDate(0, 0, 5),
			CerrarVigente: true,
		})
		require.NoError(t, err)
		assert.True(t, nuevo.Vigente)

		consulta, err := e.productoSvc.ConsultarPrecio(ctx, "LECHE-1L")
		require.NoError(t, err)
		assert.Equal(t, "7000", consulta.PrecioVenta.String())
	})

	t.Run("entrada cerrada no afecta el vigente", func(t *testing.T) {
		_, err := e.productoSvc.CrearPrecio(ctx, id, dto.CrearPrecioRequest{
			Precio:      dec("6500"),
			FechaInicio: t0.AddDate(0, 1, 0),
			FechaFin:    ptr(t0.AddDate(0, 2, 0)),
		})
		require.NoError(t, err)

		precios, err := e.productoSvc.ListarPrecios(ctx, id)
		require.NoError(t, err)
		require.Len(t, precios, 3)
		vigentes := 0
		for _, pr := range precios {
			if pr.Vigente {
				vigentes++
			}
		}
		assert.Equal(t, 1, vigentes)
	})
}

func TestProductoService_ReferenciaInexistente(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.productoSvc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo:       "X-1",
		Nombre:       "Sin categoria",
		UnidadMedida: "unidad",
		PrecioCompra: dec("100"),
		IVA:          10,
		CategoriaID:  ptr(uuid.NewString()),
	})
	requireCampo(t, err, "categoria_id")
}

func TestProductoService_ConsultarPrecioCodigoInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.productoSvc.ConsultarPrecio(context.Background(), "NO-EXISTE")
	requireCodigo(t, err, apierror.CodeNotFound)
}
