package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/testutil"
	"github.com/DerliscrDev/bodega-eirete/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

// entorno wires every service over one in-memory database.
type entorno struct {
	db  *gorm.DB
	cfg *config.Config

	productos  repository.ProductoRepository
	precios    repository.PrecioRepository
	personas   repository.PersonaRepository
	inventario repository.InventarioRepository
	usuarios   repository.UsuarioRepository
	permisos   repository.PermisoRepository
	roles      repository.RolRepository
	cajaRepo   repository.CajaRepository

	cola *colaFalsa

	acceso      AccesoService
	auth        AuthService
	personaSvc  PersonaService
	almacenSvc  AlmacenService
	productoSvc ProductoService
	inventSvc   InventarioService
	ordenSvc    OrdenCompraService
	pedidoSvc   PedidoService
	facturaSvc  FacturaService
	cajaSvc     CajaService
	reporteSvc  ReporteService
	rolSvc      RolService
	usuarioSvc  UsuarioService
	seedSvc     SeedService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	return entornoSobre(t, testutil.NewDB(t))
}

// entornoSobre wires the services over an already migrated database.
func entornoSobre(t *testing.T, db *gorm.DB) *entorno {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:             "secreto-de-prueba",
		JWTExpirationHours:    1,
		JWTRefreshHours:       24,
		PasswordTokenHours:    72,
		PermisosBootstrap:     true,
		PermisosCacheSegundos: 60,
		EmpresaNombre:         "Bodega Eirete",
		EmpresaRUC:            "80000001-1",
		Timbrado:              "12345678",
		Establecimiento:       1,
		PuntoExpedicion:       1,
		PDFStoragePath:        t.TempDir(),
		FrontendURL:           "http://localhost:5173",
	}

	e := &entorno{
		db:         db,
		cfg:        cfg,
		productos:  repository.NewProductoRepository(db),
		precios:    repository.NewPrecioRepository(db),
		personas:   repository.NewPersonaRepository(db),
		inventario: repository.NewInventarioRepository(db),
		usuarios:   repository.NewUsuarioRepository(db),
		permisos:   repository.NewPermisoRepository(db),
		roles:      repository.NewRolRepository(db),
		cajaRepo:   repository.NewCajaRepository(db),
		cola:       &colaFalsa{},
	}
	categorias := repository.NewCategoriaRepository(db)
	marcas := repository.NewMarcaRepository(db)
	proveedores := repository.NewProveedorRepository(db)
	almacenes := repository.NewAlmacenRepository(db)
	pedidos := repository.NewPedidoRepository(db)
	facturas := repository.NewFacturaRepository(db)

	e.acceso = NewAccesoService(e.usuarios, e.permisos, nil, cfg, nil)
	e.auth = NewAuthService(e.usuarios, e.acceso, cfg)
	e.personaSvc = NewPersonaService(e.personas)
	e.almacenSvc = NewAlmacenService(almacenes)
	e.productoSvc = NewProductoService(e.productos, e.precios, categorias, marcas, proveedores, nil)
	e.inventSvc = NewInventarioService(e.productos, e.inventario, almacenes, nil, nil)
	e.ordenSvc = NewOrdenCompraService(repository.NewOrdenCompraRepository(db), proveedores, almacenes, e.productos, e.inventario, nil, nil)
	e.pedidoSvc = NewPedidoService(pedidos, e.personas, e.productos)
	e.facturaSvc = NewFacturaService(facturas, pedidos, e.personas, e.productos, e.cajaRepo, e.cola, cfg, nil)
	e.cajaSvc = NewCajaService(e.cajaRepo)
	e.reporteSvc = NewReporteService(repository.NewReporteRepository(db), e.productos, e.precios, e.personas,
		e.inventario, pedidos, facturas, e.cajaRepo)
	e.rolSvc = NewRolService(e.roles, e.permisos, e.acceso)
	e.usuarioSvc = NewUsuarioService(e.usuarios, e.roles, e.personas, e.auth, e.acceso, e.cola, cfg)
	e.seedSvc = NewSeedService(e.permisos, e.roles, e.personas, e.usuarios, e.acceso)
	return e
}

// colaFalsa records enqueued emails instead of sending them.
type colaFalsa struct {
	mu       sync.Mutex
	enviados []worker.EmailJobPayload
}

func (c *colaFalsa) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enviados = append(c.enviados, p)
	return nil
}

func (c *colaFalsa) ultimo(t *testing.T) worker.EmailJobPayload {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.enviados)
	return c.enviados[len(c.enviados)-1]
}

// fijarReloj pins ahora() for the duration of the test.
func fijarReloj(t *testing.T, tm time.Time) {
	t.Helper()
	previo := ahora
	ahora = func() time.Time { return tm }
	t.Cleanup(func() { ahora = previo })
}

// requireCampo asserts err is a validation error attached to campo.
func requireCampo(t *testing.T, err error, campo string) {
	t.Helper()
	e, ok := apierror.As(err)
	require.True(t, ok, "error inesperado: %v", err)
	require.Equal(t, apierror.CodeValidation, e.Code())
	require.Contains(t, e.Fields(), campo)
}

func requireCodigo(t *testing.T, err error, code apierror.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apierror.Is(err, code), "se esperaba %s, se obtuvo %v", code, err)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// ── Fixtures ─────────────────────────────────────────────────────────────────

func (e *entorno) almacen(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	a, err := e.almacenSvc.Crear(context.Background(), dto.AlmacenRequest{Nombre: nombre})
	require.NoError(t, err)
	return uuid.MustParse(a.ID)
}

func (e *entorno) producto(t *testing.T, codigo, compra, margen string, iva int) *dto.ProductoResponse {
	t.Helper()
	p, err := e.productoSvc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo:       codigo,
		Nombre:       "Producto " + codigo,
		UnidadMedida: "unidad",
		PrecioCompra: dec(compra),
		Margen:       dec(margen),
		IVA:          iva,
		StockMinimo:  5,
	})
	require.NoError(t, err)
	return p
}

func (e *entorno) cliente(t *testing.T, documento string) uuid.UUID {
	t.Helper()
	c, err := e.personaSvc.CrearCliente(context.Background(), dto.ClienteRequest{
		PersonaRequest: dto.PersonaRequest{
			Documento: ptr(documento),
			Nombre:    "juan",
			Apellido:  "perez",
			Email:     ptr("juan." + documento + "@example.com"),
		},
		CondicionPago: "contado",
		LimiteCredito: decimal.Zero,
	})
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

func (e *entorno) entrada(t *testing.T, productoID, almacenID uuid.UUID, cantidad int) {
	t.Helper()
	_, err := e.inventSvc.RegistrarMovimiento(context.Background(), nil, dto.MovimientoRequest{
		ProductoID: productoID.String(),
		AlmacenID:  almacenID.String(),
		Tipo:       "entrada",
		Cantidad:   cantidad,
	})
	require.NoError(t, err)
}

func (e *entorno) stock(t *testing.T, productoID uuid.UUID) int {
	t.Helper()
	p, err := e.productos.FindByID(context.Background(), productoID)
	require.NoError(t, err)
	return p.Stock
}
