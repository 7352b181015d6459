package router

import (
	"net/http"

	_ "github.com/DerliscrDev/bodega-eirete/docs"
	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/handler"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/middleware"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles the API is built on. Redis, Queue and
// Metrics are optional.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Queue    service.EmailQueue
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS(cfg.FrontendURL, cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.APIRateLimiter(d.Redis, 1000))

	db, rdb, m := d.DB, d.Redis, d.Metrics

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	rolRepo := repository.NewRolRepository(db)
	permisoRepo := repository.NewPermisoRepository(db)
	personaRepo := repository.NewPersonaRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	marcaRepo := repository.NewMarcaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	precioRepo := repository.NewPrecioRepository(db)
	almacenRepo := repository.NewAlmacenRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	ordenRepo := repository.NewOrdenCompraRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	accesoSvc := service.NewAccesoService(usuarioRepo, permisoRepo, rdb, cfg, m)
	authSvc := service.NewAuthService(usuarioRepo, accesoSvc, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, rolRepo, personaRepo, authSvc, accesoSvc, d.Queue, cfg)
	rolSvc := service.NewRolService(rolRepo, permisoRepo, accesoSvc)
	permisoSvc := service.NewPermisoService(permisoRepo, accesoSvc)
	personaSvc := service.NewPersonaService(personaRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	marcaSvc := service.NewMarcaService(marcaRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	productoSvc := service.NewProductoService(productoRepo, precioRepo, categoriaRepo, marcaRepo, proveedorRepo, rdb)
	almacenSvc := service.NewAlmacenService(almacenRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, inventarioRepo, almacenRepo, rdb, m)
	ordenSvc := service.NewOrdenCompraService(ordenRepo, proveedorRepo, almacenRepo, productoRepo, inventarioRepo, rdb, m)
	pedidoSvc := service.NewPedidoService(pedidoRepo, personaRepo, productoRepo)
	facturaSvc := service.NewFacturaService(facturaRepo, pedidoRepo, personaRepo, productoRepo, cajaRepo, d.Queue, cfg, m)
	cajaSvc := service.NewCajaService(cajaRepo)
	reporteSvc := service.NewReporteService(reporteRepo, productoRepo, precioRepo, personaRepo,
		inventarioRepo, pedidoRepo, facturaRepo, cajaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	rolesH := handler.NewRolesHandler(rolSvc)
	permisosH := handler.NewPermisosHandler(permisoSvc)
	personasH := handler.NewPersonasHandler(personaSvc)
	categoriasH := handler.NewCatalogoHandler[dto.CategoriaRequest, dto.CategoriaResponse](categoriaSvc)
	marcasH := handler.NewCatalogoHandler[dto.MarcaRequest, dto.MarcaResponse](marcaSvc)
	proveedoresH := handler.NewCatalogoHandler[dto.ProveedorRequest, dto.ProveedorResponse](proveedorSvc)
	almacenesH := handler.NewCatalogoHandler[dto.AlmacenRequest, dto.AlmacenResponse](almacenSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	preciosH := handler.NewPreciosHandler(productoSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ordenesH := handler.NewOrdenesCompraHandler(ordenSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recurso no encontrado"})
	})

	// Auth (public, rate limited)
	login := middleware.LoginRateLimiter(rdb)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", login, authH.Login)
		auth.POST("/refresh", login, authH.Refresh)
		auth.POST("/primer-cambio", login, authH.PrimerCambio)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	perm := func(codigo string) gin.HandlerFunc { return middleware.RequirePermiso(accesoSvc, codigo) }

	v1.GET("/auth/me", authH.Me)
	v1.POST("/auth/cambiar-password", authH.CambiarPassword)

	// ── Identity & access
	usuarios := v1.Group("/usuarios")
	{
		usuarios.GET("", perm("usuarios.ver"), usuariosH.Listar)
		usuarios.POST("", perm("usuarios.crear"), usuariosH.Crear)
		usuarios.GET("/:id", perm("usuarios.ver"), usuariosH.ObtenerPorID)
		usuarios.PUT("/:id", perm("usuarios.editar"), usuariosH.Actualizar)
		usuarios.PATCH("/:id/activo", perm("usuarios.activar"), usuariosH.AlternarActivo)
		usuarios.PUT("/:id/roles", perm("usuarios.editar"), usuariosH.AsignarRoles)
		usuarios.POST("/:id/reenviar-acceso", perm("usuarios.editar"), usuariosH.ReenviarAcceso)
	}
	roles := v1.Group("/roles")
	{
		roles.GET("", perm("roles.ver"), rolesH.Listar)
		roles.POST("", perm("roles.crear"), rolesH.Crear)
		roles.GET("/:id", perm("roles.ver"), rolesH.ObtenerPorID)
		roles.PUT("/:id", perm("roles.editar"), rolesH.Actualizar)
		roles.PATCH("/:id/activo", perm("roles.activar"), rolesH.AlternarActivo)
		roles.PUT("/:id/permisos", perm("roles.editar"), rolesH.AsignarPermisos)
	}
	permisos := v1.Group("/permisos")
	{
		permisos.GET("", perm("permisos.ver"), permisosH.Listar)
		permisos.POST("", perm("permisos.crear"), permisosH.Crear)
		permisos.PUT("/:id", perm("permisos.editar"), permisosH.Actualizar)
		permisos.PATCH("/:id/activo", perm("permisos.activar"), permisosH.AlternarActivo)
	}

	// ── People
	personas := v1.Group("/personas")
	{
		personas.GET("", perm("personas.ver"), personasH.Listar)
		personas.POST("", perm("personas.crear"), personasH.CrearContacto)
		personas.GET("/exportar", perm("personas.exportar"), reportesH.ExportarPersonas)
		personas.GET("/:id", perm("personas.ver"), personasH.ObtenerPorID)
		personas.PUT("/:id", perm("personas.editar"), personasH.Actualizar)
		personas.PATCH("/:id/activo", perm("personas.activar"), personasH.AlternarActivo)
	}
	empleados := v1.Group("/empleados")
	{
		empleados.GET("", perm("personas.ver"), personasH.ListarTipo(model.TipoEmpleado))
		empleados.POST("", perm("empleados.crear"), personasH.CrearEmpleado)
		empleados.PUT("/:id", perm("empleados.editar"), personasH.ActualizarEmpleado)
	}
	clientes := v1.Group("/clientes")
	{
		clientes.GET("", perm("personas.ver"), personasH.ListarTipo(model.TipoCliente))
		clientes.POST("", perm("clientes.crear"), personasH.CrearCliente)
		clientes.PUT("/:id", perm("clientes.editar"), personasH.ActualizarCliente)
	}

	// ── Catalog
	catalogo(v1, "/categorias", "categorias", perm, categoriasH)
	catalogo(v1, "/marcas", "marcas", perm, marcasH)
	catalogo(v1, "/proveedores", "proveedores", perm, proveedoresH)
	catalogo(v1, "/almacenes", "almacenes", perm, almacenesH)

	productos := v1.Group("/productos")
	{
		productos.GET("", perm("productos.ver"), productosH.Listar)
		productos.POST("", perm("productos.crear"), productosH.Crear)
		productos.GET("/exportar", perm("productos.exportar"), reportesH.ExportarProductos)
		productos.GET("/consulta/:codigo", perm("productos.ver"), consultaH.PorCodigo)
		productos.GET("/:id", perm("productos.ver"), productosH.ObtenerPorID)
		productos.PUT("/:id", perm("productos.editar"), productosH.Actualizar)
		productos.PATCH("/:id/activo", perm("productos.activar"), productosH.AlternarActivo)
		productos.GET("/:id/precios", perm("precios.ver"), preciosH.Listar)
		productos.POST("/:id/precios", perm("precios.crear"), preciosH.Crear)
	}

	// ── Inventory & purchasing
	v1.GET("/inventario", perm("inventario.ver"), inventarioH.ListarInventario)
	v1.GET("/inventario/alertas", perm("inventario.ver"), inventarioH.Alertas)
	v1.GET("/inventario/exportar", perm("inventario.exportar"), reportesH.ExportarInventario)
	v1.GET("/movimientos", perm("movimientos.ver"), inventarioH.ListarMovimientos)
	v1.POST("/movimientos", perm("movimientos.crear"), inventarioH.RegistrarMovimiento)

	ordenes := v1.Group("/ordenes-compra")
	{
		ordenes.GET("", perm("ordenes_compra.ver"), ordenesH.Listar)
		ordenes.POST("", perm("ordenes_compra.crear"), ordenesH.Crear)
		ordenes.GET("/:id", perm("ordenes_compra.ver"), ordenesH.ObtenerPorID)
		ordenes.POST("/:id/recibir", perm("ordenes_compra.recibir"), ordenesH.Recibir)
		ordenes.POST("/:id/cancelar", perm("ordenes_compra.cancelar"), ordenesH.Cancelar)
	}

	// ── Sales
	pedidos := v1.Group("/pedidos")
	{
		pedidos.GET("", perm("pedidos.ver"), pedidosH.Listar)
		pedidos.POST("", perm("pedidos.crear"), pedidosH.Crear)
		pedidos.GET("/:id", perm("pedidos.ver"), pedidosH.ObtenerPorID)
		pedidos.PUT("/:id", perm("pedidos.editar"), pedidosH.Actualizar)
		pedidos.PATCH("/:id/estado", perm("pedidos.estado"), pedidosH.CambiarEstado)
	}
	facturas := v1.Group("/facturas")
	{
		facturas.GET("", perm("facturas.ver"), facturasH.Listar)
		facturas.POST("", perm("facturas.crear"), facturasH.Crear)
		facturas.POST("/desde-pedido", perm("facturas.crear"), facturasH.DesdePedido)
		facturas.GET("/:id", perm("facturas.ver"), facturasH.ObtenerPorID)
		facturas.POST("/:id/detalles", perm("facturas.editar"), facturasH.AgregarDetalle)
		facturas.DELETE("/:id/detalles/:detalle_id", perm("facturas.editar"), facturasH.EliminarDetalle)
		facturas.POST("/:id/anular", perm("facturas.anular"), facturasH.Anular)
		facturas.POST("/:id/cobrar", perm("facturas.cobrar"), facturasH.Cobrar)
		facturas.GET("/:id/pdf", perm("facturas.ver"), facturasH.PDF)
		facturas.POST("/:id/enviar", perm("facturas.enviar"), facturasH.Enviar)
	}

	caja := v1.Group("/caja")
	{
		caja.POST("/abrir", perm("caja.abrir"), cajaH.Abrir)
		caja.POST("/movimientos", perm("caja.movimiento"), cajaH.RegistrarMovimiento)
		caja.POST("/cerrar", perm("caja.cerrar"), cajaH.Cerrar)
		caja.GET("/activa", perm("caja.ver"), cajaH.Activa)
		caja.GET("/historial", perm("caja.ver"), cajaH.Historial)
		caja.GET("/:id", perm("caja.ver"), cajaH.ObtenerPorID)
	}

	// ── Reports
	reportes := v1.Group("/reportes")
	{
		reportes.GET("/dashboard", perm("dashboard.ver"), reportesH.Dashboard)
		reportes.GET("/inventario", perm("reportes.inventario"), reportesH.InventarioValorizado)
		reportes.GET("/stock-bajo", perm("reportes.inventario"), reportesH.StockBajo)
		reportes.GET("/compras", perm("reportes.compras"), reportesH.Compras)
		reportes.GET("/ventas", perm("reportes.ventas"), reportesH.Ventas)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// catalogo registers the five CRUD routes of a catalog resource gated by
// <modulo>.ver|crear|editar|activar.
func catalogo[Req, Resp any](
	g *gin.RouterGroup,
	path, modulo string,
	perm func(string) gin.HandlerFunc,
	h *handler.CatalogoHandler[Req, Resp],
) {
	grp := g.Group(path)
	grp.GET("", perm(modulo+".ver"), h.Listar)
	grp.POST("", perm(modulo+".crear"), h.Crear)
	grp.GET("/:id", perm(modulo+".ver"), h.ObtenerPorID)
	grp.PUT("/:id", perm(modulo+".editar"), h.Actualizar)
	grp.PATCH("/:id/activo", perm(modulo+".activar"), h.AlternarActivo)
}
