package service

import (
	"context"
	"sort"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReporteService serves read-only aggregations and the tabular exports.
type ReporteService interface {
	InventarioValorizado(ctx context.Context, filter dto.ReporteFilter) (*dto.InventarioValorizadoResponse, error)
	StockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error)
	Compras(ctx context.Context, filter dto.ReporteFilter) (*dto.ComprasResponse, error)
	Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.VentasResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)

	ExportarProductos(ctx context.Context, filter dto.ProductoFilter) (infra.Tabla, error)
	ExportarPersonas(ctx context.Context, filter dto.PersonaFilter) (infra.Tabla, error)
	ExportarInventario(ctx context.Context, filter dto.ReporteFilter) (infra.Tabla, error)
}

type reporteService struct {
	repo       repository.ReporteRepository
	productos  repository.ProductoRepository
	precios    repository.PrecioRepository
	personas   repository.PersonaRepository
	inventario repository.InventarioRepository
	pedidos    repository.PedidoRepository
	facturas   repository.FacturaRepository
	caja       repository.CajaRepository
}

func NewReporteService(
	repo repository.ReporteRepository,
	productos repository.ProductoRepository,
	precios repository.PrecioRepository,
	personas repository.PersonaRepository,
	inventario repository.InventarioRepository,
	pedidos repository.PedidoRepository,
	facturas repository.FacturaRepository,
	caja repository.CajaRepository,
) ReporteService {
	return &reporteService{
		repo:       repo,
		productos:  productos,
		precios:    precios,
		personas:   personas,
		inventario: inventario,
		pedidos:    pedidos,
		facturas:   facturas,
		caja:       caja,
	}
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func (s *reporteService) InventarioValorizado(ctx context.Context, filter dto.ReporteFilter) (*dto.InventarioValorizadoResponse, error) {
	almacenID, err := parseIDOpcional("almacen_id", &filter.AlmacenID)
	if err != nil {
		return nil, err
	}
	items, err := s.inventario.ListarTodos(ctx, almacenID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventarioValorizadoResponse{Items: make([]dto.InventarioValorizadoItem, 0, len(items)), TotalValor: decimal.Zero}
	for _, inv := range items {
		it := dto.InventarioValorizadoItem{
			AlmacenID:  inv.AlmacenID.String(),
			ProductoID: inv.ProductoID.String(),
			Cantidad:   inv.Cantidad,
		}
		if inv.Almacen != nil {
			it.Almacen = inv.Almacen.Nombre
		}
		if inv.Producto != nil {
			it.Codigo = inv.Producto.Codigo
			it.Producto = inv.Producto.Nombre
			it.PrecioCompra = inv.Producto.PrecioCompra
		}
		it.Valor = it.PrecioCompra.Mul(decimal.NewFromInt(int64(inv.Cantidad)))
		resp.TotalValor = resp.TotalValor.Add(it.Valor)
		resp.Items = append(resp.Items, it)
	}
	sort.SliceStable(resp.Items, func(i, j int) bool {
		a, b := resp.Items[i], resp.Items[j]
		if a.Almacen != b.Almacen {
			return a.Almacen < b.Almacen
		}
		return a.Producto < b.Producto
	})
	return resp, nil
}

func (s *reporteService) StockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	return alertasStock(ctx, s.productos)
}

// Compras totals received purchase orders per proveedor.
func (s *reporteService) Compras(ctx context.Context, filter dto.ReporteFilter) (*dto.ComprasResponse, error) {
	desde, hasta, err := limitesRango(filter.RangoFechas)
	if err != nil {
		return nil, err
	}
	ordenes, err := s.repo.ComprasRecibidas(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	porProveedor := map[uuid.UUID]*dto.CompraProveedorItem{}
	total := decimal.Zero
	for _, o := range ordenes {
		it, ok := porProveedor[o.ProveedorID]
		if !ok {
			it = &dto.CompraProveedorItem{ProveedorID: o.ProveedorID.String(), Total: decimal.Zero}
			if o.Proveedor != nil {
				it.Proveedor = o.Proveedor.RazonSocial
			}
			porProveedor[o.ProveedorID] = it
		}
		it.Ordenes++
		it.Total = it.Total.Add(o.Total)
		total = total.Add(o.Total)
	}

	items := make([]dto.CompraProveedorItem, 0, len(porProveedor))
	for _, it := range porProveedor {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Total.GreaterThan(items[j].Total) })
	return &dto.ComprasResponse{Desde: filter.Desde, Hasta: filter.Hasta, Items: items, Total: total}, nil
}

// Ventas totals non-annulled invoices per day.
func (s *reporteService) Ventas(ctx context.Context, filter dto.ReporteFilter) (*dto.VentasResponse, error) {
	desde, hasta, err := limitesRango(filter.RangoFechas)
	if err != nil {
		return nil, err
	}
	facturas, err := s.repo.FacturasEmitidas(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	var items []dto.VentaDiaItem
	total := decimal.Zero
	for _, f := range facturas {
		dia := f.Fecha.UTC().Format(dto.FormatoFecha)
		if n := len(items); n == 0 || items[n-1].Fecha != dia {
			items = append(items, dto.VentaDiaItem{Fecha: dia, Total: decimal.Zero})
		}
		it := &items[len(items)-1]
		it.Facturas++
		it.Total = it.Total.Add(f.Total)
		total = total.Add(f.Total)
	}
	if items == nil {
		items = []dto.VentaDiaItem{}
	}
	return &dto.VentasResponse{Desde: filter.Desde, Hasta: filter.Hasta, Items: items, Total: total}, nil
}

func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	activos, bajoMinimo, err := s.repo.ContarProductos(ctx)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.pedidos.CountPorEstado(ctx, model.PedidoPendiente)
	if err != nil {
		return nil, err
	}
	facturas, err := s.facturas.CountPorEstado(ctx, model.FacturaPendiente)
	if err != nil {
		return nil, err
	}

	hoy := ahora().Truncate(24 * time.Hour)
	manana := hoy.AddDate(0, 0, 1)
	emitidas, err := s.repo.FacturasEmitidas(ctx, &hoy, &manana)
	if err != nil {
		return nil, err
	}
	ventas := decimal.Zero
	for _, f := range emitidas {
		ventas = ventas.Add(f.Total)
	}

	_, err = s.caja.FindAbierta(ctx, nil)
	if err != nil && !repository.EsNoEncontrado(err) {
		return nil, err
	}

	return &dto.DashboardResponse{
		ProductosActivos:   activos,
		BajoMinimo:         bajoMinimo,
		PedidosPendientes:  pedidos,
		FacturasPendientes: facturas,
		VentasHoy:          ventas,
		CajaAbierta:        err == nil,
	}, nil
}

// ── Exportaciones ────────────────────────────────────────────────────────────

func (s *reporteService) ExportarProductos(ctx context.Context, filter dto.ProductoFilter) (infra.Tabla, error) {
	productos, err := s.productos.ListarTodos(ctx, filter)
	if err != nil {
		return infra.Tabla{}, err
	}
	ids := make([]uuid.UUID, len(productos))
	for i, p := range productos {
		ids[i] = p.ID
	}
	vigentes, err := s.precios.Vigentes(ctx, ids)
	if err != nil {
		return infra.Tabla{}, err
	}

	t := infra.Tabla{
		Hoja:     "Productos",
		Columnas: []string{"Código", "Nombre", "Categoría", "Marca", "Precio vigente", "IVA %", "Stock mínimo"},
	}
	for _, p := range productos {
		precio, ok := vigentes[p.ID]
		if !ok {
			precio = p.PrecioVenta
		}
		categoria, marca := "", ""
		if p.Categoria != nil {
			categoria = p.Categoria.Nombre
		}
		if p.Marca != nil {
			marca = p.Marca.Nombre
		}
		t.Filas = append(t.Filas, []any{p.Codigo, p.Nombre, categoria, marca, precio, p.IVA, p.StockMinimo})
	}
	return t, nil
}

func (s *reporteService) ExportarPersonas(ctx context.Context, filter dto.PersonaFilter) (infra.Tabla, error) {
	personas, err := s.personas.ListarTodos(ctx, filter)
	if err != nil {
		return infra.Tabla{}, err
	}
	t := infra.Tabla{
		Hoja:     "Personas",
		Columnas: []string{"Tipo", "Documento", "RUC", "Nombre", "Apellido", "Teléfono", "Email", "Ciudad", "Activo"},
	}
	for _, p := range personas {
		t.Filas = append(t.Filas, []any{p.Tipo, p.Documento, p.RUC, p.Nombre, p.Apellido, p.Telefono, p.Email, p.Ciudad, p.Activo})
	}
	return t, nil
}

func (s *reporteService) ExportarInventario(ctx context.Context, filter dto.ReporteFilter) (infra.Tabla, error) {
	resp, err := s.InventarioValorizado(ctx, filter)
	if err != nil {
		return infra.Tabla{}, err
	}
	return TablaInventario(resp), nil
}

// TablaInventario lays out the valued inventory report for export.
func TablaInventario(r *dto.InventarioValorizadoResponse) infra.Tabla {
	t := infra.Tabla{
		Hoja:     "Inventario",
		Columnas: []string{"Almacén", "Código", "Producto", "Cantidad", "Precio compra", "Valor"},
	}
	for _, it := range r.Items {
		t.Filas = append(t.Filas, []any{it.Almacen, it.Codigo, it.Producto, it.Cantidad, it.PrecioCompra, it.Valor})
	}
	return t
}

func TablaStockBajo(items []dto.AlertaStockResponse) infra.Tabla {
	t := infra.Tabla{
		Hoja:     "Stock bajo",
		Columnas: []string{"Código", "Producto", "Stock", "Stock mínimo", "Faltante"},
	}
	for _, it := range items {
		t.Filas = append(t.Filas, []any{it.Codigo, it.Nombre, it.Stock, it.StockMinimo, it.Faltante})
	}
	return t
}

func TablaCompras(r *dto.ComprasResponse) infra.Tabla {
	t := infra.Tabla{
		Hoja:     "Compras",
		Columnas: []string{"Proveedor", "Órdenes", "Total"},
	}
	for _, it := range r.Items {
		t.Filas = append(t.Filas, []any{it.Proveedor, it.Ordenes, it.Total})
	}
	return t
}

func TablaVentas(r *dto.VentasResponse) infra.Tabla {
	t := infra.Tabla{
		Hoja:     "Ventas",
		Columnas: []string{"Fecha", "Facturas", "Total"},
	}
	for _, it := range r.Items {
		t.Filas = append(t.Filas, []any{it.Fecha, it.Facturas, it.Total})
	}
	return t
}
