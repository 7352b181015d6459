package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ── Almacenes ────────────────────────────────────────────────────────────────

type AlmacenService interface {
	Crear(ctx context.Context, req dto.AlmacenRequest) (*dto.AlmacenResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.AlmacenResponse, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.AlmacenResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.AlmacenRequest) (*dto.AlmacenResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type almacenService struct {
	repo repository.AlmacenRepository
}

func NewAlmacenService(repo repository.AlmacenRepository) AlmacenService {
	return &almacenService{repo: repo}
}

func mapAlmacen(a *model.Almacen) dto.AlmacenResponse {
	return dto.AlmacenResponse{
		ID:          a.ID.String(),
		Nombre:      a.Nombre,
		Direccion:   a.Direccion,
		Descripcion: a.Descripcion,
		Activo:      a.Activo,
	}
}

func (s *almacenService) Crear(ctx context.Context, req dto.AlmacenRequest) (*dto.AlmacenResponse, error) {
	a := &model.Almacen{
		Nombre:      strings.TrimSpace(req.Nombre),
		Direccion:   recortar(req.Direccion),
		Descripcion: recortar(req.Descripcion),
		Activo:      true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe un almacen con ese nombre")
	}
	resp := mapAlmacen(a)
	return &resp, nil
}

func (s *almacenService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.AlmacenResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Almacen no encontrado")
	}
	resp := mapAlmacen(a)
	return &resp, nil
}

func (s *almacenService) Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.AlmacenResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AlmacenResponse, 0, len(list))
	for i := range list {
		data = append(data, mapAlmacen(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *almacenService) Actualizar(ctx context.Context, id uuid.UUID, req dto.AlmacenRequest) (*dto.AlmacenResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Almacen no encontrado")
	}
	a.Nombre = strings.TrimSpace(req.Nombre)
	a.Direccion = recortar(req.Direccion)
	a.Descripcion = recortar(req.Descripcion)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe un almacen con ese nombre")
	}
	resp := mapAlmacen(a)
	return &resp, nil
}

func (s *almacenService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Almacen no encontrado")
	}
	if err := s.repo.SetActivo(ctx, id, !a.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !a.Activo}, nil
}

// ── Libro de stock ───────────────────────────────────────────────────────────

// libroStock applies movements to the per-warehouse counters and the
// product aggregate. Both rows are locked FOR UPDATE, so concurrent salidas
// on the same product serialize.
type libroStock struct {
	productos  repository.ProductoRepository
	inventario repository.InventarioRepository
}

// aplicarTx books m inside tx. It fills StockAnterior and StockNuevo with the
// warehouse level and returns the locked product.
func (l *libroStock) aplicarTx(tx *gorm.DB, m *model.MovimientoStock) (*model.Producto, error) {
	inv, err := l.inventario.BloquearTx(tx, m.ProductoID, m.AlmacenID)
	if err != nil {
		return nil, err
	}
	p, err := l.productos.FindByIDTx(tx, m.ProductoID, true)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}

	nuevo := inv.Cantidad + m.Delta()
	if nuevo < 0 {
		return nil, apierror.Validation("cantidad", fmt.Sprintf("Stock insuficiente en el almacen: disponible %d", inv.Cantidad))
	}
	m.StockAnterior = inv.Cantidad
	m.StockNuevo = nuevo

	if err := l.inventario.ActualizarCantidadTx(tx, inv.ID, nuevo); err != nil {
		return nil, err
	}
	if err := l.productos.AjustarStockTx(tx, p.ID, m.Delta()); err != nil {
		return nil, err
	}
	if err := l.inventario.CrearMovimientoTx(tx, m); err != nil {
		return nil, err
	}
	p.Stock += m.Delta()
	return p, nil
}

// ── Inventario ───────────────────────────────────────────────────────────────

// InventarioService owns stock movements and stock queries.
type InventarioService interface {
	RegistrarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.ListResponse[dto.MovimientoResponse], error)
	ListarInventario(ctx context.Context, filter dto.InventarioFilter) (*dto.ListResponse[dto.InventarioResponse], error)
	// Alertas lists active products whose aggregate stock is under stock_minimo.
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	libro     *libroStock
	almacenes repository.AlmacenRepository
	cache     *cachePrecios
	metrics   *metrics.Metrics
}

func NewInventarioService(
	productos repository.ProductoRepository,
	inventario repository.InventarioRepository,
	almacenes repository.AlmacenRepository,
	rdb *redis.Client,
	m *metrics.Metrics,
) InventarioService {
	return &inventarioService{
		libro:     &libroStock{productos: productos, inventario: inventario},
		almacenes: almacenes,
		cache:     &cachePrecios{rdb: rdb},
		metrics:   m,
	}
}

func (s *inventarioService) RegistrarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	productoID, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return nil, err
	}
	almacenID, err := parseID("almacen_id", req.AlmacenID)
	if err != nil {
		return nil, err
	}
	if req.Cantidad <= 0 {
		return nil, apierror.Validation("cantidad", "La cantidad debe ser mayor a cero")
	}

	almacen, err := s.almacenes.FindByID(ctx, almacenID)
	if err != nil {
		return nil, noEncontrado(err, "Almacen no encontrado")
	}
	if !almacen.Activo {
		return nil, apierror.Validation("almacen_id", "El almacen esta inactivo")
	}

	m := &model.MovimientoStock{
		ProductoID:  productoID,
		AlmacenID:   almacenID,
		Tipo:        req.Tipo,
		Cantidad:    req.Cantidad,
		Observacion: recortar(req.Observacion),
		UsuarioID:   usuarioID,
	}
	var producto *model.Producto
	err = runTx(ctx, s.libro.inventario.DB(), func(tx *gorm.DB) error {
		p, err := s.libro.productos.FindByIDTx(tx, productoID, false)
		if err != nil {
			return noEncontrado(err, "Producto no encontrado")
		}
		if !p.Activo {
			return apierror.Validation("producto_id", "El producto esta inactivo")
		}
		producto, err = s.libro.aplicarTx(tx, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovimiento(m.Tipo)
	s.cache.Invalidar(ctx, producto.Codigo)
	log.Info().
		Str("producto", producto.Codigo).
		Str("almacen", almacen.Nombre).
		Str("tipo", m.Tipo).
		Int("cantidad", m.Cantidad).
		Int("stock_nuevo", m.StockNuevo).
		Msg("movimiento de stock registrado")

	m.Producto, m.Almacen = producto, almacen
	resp := toMovimientoResponse(m)
	return &resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.ListResponse[dto.MovimientoResponse], error) {
	if _, _, err := limitesRango(filter.RangoFechas); err != nil {
		return nil, err
	}
	movs, total, err := s.libro.inventario.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, toMovimientoResponse(&movs[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *inventarioService) ListarInventario(ctx context.Context, filter dto.InventarioFilter) (*dto.ListResponse[dto.InventarioResponse], error) {
	items, total, err := s.libro.inventario.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, 0, len(items))
	for i := range items {
		data = append(data, toInventarioResponse(&items[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *inventarioService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	return alertasStock(ctx, s.libro.productos)
}

func alertasStock(ctx context.Context, productos repository.ProductoRepository) ([]dto.AlertaStockResponse, error) {
	bajos, err := productos.ListarTodos(ctx, dto.ProductoFilter{Activo: "true", BajoMinimo: true})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaStockResponse, 0, len(bajos))
	for _, p := range bajos {
		out = append(out, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
			Faltante:    p.StockMinimo - p.Stock,
		})
	}
	return out, nil
}

func toMovimientoResponse(m *model.MovimientoStock) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		AlmacenID:     m.AlmacenID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Observacion:   m.Observacion,
		UsuarioID:     idString(m.UsuarioID),
		OrdenCompraID: idString(m.OrdenCompraID),
		CreatedAt:     fechaHora(m.CreatedAt),
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.Almacen != nil {
		resp.Almacen = m.Almacen.Nombre
	}
	return resp
}

func toInventarioResponse(inv *model.Inventario) dto.InventarioResponse {
	resp := dto.InventarioResponse{
		ID:         inv.ID.String(),
		ProductoID: inv.ProductoID.String(),
		AlmacenID:  inv.AlmacenID.String(),
		Cantidad:   inv.Cantidad,
	}
	if inv.Producto != nil {
		resp.Codigo = inv.Producto.Codigo
		resp.Producto = inv.Producto.Nombre
	}
	if inv.Almacen != nil {
		resp.Almacen = inv.Almacen.Nombre
	}
	return resp
}
