package service

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrdenCompraService handles purchase orders. Receiving an order is the only
// way purchased goods enter stock.
type OrdenCompraService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearOrdenCompraRequest) (*dto.OrdenCompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error)
	Listar(ctx context.Context, filter dto.OrdenCompraFilter) (*dto.ListResponse[dto.OrdenCompraResponse], error)
	// Recibir is idempotent: a second call on a received order changes nothing.
	Recibir(ctx context.Context, id uuid.UUID, usuarioID *uuid.UUID) (*dto.RecibirOrdenResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error)
}

type ordenCompraService struct {
	repo        repository.OrdenCompraRepository
	proveedores repository.ProveedorRepository
	almacenes   repository.AlmacenRepository
	libro       *libroStock
	cache       *cachePrecios
	metrics     *metrics.Metrics
}

func NewOrdenCompraService(
	repo repository.OrdenCompraRepository,
	proveedores repository.ProveedorRepository,
	almacenes repository.AlmacenRepository,
	productos repository.ProductoRepository,
	inventario repository.InventarioRepository,
	rdb *redis.Client,
	m *metrics.Metrics,
) OrdenCompraService {
	return &ordenCompraService{
		repo:        repo,
		proveedores: proveedores,
		almacenes:   almacenes,
		libro:       &libroStock{productos: productos, inventario: inventario},
		cache:       &cachePrecios{rdb: rdb},
		metrics:     m,
	}
}

func (s *ordenCompraService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearOrdenCompraRequest) (*dto.OrdenCompraResponse, error) {
	proveedorID, err := parseID("proveedor_id", req.ProveedorID)
	if err != nil {
		return nil, err
	}
	almacenID, err := parseID("almacen_id", req.AlmacenID)
	if err != nil {
		return nil, err
	}
	if len(req.Detalles) == 0 {
		return nil, apierror.Validation("detalles", "La orden debe tener al menos un detalle")
	}

	proveedor, err := s.proveedores.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	if !proveedor.Activo {
		return nil, apierror.Validation("proveedor_id", "El proveedor esta inactivo")
	}
	almacen, err := s.almacenes.FindByID(ctx, almacenID)
	if err != nil {
		return nil, noEncontrado(err, "Almacen no encontrado")
	}
	if !almacen.Activo {
		return nil, apierror.Validation("almacen_id", "El almacen esta inactivo")
	}
	entrega, err := parseFechaOpcional("fecha_entrega", req.FechaEntrega)
	if err != nil {
		return nil, err
	}

	orden := &model.OrdenCompra{
		ProveedorID:  proveedorID,
		AlmacenID:    almacenID,
		Estado:       model.OrdenPendiente,
		NroFactura:   recortar(req.NroFactura),
		FechaEntrega: entrega,
		Observacion:  recortar(req.Observacion),
		CreadoPorID:  usuarioID,
	}
	total := decimal.Zero
	for _, d := range req.Detalles {
		productoID, err := parseID("producto_id", d.ProductoID)
		if err != nil {
			return nil, err
		}
		if _, err := s.libro.productos.FindByID(ctx, productoID); err != nil {
			if repository.EsNoEncontrado(err) {
				return nil, apierror.Validation("producto_id", "Producto no encontrado: "+d.ProductoID)
			}
			return nil, err
		}
		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		orden.Detalles = append(orden.Detalles, model.DetalleOrdenCompra{
			ProductoID:     productoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       subtotal,
		})
		total = total.Add(subtotal)
	}
	orden.Total = total

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, orden)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, orden.ID)
}

func (s *ordenCompraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Orden de compra no encontrada")
	}
	resp := toOrdenCompraResponse(o)
	return &resp, nil
}

func (s *ordenCompraService) Listar(ctx context.Context, filter dto.OrdenCompraFilter) (*dto.ListResponse[dto.OrdenCompraResponse], error) {
	if _, _, err := limitesRango(filter.RangoFechas); err != nil {
		return nil, err
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdenCompraResponse, 0, len(list))
	for i := range list {
		data = append(data, toOrdenCompraResponse(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *ordenCompraService) Recibir(ctx context.Context, id uuid.UUID, usuarioID *uuid.UUID) (*dto.RecibirOrdenResponse, error) {
	var (
		sinCambios bool
		movs       []*model.MovimientoStock
		codigos    []string
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orden, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Orden de compra no encontrada")
		}
		switch orden.Estado {
		case model.OrdenRecibido:
			sinCambios = true
			return nil
		case model.OrdenCancelado:
			return apierror.StateConflict("La orden de compra esta cancelada")
		}

		for _, d := range orden.Detalles {
			ordenID := orden.ID
			m := &model.MovimientoStock{
				ProductoID:    d.ProductoID,
				AlmacenID:     orden.AlmacenID,
				Tipo:          model.MovimientoEntrada,
				Cantidad:      d.Cantidad,
				UsuarioID:     usuarioID,
				OrdenCompraID: &ordenID,
			}
			p, err := s.libro.aplicarTx(tx, m)
			if err != nil {
				return err
			}
			movs = append(movs, m)
			codigos = append(codigos, p.Codigo)
		}

		recibido := ahora()
		orden.Estado = model.OrdenRecibido
		orden.RecibidoPorID = usuarioID
		orden.RecibidoAt = &recibido
		return s.repo.UpdateTx(tx, orden)
	})
	if err != nil {
		return nil, err
	}

	for _, m := range movs {
		s.metrics.IncMovimiento(m.Tipo)
	}
	for _, c := range codigos {
		s.cache.Invalidar(ctx, c)
	}
	if sinCambios {
		log.Info().Str("orden", id.String()).Msg("orden de compra ya recibida, sin cambios")
	} else {
		log.Info().Str("orden", id.String()).Int("movimientos", len(movs)).Msg("orden de compra recibida")
	}

	orden, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RecibirOrdenResponse{Orden: *orden, SinCambios: sinCambios, Movimientos: len(movs)}, nil
}

func (s *ordenCompraService) Cancelar(ctx context.Context, id uuid.UUID) (*dto.OrdenCompraResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orden, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Orden de compra no encontrada")
		}
		if orden.Estado != model.OrdenPendiente {
			return apierror.StateConflict("Solo se puede cancelar una orden pendiente")
		}
		orden.Estado = model.OrdenCancelado
		return s.repo.UpdateTx(tx, orden)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func toOrdenCompraResponse(o *model.OrdenCompra) dto.OrdenCompraResponse {
	resp := dto.OrdenCompraResponse{
		ID:            o.ID.String(),
		ProveedorID:   o.ProveedorID.String(),
		AlmacenID:     o.AlmacenID.String(),
		Estado:        o.Estado,
		NroFactura:    o.NroFactura,
		FechaEntrega:  dto.FormatearDia(o.FechaEntrega),
		Observacion:   o.Observacion,
		Total:         o.Total,
		RecibidoPorID: idString(o.RecibidoPorID),
		RecibidoAt:    dto.FormatearFecha(o.RecibidoAt),
		CreatedAt:     fechaHora(o.CreatedAt),
		Detalles:      make([]dto.DetalleOrdenResponse, 0, len(o.Detalles)),
	}
	if o.Proveedor != nil {
		resp.Proveedor = o.Proveedor.RazonSocial
	}
	if o.Almacen != nil {
		resp.Almacen = o.Almacen.Nombre
	}
	for _, d := range o.Detalles {
		det := dto.DetalleOrdenResponse{
			ID:             d.ID.String(),
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			det.Producto = d.Producto.Nombre
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	return resp
}
