package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoService manages customer orders and their estado machine.
type PedidoService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.ListResponse[dto.PedidoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoPedidoRequest) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	repo      repository.PedidoRepository
	personas  repository.PersonaRepository
	productos repository.ProductoRepository
}

func NewPedidoService(repo repository.PedidoRepository, personas repository.PersonaRepository, productos repository.ProductoRepository) PedidoService {
	return &pedidoService{repo: repo, personas: personas, productos: productos}
}

func (s *pedidoService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	clienteID, err := parseID("cliente_id", req.ClienteID)
	if err != nil {
		return nil, err
	}
	if err := validarCliente(ctx, s.personas, clienteID); err != nil {
		return nil, err
	}
	detalles, total, err := s.construirDetalles(ctx, req.Detalles)
	if err != nil {
		return nil, err
	}

	pedido := &model.Pedido{
		ClienteID:   clienteID,
		Estado:      model.PedidoPendiente,
		Observacion: recortar(req.Observacion),
		Total:       total,
		CreadoPorID: usuarioID,
		Detalles:    detalles,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, pedido)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, pedido.ID)
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Pedido no encontrado")
	}
	resp := toPedidoResponse(p)
	return &resp, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.ListResponse[dto.PedidoResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(list))
	for i := range list {
		data = append(data, toPedidoResponse(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

// Actualizar edits the observacion and, when sent, replaces every line.
// Only pending pedidos can be edited.
func (s *pedidoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error) {
	var (
		detalles []model.DetallePedido
		total    decimal.Decimal
		err      error
	)
	if req.Detalles != nil {
		if detalles, total, err = s.construirDetalles(ctx, req.Detalles); err != nil {
			return nil, err
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Pedido no encontrado")
		}
		if pedido.Estado != model.PedidoPendiente {
			return apierror.StateConflict("Solo se pueden modificar pedidos pendientes")
		}
		if req.Observacion != nil {
			pedido.Observacion = recortar(req.Observacion)
		}
		if req.Detalles != nil {
			if err := s.repo.ReemplazarDetallesTx(tx, pedido.ID, detalles); err != nil {
				return err
			}
			pedido.Total = total
		}
		return s.repo.UpdateTx(tx, pedido)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoPedidoRequest) (*dto.PedidoResponse, error) {
	hacia := strings.ToLower(strings.TrimSpace(req.Estado))
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Pedido no encontrado")
		}
		if !model.PuedeTransicionar(pedido.Estado, hacia) {
			return apierror.StateConflict(fmt.Sprintf("No se puede pasar un pedido de %s a %s", pedido.Estado, hacia))
		}
		t := ahora()
		switch hacia {
		case model.PedidoEnviado:
			pedido.EnviadoAt = &t
		case model.PedidoEntregado:
			pedido.EntregadoAt = &t
		}
		pedido.Estado = hacia
		return s.repo.UpdateTx(tx, pedido)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

// validarCliente checks that clienteID is an active persona of tipo cliente.
func validarCliente(ctx context.Context, personas repository.PersonaRepository, clienteID uuid.UUID) error {
	cliente, err := personas.FindByID(ctx, clienteID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return apierror.Validation("cliente_id", "El cliente no existe")
		}
		return err
	}
	if cliente.Tipo != model.TipoCliente {
		return apierror.Validation("cliente_id", "La persona no esta registrada como cliente")
	}
	if !cliente.Activo {
		return apierror.Validation("cliente_id", "El cliente esta inactivo")
	}
	return nil
}

// construirDetalles resolves each line's product and price. Lines without an
// explicit price take the product's precio_venta.
func (s *pedidoService) construirDetalles(ctx context.Context, reqs []dto.DetallePedidoRequest) ([]model.DetallePedido, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, apierror.Validation("detalles", "El pedido debe tener al menos un detalle")
	}
	detalles := make([]model.DetallePedido, 0, len(reqs))
	total := decimal.Zero
	for _, d := range reqs {
		productoID, err := parseID("producto_id", d.ProductoID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		p, err := s.productos.FindByID(ctx, productoID)
		if err != nil {
			if repository.EsNoEncontrado(err) {
				return nil, decimal.Zero, apierror.Validation("producto_id", "Producto no encontrado: "+d.ProductoID)
			}
			return nil, decimal.Zero, err
		}
		if !p.Activo {
			return nil, decimal.Zero, apierror.Validation("producto_id", "El producto esta inactivo: "+p.Codigo)
		}
		if d.Cantidad <= 0 {
			return nil, decimal.Zero, apierror.Validation("cantidad", "La cantidad debe ser mayor a cero")
		}
		precio := p.PrecioVenta
		if d.PrecioUnitario != nil {
			precio = *d.PrecioUnitario
		}
		subtotal := precio.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		detalles = append(detalles, model.DetallePedido{
			ProductoID:     productoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: precio,
			Subtotal:       subtotal,
		})
		total = total.Add(subtotal)
	}
	return detalles, total, nil
}

func toPedidoResponse(p *model.Pedido) dto.PedidoResponse {
	resp := dto.PedidoResponse{
		ID:          p.ID.String(),
		Estado:      p.Estado,
		Observacion: p.Observacion,
		Total:       p.Total,
		FacturaID:   idString(p.FacturaID),
		EnviadoAt:   dto.FormatearFecha(p.EnviadoAt),
		EntregadoAt: dto.FormatearFecha(p.EntregadoAt),
		CreatedAt:   fechaHora(p.CreatedAt),
		Detalles:    make([]dto.DetallePedidoResponse, 0, len(p.Detalles)),
	}
	if p.Cliente != nil {
		resp.Cliente = toPersonaResumen(p.Cliente)
	} else {
		resp.Cliente = dto.PersonaResumen{ID: p.ClienteID.String()}
	}
	for _, d := range p.Detalles {
		det := dto.DetallePedidoResponse{
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
