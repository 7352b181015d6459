package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Eventos de factura, used as metric labels.
const (
	EventoEmitida    = "emitida"
	EventoAnulada    = "anulada"
	EventoRestaurada = "restaurada"
	EventoPagada     = "pagada"
)

// FacturaService issues invoices. Totals are always recomputed from the
// lines; they are never taken from the request.
type FacturaService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.ListResponse[dto.FacturaResponse], error)
	AgregarDetalle(ctx context.Context, id uuid.UUID, req dto.DetalleFacturaRequest) (*dto.FacturaResponse, error)
	EliminarDetalle(ctx context.Context, id, detalleID uuid.UUID) (*dto.FacturaResponse, error)
	// GenerarDesdePedido bills a delivered pedido. A pedido is billed once.
	GenerarDesdePedido(ctx context.Context, usuarioID *uuid.UUID, req dto.GenerarFacturaRequest) (*dto.FacturaResponse, error)
	AlternarAnulacion(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Cobrar(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.CobrarFacturaRequest) (*dto.FacturaResponse, error)
	PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Enviar(ctx context.Context, id uuid.UUID) (*dto.EnviarFacturaResponse, error)
}

type facturaService struct {
	repo      repository.FacturaRepository
	pedidos   repository.PedidoRepository
	personas  repository.PersonaRepository
	productos repository.ProductoRepository
	caja      repository.CajaRepository
	queue     EmailQueue
	cfg       *config.Config
	metrics   *metrics.Metrics
}

func NewFacturaService(
	repo repository.FacturaRepository,
	pedidos repository.PedidoRepository,
	personas repository.PersonaRepository,
	productos repository.ProductoRepository,
	caja repository.CajaRepository,
	queue EmailQueue,
	cfg *config.Config,
	m *metrics.Metrics,
) FacturaService {
	return &facturaService{
		repo:      repo,
		pedidos:   pedidos,
		personas:  personas,
		productos: productos,
		caja:      caja,
		queue:     queue,
		cfg:       cfg,
		metrics:   m,
	}
}

var errFacturaNoPendiente = apierror.StateConflict("Solo se pueden modificar facturas pendientes")

// ── Emision ──────────────────────────────────────────────────────────────────

func (s *facturaService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	clienteID, err := parseID("cliente_id", req.ClienteID)
	if err != nil {
		return nil, err
	}
	if err := validarCliente(ctx, s.personas, clienteID); err != nil {
		return nil, err
	}
	if len(req.Detalles) == 0 {
		return nil, apierror.Validation("detalles", "La factura debe tener al menos un detalle")
	}
	detalles := make([]model.DetalleFactura, 0, len(req.Detalles))
	for _, d := range req.Detalles {
		det, err := s.construirDetalle(ctx, d)
		if err != nil {
			return nil, err
		}
		detalles = append(detalles, *det)
	}

	f := &model.Factura{
		ClienteID:      clienteID,
		CondicionVenta: req.CondicionVenta,
		Observacion:    recortar(req.Observacion),
		CreadoPorID:    usuarioID,
		Detalles:       detalles,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.emitirTx(tx, f)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncFactura(EventoEmitida)
	log.Info().Str("numero", f.Numero).Str("total", f.Total.String()).Msg("factura emitida")
	return s.ObtenerPorID(ctx, f.ID)
}

// emitirTx numbers f, recomputes its totals and inserts it with its lines.
func (s *facturaService) emitirTx(tx *gorm.DB, f *model.Factura) error {
	serie := fmt.Sprintf("factura-%03d-%03d", s.cfg.Establecimiento, s.cfg.PuntoExpedicion)
	n, err := s.repo.SiguienteNumeroTx(tx, serie)
	if err != nil {
		return err
	}
	f.Numero = fmt.Sprintf("%03d-%03d-%07d", s.cfg.Establecimiento, s.cfg.PuntoExpedicion, n)
	f.Timbrado = s.cfg.Timbrado
	f.Fecha = ahora()
	f.Estado = model.FacturaPendiente
	if f.CondicionVenta == "" {
		f.CondicionVenta = model.CondicionContado
	}
	f.RecalcularTotales()
	return s.repo.CreateTx(tx, f)
}

func (s *facturaService) GenerarDesdePedido(ctx context.Context, usuarioID *uuid.UUID, req dto.GenerarFacturaRequest) (*dto.FacturaResponse, error) {
	pedidoID, err := parseID("pedido_id", req.PedidoID)
	if err != nil {
		return nil, err
	}

	f := &model.Factura{CondicionVenta: req.CondicionVenta, PedidoID: &pedidoID, CreadoPorID: usuarioID}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.pedidos.FindByIDForUpdateTx(tx, pedidoID)
		if err != nil {
			return noEncontrado(err, "Pedido no encontrado")
		}
		if pedido.Estado != model.PedidoEntregado {
			return apierror.StateConflict("Solo se pueden facturar pedidos entregados")
		}
		if pedido.Facturado() {
			return apierror.Conflict("El pedido ya fue facturado")
		}

		f.ClienteID = pedido.ClienteID
		obs := fmt.Sprintf("Generada desde el pedido %s", pedido.ID)
		f.Observacion = &obs
		for _, d := range pedido.Detalles {
			det := model.DetalleFactura{
				ProductoID:     d.ProductoID,
				Cantidad:       d.Cantidad,
				PrecioUnitario: d.PrecioUnitario,
			}
			if d.Producto != nil {
				det.Descripcion = d.Producto.Nombre
				det.IVAAplicado = d.Producto.IVA
			}
			f.Detalles = append(f.Detalles, det)
		}
		if err := s.emitirTx(tx, f); err != nil {
			return err
		}

		pedido.FacturaID = &f.ID
		return s.pedidos.UpdateTx(tx, pedido)
	})
	if err != nil {
		if repository.EsDuplicado(err) {
			return nil, apierror.Conflict("El pedido ya fue facturado")
		}
		return nil, err
	}
	s.metrics.IncFactura(EventoEmitida)
	log.Info().Str("numero", f.Numero).Str("pedido", pedidoID.String()).Msg("factura generada desde pedido")
	return s.ObtenerPorID(ctx, f.ID)
}

// ── Detalles ─────────────────────────────────────────────────────────────────

func (s *facturaService) AgregarDetalle(ctx context.Context, id uuid.UUID, req dto.DetalleFacturaRequest) (*dto.FacturaResponse, error) {
	det, err := s.construirDetalle(ctx, req)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Factura no encontrada")
		}
		if f.Estado != model.FacturaPendiente {
			return errFacturaNoPendiente
		}
		det.FacturaID = f.ID
		if err := s.repo.AgregarDetalleTx(tx, det); err != nil {
			return err
		}
		f.Detalles = append(f.Detalles, *det)
		f.RecalcularTotales()
		return s.repo.UpdateTx(tx, f)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *facturaService) EliminarDetalle(ctx context.Context, id, detalleID uuid.UUID) (*dto.FacturaResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Factura no encontrada")
		}
		if f.Estado != model.FacturaPendiente {
			return errFacturaNoPendiente
		}
		ok, err := s.repo.EliminarDetalleTx(tx, f.ID, detalleID)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.NotFound("Detalle no encontrado")
		}
		restantes := f.Detalles[:0]
		for _, d := range f.Detalles {
			if d.ID != detalleID {
				restantes = append(restantes, d)
			}
		}
		f.Detalles = restantes
		f.RecalcularTotales()
		return s.repo.UpdateTx(tx, f)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

// construirDetalle snapshots the product name and IVA rate. Without an
// explicit price the line takes the product's precio_venta.
func (s *facturaService) construirDetalle(ctx context.Context, req dto.DetalleFacturaRequest) (*model.DetalleFactura, error) {
	productoID, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return nil, err
	}
	if req.Cantidad <= 0 {
		return nil, apierror.Validation("cantidad", "La cantidad debe ser mayor a cero")
	}
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, apierror.Validation("producto_id", "Producto no encontrado: "+req.ProductoID)
		}
		return nil, err
	}
	if !p.Activo {
		return nil, apierror.Validation("producto_id", "El producto esta inactivo: "+p.Codigo)
	}
	precio := p.PrecioVenta
	if req.PrecioUnitario != nil {
		precio = *req.PrecioUnitario
	}
	return &model.DetalleFactura{
		ProductoID:     p.ID,
		Descripcion:    p.Nombre,
		Cantidad:       req.Cantidad,
		PrecioUnitario: precio,
		IVAAplicado:    p.IVA,
		Subtotal:       precio.Mul(decimal.NewFromInt(int64(req.Cantidad))).Round(2),
	}, nil
}

// ── Estado ───────────────────────────────────────────────────────────────────

// AlternarAnulacion toggles pendiente ↔ anulada. Invoices are never deleted.
// Annulling releases the source pedido; restoring claims it back unless
// another invoice billed it in between.
func (s *facturaService) AlternarAnulacion(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	var evento string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Factura no encontrada")
		}
		switch f.Estado {
		case model.FacturaPendiente:
			f.Estado, evento = model.FacturaAnulada, EventoAnulada
		case model.FacturaAnulada:
			f.Estado, evento = model.FacturaPendiente, EventoRestaurada
		default:
			return apierror.StateConflict("No se puede anular una factura pagada")
		}
		if f.PedidoID != nil {
			if err := s.vincularPedidoTx(tx, f); err != nil {
				return err
			}
		}
		return s.repo.UpdateTx(tx, f)
	})
	if err != nil {
		if repository.EsDuplicado(err) {
			return nil, apierror.Conflict("El pedido ya fue facturado")
		}
		return nil, err
	}
	s.metrics.IncFactura(evento)
	return s.ObtenerPorID(ctx, id)
}

// vincularPedidoTx keeps pedido.factura_id in step with f's new state.
func (s *facturaService) vincularPedidoTx(tx *gorm.DB, f *model.Factura) error {
	pedido, err := s.pedidos.FindByIDForUpdateTx(tx, *f.PedidoID)
	if err != nil {
		return noEncontrado(err, "Pedido no encontrado")
	}
	if f.Estado == model.FacturaAnulada {
		if pedido.FacturaID == nil || *pedido.FacturaID != f.ID {
			return nil
		}
		pedido.FacturaID = nil
		return s.pedidos.UpdateTx(tx, pedido)
	}
	if pedido.FacturaID != nil {
		if *pedido.FacturaID == f.ID {
			return nil
		}
		return apierror.Conflict("El pedido ya fue facturado")
	}
	pedido.FacturaID = &f.ID
	return s.pedidos.UpdateTx(tx, pedido)
}

// Cobrar marks a pending invoice as paid and optionally books the amount in
// the open cash session.
func (s *facturaService) Cobrar(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.CobrarFacturaRequest) (*dto.FacturaResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Factura no encontrada")
		}
		if f.Estado != model.FacturaPendiente {
			return apierror.StateConflict("Solo se pueden cobrar facturas pendientes")
		}
		f.Estado = model.FacturaPagada
		if err := s.repo.UpdateTx(tx, f); err != nil {
			return err
		}
		if !req.RegistrarEnCaja {
			return nil
		}

		sesion, err := s.caja.FindAbierta(ctx, tx)
		if err != nil {
			if repository.EsNoEncontrado(err) {
				return errSinCajaAbierta
			}
			return err
		}
		facturaID := f.ID
		return s.caja.CreateMovimiento(ctx, tx, &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         model.CajaCobroFactura,
			Monto:        f.Total,
			Descripcion:  "Cobro factura " + f.Numero,
			FacturaID:    &facturaID,
			UsuarioID:    &usuarioID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncFactura(EventoPagada)
	return s.ObtenerPorID(ctx, id)
}

// ── Documento ────────────────────────────────────────────────────────────────

func (s *facturaService) emisor() infra.Emisor {
	return infra.Emisor{Nombre: s.cfg.EmpresaNombre, RUC: s.cfg.EmpresaRUC, Timbrado: s.cfg.Timbrado}
}

func (s *facturaService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", noEncontrado(err, "Factura no encontrada")
	}
	data, err := infra.FacturaPDF(f, s.emisor())
	if err != nil {
		return nil, "", err
	}
	return data, "factura_" + f.Numero + ".pdf", nil
}

// Enviar writes the PDF to the storage path and enqueues an email with it
// attached to the client's address.
func (s *facturaService) Enviar(ctx context.Context, id uuid.UUID) (*dto.EnviarFacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Factura no encontrada")
	}
	if f.Cliente == nil || f.Cliente.Email == nil || strings.TrimSpace(*f.Cliente.Email) == "" {
		return nil, apierror.Validation("email", "El cliente no tiene un correo registrado")
	}
	if s.queue == nil {
		return nil, apierror.Dependency("El envio de correos no esta disponible")
	}

	path, err := infra.GuardarFacturaPDF(f, s.emisor(), s.cfg.PDFStoragePath)
	if err != nil {
		return nil, err
	}
	destinatario := *f.Cliente.Email
	job := worker.EmailJobPayload{
		ToEmail: destinatario,
		Subject: fmt.Sprintf("%s - Factura %s", s.cfg.EmpresaNombre, f.Numero),
		Body: fmt.Sprintf("Estimado/a %s,\n\nAdjuntamos la factura %s por un total de Gs. %s.\n%s\n",
			f.Cliente.NombreCompleto(), f.Numero, f.Total.StringFixed(0), infra.TotalEnLetras(f.Total)),
		PDFPath: path,
	}
	if err := s.queue.EnqueueEmail(ctx, job); err != nil {
		return nil, apierror.Wrap(apierror.CodeDependency, err, "No se pudo encolar el correo")
	}
	log.Info().Str("numero", f.Numero).Str("destinatario", destinatario).Msg("factura encolada para envio")
	return &dto.EnviarFacturaResponse{Encolado: true, Destinatario: destinatario}, nil
}

// ── Consulta ─────────────────────────────────────────────────────────────────

func (s *facturaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Factura no encontrada")
	}
	resp := toFacturaResponse(f)
	return &resp, nil
}

func (s *facturaService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.ListResponse[dto.FacturaResponse], error) {
	if _, _, err := limitesRango(filter.RangoFechas); err != nil {
		return nil, err
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(list))
	for i := range list {
		data = append(data, toFacturaResponse(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func toFacturaResponse(f *model.Factura) dto.FacturaResponse {
	resp := dto.FacturaResponse{
		ID:               f.ID.String(),
		Numero:           f.Numero,
		Timbrado:         f.Timbrado,
		PedidoID:         idString(f.PedidoID),
		Fecha:            fechaHora(f.Fecha),
		CondicionVenta:   f.CondicionVenta,
		Estado:           f.Estado,
		Observacion:      f.Observacion,
		Total:            f.Total,
		TotalExenta:      f.TotalExenta,
		TotalIVA5:        f.TotalIVA5,
		TotalIVA10:       f.TotalIVA10,
		LiquidacionIVA5:  f.LiquidacionIVA5,
		LiquidacionIVA10: f.LiquidacionIVA10,
		Detalles:         make([]dto.DetalleFacturaResponse, 0, len(f.Detalles)),
	}
	if f.Cliente != nil {
		resp.Cliente = toPersonaResumen(f.Cliente)
	} else {
		resp.Cliente = dto.PersonaResumen{ID: f.ClienteID.String()}
	}
	for _, d := range f.Detalles {
		resp.Detalles = append(resp.Detalles, dto.DetalleFacturaResponse{
			ID:             d.ID.String(),
			ProductoID:     d.ProductoID.String(),
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			IVAAplicado:    d.IVAAplicado,
			Subtotal:       d.Subtotal,
		})
	}
	return resp
}
