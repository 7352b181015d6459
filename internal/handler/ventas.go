package handler

// Sales: client orders (pedidos) and the invoices (facturas) billed from
// them or entered directly.

import (
	"net/http"
	"strconv"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/middleware"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Pedidos ──────────────────────────────────────────────────────────────────

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPedidoRequest true "Datos"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), usuarioActual(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista pedidos
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.PedidoFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.PedidoResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Obtiene un pedido
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.PedidoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pedidos/{id} [get]
func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza un pedido pendiente
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.ActualizarPedidoRequest true "Datos"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id} [put]
func (h *PedidosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary Avanza o cancela un pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.CambiarEstadoPedidoRequest true "Datos"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id}/estado [patch]
func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Facturas ─────────────────────────────────────────────────────────────────

type FacturasHandler struct{ svc service.FacturaService }

func NewFacturasHandler(svc service.FacturaService) *FacturasHandler {
	return &FacturasHandler{svc: svc}
}

// Crear godoc
// @Summary Emite una factura
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearFacturaRequest true "Datos"
// @Success 201 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), usuarioActual(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DesdePedido godoc
// @Summary Factura un pedido entregado
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarFacturaRequest true "Datos"
// @Success 201 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/desde-pedido [post]
func (h *FacturasHandler) DesdePedido(c *gin.Context) {
	var req dto.GenerarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerarDesdePedido(c.Request.Context(), usuarioActual(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista facturas
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.FacturaFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.FacturaResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Obtiene una factura
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id} [get]
func (h *FacturasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarDetalle godoc
// @Summary Agrega una linea a una factura pendiente
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.DetalleFacturaRequest true "Datos"
// @Success 200 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/detalles [post]
func (h *FacturasHandler) AgregarDetalle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.DetalleFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarDetalle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarDetalle godoc
// @Summary Quita una linea de una factura pendiente
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param detalle_id path string true "ID del detalle"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/detalles/{detalle_id} [delete]
func (h *FacturasHandler) EliminarDetalle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detalleID, ok := paramID(c, "detalle_id")
	if !ok {
		return
	}
	resp, err := h.svc.EliminarDetalle(c.Request.Context(), id, detalleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anula o restaura una factura
// @Description Alterna entre anulada y pendiente. Anular libera el pedido de origen.
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/anular [post]
func (h *FacturasHandler) Anular(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AlternarAnulacion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cobrar godoc
// @Summary Cobra una factura pendiente
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.CobrarFacturaRequest true "Datos"
// @Success 200 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/cobrar [post]
func (h *FacturasHandler) Cobrar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CobrarFacturaRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cobrar(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Descarga la factura en PDF
// @Tags facturas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id}/pdf [get]
func (h *FacturasHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, nombre, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+nombre+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Enviar godoc
// @Summary Envia la factura por correo al cliente
// @Description Encola el PDF hacia el correo del cliente.
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 202 {object} dto.EnviarFacturaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/enviar [post]
func (h *FacturasHandler) Enviar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Enviar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
