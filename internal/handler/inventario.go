package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary Registra una entrada o salida de stock
// @Description Una salida mayor al stock del almacen se rechaza con error en cantidad.
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoRequest true "Datos"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 422 {object} apierror.APIError
// @Router /v1/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), usuarioActual(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimientos godoc
// @Summary Lista movimientos de stock
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.MovimientoFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.MovimientoResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarInventario godoc
// @Summary Stock por producto y almacen
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.InventarioFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.InventarioResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/inventario [get]
func (h *InventarioHandler) ListarInventario(c *gin.Context) {
	var filter dto.InventarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarInventario(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas godoc
// @Summary Productos en o bajo el stock minimo
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AlertaStockResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/inventario/alertas [get]
func (h *InventarioHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
