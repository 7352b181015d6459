package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdenesCompraHandler struct{ svc service.OrdenCompraService }

func NewOrdenesCompraHandler(svc service.OrdenCompraService) *OrdenesCompraHandler {
	return &OrdenesCompraHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una orden de compra
// @Tags ordenes-compra
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearOrdenCompraRequest true "Datos"
// @Success 201 {object} dto.OrdenCompraResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/ordenes-compra [post]
func (h *OrdenesCompraHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenCompraRequest
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
// @Summary Lista ordenes de compra
// @Tags ordenes-compra
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.OrdenCompraFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.OrdenCompraResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/ordenes-compra [get]
func (h *OrdenesCompraHandler) Listar(c *gin.Context) {
	var filter dto.OrdenCompraFilter
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
// @Summary Obtiene una orden de compra
// @Tags ordenes-compra
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.OrdenCompraResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ordenes-compra/{id} [get]
func (h *OrdenesCompraHandler) ObtenerPorID(c *gin.Context) {
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

// Recibir godoc
// @Summary Recibe la orden e ingresa el stock
// @Description Recibir dos veces no vuelve a mover stock; la respuesta lo indica.
// @Tags ordenes-compra
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.RecibirOrdenResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordenes-compra/{id}/recibir [post]
func (h *OrdenesCompraHandler) Recibir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Recibir(c.Request.Context(), id, usuarioActual(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancela una orden pendiente
// @Tags ordenes-compra
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.OrdenCompraResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordenes-compra/{id}/cancelar [post]
func (h *OrdenesCompraHandler) Cancelar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
