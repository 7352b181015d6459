package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

// PreciosHandler serves the price history of a product, newest first.
type PreciosHandler struct{ svc service.ProductoService }

func NewPreciosHandler(svc service.ProductoService) *PreciosHandler {
	return &PreciosHandler{svc: svc}
}

// Listar godoc
// @Summary Historial de precios de un producto
// @Tags precios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {array} dto.PrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/precios [get]
func (h *PreciosHandler) Listar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPrecios(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Crear godoc
// @Summary Registra un nuevo precio vigente
// @Tags precios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.CrearPrecioRequest true "Datos"
// @Success 201 {object} dto.PrecioResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/precios [post]
func (h *PreciosHandler) Crear(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPrecio(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
