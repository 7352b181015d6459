package handler

import (
	"net/http"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler answers the counter price check by product code.
// The lookup is read-only and cached in Redis by the service.
type ConsultaPreciosHandler struct{ svc service.ProductoService }

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// PorCodigo godoc
// @Summary Consulta precio y stock por codigo de barras
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Codigo de barras"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/consulta/{codigo} [get]
func (h *ConsultaPreciosHandler) PorCodigo(c *gin.Context) {
	codigo := strings.TrimSpace(c.Param("codigo"))
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Codigo invalido"))
		return
	}
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
