package handler

import (
	"context"
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// catalogoService is the CRUD shape shared by categorias, marcas,
// proveedores and almacenes.
type catalogoService[Req, Resp any] interface {
	Crear(ctx context.Context, req Req) (*Resp, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*Resp, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[Resp], error)
	Actualizar(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

// CatalogoHandler serves one catalog resource.
type CatalogoHandler[Req, Resp any] struct {
	svc catalogoService[Req, Resp]
}

func NewCatalogoHandler[Req, Resp any](svc catalogoService[Req, Resp]) *CatalogoHandler[Req, Resp] {
	return &CatalogoHandler[Req, Resp]{svc: svc}
}

// Crear godoc
// @Summary Crea una entrada de catalogo
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Datos"
// @Success 201 {object} object
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/categorias [post]
// @Router /v1/marcas [post]
// @Router /v1/proveedores [post]
// @Router /v1/almacenes [post]
func (h *CatalogoHandler[Req, Resp]) Crear(c *gin.Context) {
	var req Req
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista un catalogo
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.CatalogoFilter false "Filtros y paginacion"
// @Success 200 {object} object
// @Failure 403 {object} apierror.APIError
// @Router /v1/categorias [get]
// @Router /v1/marcas [get]
// @Router /v1/proveedores [get]
// @Router /v1/almacenes [get]
func (h *CatalogoHandler[Req, Resp]) Listar(c *gin.Context) {
	var filter dto.CatalogoFilter
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
// @Summary Obtiene una entrada de catalogo
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} object
// @Failure 404 {object} apierror.APIError
// @Router /v1/categorias/{id} [get]
// @Router /v1/marcas/{id} [get]
// @Router /v1/proveedores/{id} [get]
// @Router /v1/almacenes/{id} [get]
func (h *CatalogoHandler[Req, Resp]) ObtenerPorID(c *gin.Context) {
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
// @Summary Actualiza una entrada de catalogo
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body object true "Datos"
// @Success 200 {object} object
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/categorias/{id} [put]
// @Router /v1/marcas/{id} [put]
// @Router /v1/proveedores/{id} [put]
// @Router /v1/almacenes/{id} [put]
func (h *CatalogoHandler[Req, Resp]) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req Req
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

// AlternarActivo godoc
// @Summary Activa o desactiva una entrada de catalogo
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/categorias/{id}/activo [patch]
// @Router /v1/marcas/{id}/activo [patch]
// @Router /v1/proveedores/{id}/activo [patch]
// @Router /v1/almacenes/{id}/activo [patch]
func (h *CatalogoHandler[Req, Resp]) AlternarActivo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AlternarActivo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
