package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

type RolesHandler struct{ svc service.RolService }

func NewRolesHandler(svc service.RolService) *RolesHandler { return &RolesHandler{svc: svc} }

// Crear godoc
// @Summary Crea un rol
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RolRequest true "Datos"
// @Success 201 {object} dto.RolResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/roles [post]
func (h *RolesHandler) Crear(c *gin.Context) {
	var req dto.RolRequest
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
// @Summary Lista roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.RolFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.RolResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/roles [get]
func (h *RolesHandler) Listar(c *gin.Context) {
	var filter dto.RolFilter
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
// @Summary Obtiene un rol con sus permisos
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.RolResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/roles/{id} [get]
func (h *RolesHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary Actualiza un rol
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.RolRequest true "Datos"
// @Success 200 {object} dto.RolResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/roles/{id} [put]
func (h *RolesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RolRequest
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
// @Summary Activa o desactiva un rol
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/roles/{id}/activo [patch]
func (h *RolesHandler) AlternarActivo(c *gin.Context) {
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

// AsignarPermisos godoc
// @Summary Reemplaza los permisos de un rol
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.AsignarPermisosRequest true "Datos"
// @Success 200 {object} dto.RolResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/roles/{id}/permisos [put]
func (h *RolesHandler) AsignarPermisos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AsignarPermisosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarPermisos(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Permisos ─────────────────────────────────────────────────────────────────

type PermisosHandler struct{ svc service.PermisoService }

func NewPermisosHandler(svc service.PermisoService) *PermisosHandler {
	return &PermisosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un permiso
// @Tags permisos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PermisoRequest true "Datos"
// @Success 201 {object} dto.PermisoResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/permisos [post]
func (h *PermisosHandler) Crear(c *gin.Context) {
	var req dto.PermisoRequest
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
// @Summary Lista permisos
// @Tags permisos
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.CatalogoFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.PermisoResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/permisos [get]
func (h *PermisosHandler) Listar(c *gin.Context) {
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

// Actualizar godoc
// @Summary Actualiza un permiso
// @Tags permisos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.PermisoRequest true "Datos"
// @Success 200 {object} dto.PermisoResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/permisos/{id} [put]
func (h *PermisosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.PermisoRequest
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
// @Summary Activa o desactiva un permiso
// @Tags permisos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/permisos/{id}/activo [patch]
func (h *PermisosHandler) AlternarActivo(c *gin.Context) {
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
