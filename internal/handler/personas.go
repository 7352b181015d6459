package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

// PersonasHandler serves /personas plus the /empleados and /clientes
// variants, which share the persona id.
type PersonasHandler struct{ svc service.PersonaService }

func NewPersonasHandler(svc service.PersonaService) *PersonasHandler {
	return &PersonasHandler{svc: svc}
}

// CrearContacto godoc
// @Summary Crea un contacto
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PersonaRequest true "Datos"
// @Success 201 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/personas [post]
func (h *PersonasHandler) CrearContacto(c *gin.Context) {
	var req dto.PersonaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearContacto(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearEmpleado godoc
// @Summary Crea un empleado
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EmpleadoRequest true "Datos"
// @Success 201 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/empleados [post]
func (h *PersonasHandler) CrearEmpleado(c *gin.Context) {
	var req dto.EmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearEmpleado(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearCliente godoc
// @Summary Crea un cliente
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ClienteRequest true "Datos"
// @Success 201 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/clientes [post]
func (h *PersonasHandler) CrearCliente(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCliente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista personas
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.PersonaFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.PersonaResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/personas [get]
func (h *PersonasHandler) Listar(c *gin.Context) {
	var filter dto.PersonaFilter
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

// ListarTipo godoc
// @Summary Lista empleados o clientes
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.PersonaFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ListResponse[dto.PersonaResponse]
// @Failure 403 {object} apierror.APIError
// @Router /v1/empleados [get]
// @Router /v1/clientes [get]
func (h *PersonasHandler) ListarTipo(tipo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter dto.PersonaFilter
		if !bindQuery(c, &filter) {
			return
		}
		filter.Tipo = tipo
		resp, err := h.svc.Listar(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ObtenerPorID godoc
// @Summary Obtiene una persona
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.PersonaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/{id} [get]
func (h *PersonasHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary Actualiza un contacto
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.PersonaRequest true "Datos"
// @Success 200 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/{id} [put]
func (h *PersonasHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.PersonaRequest
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

// ActualizarEmpleado godoc
// @Summary Actualiza un empleado
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.EmpleadoRequest true "Datos"
// @Success 200 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/empleados/{id} [put]
func (h *PersonasHandler) ActualizarEmpleado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EmpleadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEmpleado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCliente godoc
// @Summary Actualiza un cliente
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.ClienteRequest true "Datos"
// @Success 200 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id} [put]
func (h *PersonasHandler) ActualizarCliente(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCliente(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlternarActivo godoc
// @Summary Activa o desactiva una persona
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/{id}/activo [patch]
func (h *PersonasHandler) AlternarActivo(c *gin.Context) {
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
