package handler

import (
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportesHandler serves the reports, the dashboard and every export.
// Reports answer JSON unless ?formato=xlsx|csv is given.
type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// InventarioValorizado godoc
// @Summary Inventario valorizado
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.ReporteFilter false "Filtros y paginacion"
// @Success 200 {object} dto.InventarioValorizadoResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/reportes/inventario [get]
func (h *ReportesHandler) InventarioValorizado(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.InventarioValorizado(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if exportar(filter.Formato) {
		responderTabla(c, "inventario_valorizado", service.TablaInventario(resp))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockBajo godoc
// @Summary Productos con stock bajo
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param formato query string false "xlsx o csv"
// @Success 200 {array} dto.AlertaStockResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/reportes/stock-bajo [get]
func (h *ReportesHandler) StockBajo(c *gin.Context) {
	resp, err := h.svc.StockBajo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if f := c.Query("formato"); exportar(f) {
		responderTabla(c, "stock_bajo", service.TablaStockBajo(resp))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Compras godoc
// @Summary Reporte de compras
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.ReporteFilter false "Filtros y paginacion"
// @Success 200 {object} dto.ComprasResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/reportes/compras [get]
func (h *ReportesHandler) Compras(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Compras(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if exportar(filter.Formato) {
		responderTabla(c, "compras", service.TablaCompras(resp))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ventas godoc
// @Summary Reporte de ventas
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param filtro query dto.ReporteFilter false "Filtros y paginacion"
// @Success 200 {object} dto.VentasResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/reportes/ventas [get]
func (h *ReportesHandler) Ventas(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Ventas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if exportar(filter.Formato) {
		responderTabla(c, "ventas", service.TablaVentas(resp))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary Indicadores del tablero
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/reportes/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Exports ──────────────────────────────────────────────────────────────────

// ExportarProductos godoc
// @Summary Exporta productos a xlsx o csv
// @Tags reportes
// @Produce application/octet-stream
// @Security BearerAuth
// @Param filtro query dto.ProductoFilter false "Filtros y paginacion"
// @Param formato query string false "xlsx o csv"
// @Success 200 {file} file
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/productos/exportar [get]
func (h *ReportesHandler) ExportarProductos(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	h.exportar(c, "productos", func() (infra.Tabla, error) {
		return h.svc.ExportarProductos(c.Request.Context(), filter)
	})
}

// ExportarPersonas godoc
// @Summary Exporta personas a xlsx o csv
// @Tags reportes
// @Produce application/octet-stream
// @Security BearerAuth
// @Param filtro query dto.PersonaFilter false "Filtros y paginacion"
// @Param formato query string false "xlsx o csv"
// @Success 200 {file} file
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/personas/exportar [get]
func (h *ReportesHandler) ExportarPersonas(c *gin.Context) {
	var filter dto.PersonaFilter
	if !bindQuery(c, &filter) {
		return
	}
	h.exportar(c, "personas", func() (infra.Tabla, error) {
		return h.svc.ExportarPersonas(c.Request.Context(), filter)
	})
}

// ExportarInventario godoc
// @Summary Exporta el inventario a xlsx o csv
// @Tags reportes
// @Produce application/octet-stream
// @Security BearerAuth
// @Param filtro query dto.ReporteFilter false "Filtros y paginacion"
// @Success 200 {file} file
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/inventario/exportar [get]
func (h *ReportesHandler) ExportarInventario(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	h.exportar(c, "inventario", func() (infra.Tabla, error) {
		return h.svc.ExportarInventario(c.Request.Context(), filter)
	})
}

func (h *ReportesHandler) exportar(c *gin.Context, base string, fn func() (infra.Tabla, error)) {
	t, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}
	responderTabla(c, base, t)
}

func exportar(formato string) bool {
	return formato == dto.FormatoXLSX || formato == dto.FormatoCSV
}
