package service

import (
	"slices"
	"strings"
)

// PermisoDef describes one permission code known to the system.
type PermisoDef struct {
	Codigo      string
	Descripcion string
}

// PermisosSistema lists every code gating an HTTP route. The seed command
// creates them and the router references them by code.
var PermisosSistema = []PermisoDef{
	{"personas.ver", "Ver personas"},
	{"personas.crear", "Crear personas"},
	{"personas.editar", "Editar personas"},
	{"personas.activar", "Activar o desactivar personas"},
	{"personas.exportar", "Exportar personas"},
	{"empleados.crear", "Crear empleados"},
	{"empleados.editar", "Editar empleados"},
	{"clientes.crear", "Crear clientes"},
	{"clientes.editar", "Editar clientes"},
	{"usuarios.ver", "Ver usuarios"},
	{"usuarios.crear", "Crear usuarios"},
	{"usuarios.editar", "Editar usuarios y asignar roles"},
	{"usuarios.activar", "Activar o desactivar usuarios"},
	{"roles.ver", "Ver roles"},
	{"roles.crear", "Crear roles"},
	{"roles.editar", "Editar roles y sus permisos"},
	{"roles.activar", "Activar o desactivar roles"},
	{"permisos.ver", "Ver permisos"},
	{"permisos.crear", "Crear permisos"},
	{"permisos.editar", "Editar permisos"},
	{"permisos.activar", "Activar o desactivar permisos"},
	{"categorias.ver", "Ver categorias"},
	{"categorias.crear", "Crear categorias"},
	{"categorias.editar", "Editar categorias"},
	{"categorias.activar", "Activar o desactivar categorias"},
	{"marcas.ver", "Ver marcas"},
	{"marcas.crear", "Crear marcas"},
	{"marcas.editar", "Editar marcas"},
	{"marcas.activar", "Activar o desactivar marcas"},
	{"proveedores.ver", "Ver proveedores"},
	{"proveedores.crear", "Crear proveedores"},
	{"proveedores.editar", "Editar proveedores"},
	{"proveedores.activar", "Activar o desactivar proveedores"},
	{"productos.ver", "Ver productos"},
	{"productos.crear", "Crear productos"},
	{"productos.editar", "Editar productos"},
	{"productos.activar", "Activar o desactivar productos"},
	{"productos.exportar", "Exportar productos"},
	{"precios.ver", "Ver historial de precios"},
	{"precios.crear", "Registrar precios"},
	{"almacenes.ver", "Ver almacenes"},
	{"almacenes.crear", "Crear almacenes"},
	{"almacenes.editar", "Editar almacenes"},
	{"almacenes.activar", "Activar o desactivar almacenes"},
	{"inventario.ver", "Ver inventario y alertas de stock"},
	{"inventario.exportar", "Exportar inventario"},
	{"movimientos.ver", "Ver movimientos de stock"},
	{"movimientos.crear", "Registrar movimientos de stock"},
	{"ordenes_compra.ver", "Ver ordenes de compra"},
	{"ordenes_compra.crear", "Crear ordenes de compra"},
	{"ordenes_compra.recibir", "Recibir ordenes de compra"},
	{"ordenes_compra.cancelar", "Cancelar ordenes de compra"},
	{"pedidos.ver", "Ver pedidos"},
	{"pedidos.crear", "Crear pedidos"},
	{"pedidos.editar", "Editar pedidos"},
	{"pedidos.estado", "Cambiar el estado de pedidos"},
	{"facturas.ver", "Ver facturas"},
	{"facturas.crear", "Crear facturas"},
	{"facturas.editar", "Editar detalles de facturas"},
	{"facturas.anular", "Anular o restaurar facturas"},
	{"facturas.cobrar", "Cobrar facturas"},
	{"facturas.enviar", "Enviar facturas por correo"},
	{"caja.ver", "Ver sesiones de caja"},
	{"caja.abrir", "Abrir caja"},
	{"caja.movimiento", "Registrar movimientos de caja"},
	{"caja.cerrar", "Cerrar caja"},
	{"reportes.inventario", "Reporte de inventario valorizado"},
	{"reportes.compras", "Reporte de compras"},
	{"reportes.ventas", "Reporte de ventas"},
	{"dashboard.ver", "Ver tablero"},
}

// RolDef is a seeded role: it receives every code whose module is listed.
// An empty Modulos grants all codes.
type RolDef struct {
	Nombre      string
	Descripcion string
	Modulos     []string
	// Lectura limits the grant to ".ver" codes for these modules.
	Lectura []string
}

var RolesSistema = []RolDef{
	{Nombre: "Administrador", Descripcion: "Acceso total al sistema"},
	{
		Nombre:      "Encargado",
		Descripcion: "Catalogo, inventario, compras y reportes",
		Modulos: []string{"categorias", "marcas", "proveedores", "productos", "precios", "almacenes",
			"inventario", "movimientos", "ordenes_compra", "reportes", "dashboard"},
	},
	{
		Nombre:      "Vendedor",
		Descripcion: "Clientes, pedidos, facturas y caja",
		Modulos:     []string{"clientes", "pedidos", "facturas", "caja", "dashboard"},
		Lectura:     []string{"personas", "productos", "categorias", "marcas", "inventario"},
	},
}

// Codigos returns the codes the role receives from PermisosSistema.
func (r RolDef) Codigos() []string {
	var out []string
	for _, p := range PermisosSistema {
		modulo, accion, _ := strings.Cut(p.Codigo, ".")
		switch {
		case len(r.Modulos) == 0 && len(r.Lectura) == 0:
			out = append(out, p.Codigo)
		case slices.Contains(r.Modulos, modulo):
			out = append(out, p.Codigo)
		case accion == "ver" && slices.Contains(r.Lectura, modulo):
			out = append(out, p.Codigo)
		}
	}
	return out
}
