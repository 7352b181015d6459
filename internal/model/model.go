// Package model holds the GORM entities of the bodega schema.
package model

// Todos returns every persisted entity in dependency order. Tests use it with
// AutoMigrate; production schema comes from the goose migrations.
func Todos() []interface{} {
	return []interface{}{
		&Persona{},
		&Empleado{},
		&Cliente{},
		&Permiso{},
		&Rol{},
		&Usuario{},
		&Categoria{},
		&Marca{},
		&Proveedor{},
		&Producto{},
		&PrecioProducto{},
		&Almacen{},
		&Inventario{},
		&OrdenCompra{},
		&DetalleOrdenCompra{},
		&MovimientoStock{},
		&Pedido{},
		&DetallePedido{},
		&Factura{},
		&DetalleFactura{},
		&SesionCaja{},
		&MovimientoCaja{},
		&Secuencia{},
	}
}
