package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines business operations for products and their price
// history.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)

	ListarPrecios(ctx context.Context, productoID uuid.UUID) ([]dto.PrecioResponse, error)
	CrearPrecio(ctx context.Context, productoID uuid.UUID, req dto.CrearPrecioRequest) (*dto.PrecioResponse, error)
	// ConsultarPrecio returns the current price of an active product by code.
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	precios     repository.PrecioRepository
	categorias  repository.CategoriaRepository
	marcas      repository.MarcaRepository
	proveedores repository.ProveedorRepository
	cache       *cachePrecios
}

func NewProductoService(
	repo repository.ProductoRepository,
	precios repository.PrecioRepository,
	categorias repository.CategoriaRepository,
	marcas repository.MarcaRepository,
	proveedores repository.ProveedorRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{
		repo:        repo,
		precios:     precios,
		categorias:  categorias,
		marcas:      marcas,
		proveedores: proveedores,
		cache:       &cachePrecios{rdb: rdb},
	}
}

// ── Productos ────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Codigo:       strings.TrimSpace(req.Codigo),
		Nombre:       strings.TrimSpace(req.Nombre),
		Descripcion:  recortar(req.Descripcion),
		UnidadMedida: req.UnidadMedida,
		PrecioCompra: req.PrecioCompra,
		Margen:       req.Margen,
		IVA:          req.IVA,
		StockMinimo:  req.StockMinimo,
		Activo:       true,
	}
	if err := s.aplicarReferencias(ctx, p, req.CategoriaID, req.MarcaID, req.ProveedorID); err != nil {
		return nil, err
	}
	venc, err := parseFechaOpcional("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}
	p.FechaVencimiento = venc

	existe, err := s.repo.ExisteCodigo(ctx, p.Codigo, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Validation("codigo", "Ya existe un producto con ese codigo")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.precios.CreateTx(tx, &model.PrecioProducto{
			ProductoID:  p.ID,
			Precio:      p.PrecioVenta,
			FechaInicio: ahora(),
		})
	})
	if err != nil {
		return nil, duplicado(err, "codigo", "Ya existe un producto con ese codigo")
	}
	return s.ObtenerPorID(ctx, p.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	resp := toProductoResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		data = append(data, toProductoResponse(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

// Actualizar applies a partial update on the locked row. When the derived
// precio_venta changes the open price is closed and a new one is appended in
// the same transaction.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	refs := &model.Producto{}
	if err := s.aplicarReferencias(ctx, refs, req.CategoriaID, req.MarcaID, req.ProveedorID); err != nil {
		return nil, err
	}
	venc, err := parseFechaOpcional("fecha_vencimiento", req.FechaVencimiento)
	if err != nil {
		return nil, err
	}

	var codigo string
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id, true)
		if err != nil {
			return noEncontrado(err, "Producto no encontrado")
		}
		anterior := p.PrecioVenta

		if req.Nombre != nil {
			p.Nombre = strings.TrimSpace(*req.Nombre)
		}
		if req.Descripcion != nil {
			p.Descripcion = recortar(req.Descripcion)
		}
		if req.UnidadMedida != nil {
			p.UnidadMedida = *req.UnidadMedida
		}
		if req.PrecioCompra != nil {
			p.PrecioCompra = *req.PrecioCompra
		}
		if req.Margen != nil {
			p.Margen = *req.Margen
		}
		if req.IVA != nil {
			p.IVA = *req.IVA
		}
		if req.StockMinimo != nil {
			p.StockMinimo = *req.StockMinimo
		}
		if req.FechaVencimiento != nil {
			p.FechaVencimiento = venc
		}
		if req.CategoriaID != nil {
			p.CategoriaID = refs.CategoriaID
		}
		if req.MarcaID != nil {
			p.MarcaID = refs.MarcaID
		}
		if req.ProveedorID != nil {
			p.ProveedorID = refs.ProveedorID
		}

		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}
		codigo = p.Codigo
		if p.PrecioVenta.Equal(anterior) {
			return nil
		}
		return s.abrirPrecioTx(tx, p.ID, p.PrecioVenta, ahora())
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidar(ctx, codigo)
	return s.ObtenerPorID(ctx, id)
}

func (s *productoService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	if err := s.repo.SetActivo(ctx, id, !p.Activo); err != nil {
		return nil, err
	}
	s.cache.Invalidar(ctx, p.Codigo)
	return &dto.ToggleResponse{ID: id.String(), Activo: !p.Activo}, nil
}

// aplicarReferencias resolves the optional catalog references. An empty
// string clears the reference.
func (s *productoService) aplicarReferencias(ctx context.Context, p *model.Producto, cat, marca, prov *string) error {
	campos := map[string]string{}

	catID, err := parseIDOpcional("categoria_id", cat)
	if err != nil {
		return err
	}
	if catID != nil {
		if _, err := s.categorias.FindByID(ctx, *catID); err != nil {
			if !repository.EsNoEncontrado(err) {
				return err
			}
			campos["categoria_id"] = "La categoria no existe"
		}
	}
	marcaID, err := parseIDOpcional("marca_id", marca)
	if err != nil {
		return err
	}
	if marcaID != nil {
		if _, err := s.marcas.FindByID(ctx, *marcaID); err != nil {
			if !repository.EsNoEncontrado(err) {
				return err
			}
			campos["marca_id"] = "La marca no existe"
		}
	}
	provID, err := parseIDOpcional("proveedor_id", prov)
	if err != nil {
		return err
	}
	if provID != nil {
		if _, err := s.proveedores.FindByID(ctx, *provID); err != nil {
			if !repository.EsNoEncontrado(err) {
				return err
			}
			campos["proveedor_id"] = "El proveedor no existe"
		}
	}
	if len(campos) > 0 {
		return apierror.ValidationFields(campos)
	}
	p.CategoriaID, p.MarcaID, p.ProveedorID = catID, marcaID, provID
	return nil
}

// ── Historial de precios ─────────────────────────────────────────────────────

func (s *productoService) ListarPrecios(ctx context.Context, productoID uuid.UUID) ([]dto.PrecioResponse, error) {
	if _, err := s.repo.FindByID(ctx, productoID); err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	precios, err := s.precios.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PrecioResponse, 0, len(precios))
	for i := range precios {
		out = append(out, toPrecioResponse(&precios[i]))
	}
	return out, nil
}

func (s *productoService) CrearPrecio(ctx context.Context, productoID uuid.UUID, req dto.CrearPrecioRequest) (*dto.PrecioResponse, error) {
	inicio := req.FechaInicio.UTC()
	var fin *time.Time
	if req.FechaFin != nil {
		f := req.FechaFin.UTC()
		if !f.After(inicio) {
			return nil, apierror.Validation("fecha_fin", "La fecha de fin debe ser posterior a la fecha de inicio")
		}
		fin = &f
	}

	nuevo := &model.PrecioProducto{ProductoID: productoID, Precio: req.Precio, FechaInicio: inicio, FechaFin: fin}
	var codigo string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// the product row lock serializes concurrent writers of its history
		p, err := s.repo.FindByIDTx(tx, productoID, true)
		if err != nil {
			return noEncontrado(err, "Producto no encontrado")
		}
		codigo = p.Codigo

		if fin != nil {
			return s.precios.CreateTx(tx, nuevo)
		}
		vigente, err := s.precios.FindVigenteTx(tx, productoID)
		switch {
		case repository.EsNoEncontrado(err):
		case err != nil:
			return err
		case !req.CerrarVigente:
			return apierror.Validation("cerrar_vigente", "Ya existe un precio vigente para el producto")
		case !inicio.After(vigente.FechaInicio):
			return apierror.Validation("fecha_inicio", "Debe ser posterior al inicio del precio vigente")
		default:
			if err := s.precios.CerrarTx(tx, vigente.ID, inicio); err != nil {
				return err
			}
		}
		return s.precios.CreateTx(tx, nuevo)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidar(ctx, codigo)
	resp := toPrecioResponse(nuevo)
	return &resp, nil
}

// abrirPrecioTx closes the open price (if any) at inicio and appends a new
// open-ended entry.
func (s *productoService) abrirPrecioTx(tx *gorm.DB, productoID uuid.UUID, precio decimal.Decimal, inicio time.Time) error {
	vigente, err := s.precios.FindVigenteTx(tx, productoID)
	if err != nil && !repository.EsNoEncontrado(err) {
		return err
	}
	if vigente != nil {
		if err := s.precios.CerrarTx(tx, vigente.ID, inicio); err != nil {
			return err
		}
	}
	return s.precios.CreateTx(tx, &model.PrecioProducto{ProductoID: productoID, Precio: precio, FechaInicio: inicio})
}

func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error) {
	codigo = strings.TrimSpace(codigo)
	if resp, ok := s.cache.Get(ctx, codigo); ok {
		return resp, nil
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	precio := p.PrecioVenta
	vigentes, err := s.precios.Vigentes(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	if v, ok := vigentes[p.ID]; ok {
		precio = v
	}
	resp := &dto.ConsultaPrecioResponse{
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		PrecioVenta: precio,
		IVA:         p.IVA,
		Stock:       p.Stock,
	}
	s.cache.Set(ctx, codigo, resp)
	return resp, nil
}

// ── Cache de precios ─────────────────────────────────────────────────────────

const ttlCachePrecio = 10 * time.Minute

// cachePrecios keeps price lookups in Redis under "precio:<codigo>". A nil
// client disables it.
type cachePrecios struct {
	rdb *redis.Client
}

func clavePrecio(codigo string) string { return "precio:" + codigo }

func (c *cachePrecios) Get(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, clavePrecio(codigo)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ConsultaPrecioResponse
	if json.Unmarshal(data, &resp) != nil {
		return nil, false
	}
	return &resp, true
}

func (c *cachePrecios) Set(ctx context.Context, codigo string, resp *dto.ConsultaPrecioResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, clavePrecio(codigo), data, ttlCachePrecio).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("producto: no se pudo guardar precio en cache")
	}
}

func (c *cachePrecios) Invalidar(ctx context.Context, codigo string) {
	if c == nil || c.rdb == nil || codigo == "" {
		return
	}
	if err := c.rdb.Del(ctx, clavePrecio(codigo)).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("producto: no se pudo invalidar precio en cache")
	}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func toProductoResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:               p.ID.String(),
		Codigo:           p.Codigo,
		Nombre:           p.Nombre,
		Descripcion:      p.Descripcion,
		CategoriaID:      idString(p.CategoriaID),
		MarcaID:          idString(p.MarcaID),
		ProveedorID:      idString(p.ProveedorID),
		UnidadMedida:     p.UnidadMedida,
		PrecioCompra:     p.PrecioCompra,
		Margen:           p.Margen,
		IVA:              p.IVA,
		PrecioVenta:      p.PrecioVenta,
		StockMinimo:      p.StockMinimo,
		Stock:            p.Stock,
		BajoMinimo:       p.BajoMinimo(),
		FechaVencimiento: dto.FormatearDia(p.FechaVencimiento),
		Activo:           p.Activo,
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	if p.Marca != nil {
		resp.Marca = &p.Marca.Nombre
	}
	if p.Proveedor != nil {
		resp.Proveedor = &p.Proveedor.RazonSocial
	}
	return resp
}

func toPrecioResponse(pp *model.PrecioProducto) dto.PrecioResponse {
	return dto.PrecioResponse{
		ID:          pp.ID.String(),
		ProductoID:  pp.ProductoID.String(),
		Precio:      pp.Precio,
		FechaInicio: fechaHora(pp.FechaInicio),
		FechaFin:    dto.FormatearFecha(pp.FechaFin),
		Vigente:     pp.Vigente(),
	}
}
