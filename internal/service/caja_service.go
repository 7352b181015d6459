package service

import (
	"context"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Clasificaciones del arqueo.
const (
	ArqueoNormal      = "normal"
	ArqueoAdvertencia = "advertencia"
	ArqueoCritico     = "critico"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	// Cerrar runs the arqueo: compares the declared amount with
	// monto_inicial + SUM(movimientos) and classifies the difference.
	Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error)
	Activa(ctx context.Context) (*dto.SesionCajaResponse, error)
	Historial(ctx context.Context, p dto.Paginacion) (*dto.ListResponse[dto.SesionCajaResponse], error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

var errSinCajaAbierta = apierror.StateConflict("No hay una sesion de caja abierta")

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, apierror.Validation("monto_inicial", "El monto inicial no puede ser negativo")
	}
	sesion := &model.SesionCaja{
		UsuarioAperturaID: usuarioID,
		MontoInicial:      req.MontoInicial,
		Estado:            model.CajaAbierta,
		AbiertaAt:         ahora(),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.FindAbierta(ctx, tx)
		switch {
		case err == nil:
			return apierror.Conflict("Ya existe una sesion de caja abierta")
		case !repository.EsNoEncontrado(err):
			return err
		}
		return s.repo.CreateSesion(ctx, tx, sesion)
	})
	if err != nil {
		// the partial unique index catches a concurrent open
		if repository.EsDuplicado(err) {
			return nil, apierror.Conflict("Ya existe una sesion de caja abierta")
		}
		return nil, err
	}
	log.Info().Str("sesion", sesion.ID.String()).Str("monto_inicial", sesion.MontoInicial.String()).Msg("caja abierta")
	return s.Obtener(ctx, sesion.ID)
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Movements are immutable. Egresos are stored negated.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("monto", "El monto debe ser mayor a cero")
	}
	monto := req.Monto
	switch req.Tipo {
	case model.CajaIngreso:
	case model.CajaEgreso:
		monto = monto.Neg()
	default:
		return nil, apierror.Validation("tipo", "Tipo de movimiento invalido")
	}

	mov := &model.MovimientoCaja{
		Tipo:        req.Tipo,
		Monto:       monto,
		Descripcion: strings.TrimSpace(req.Descripcion),
		UsuarioID:   &usuarioID,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.repo.FindAbierta(ctx, tx)
		if err != nil {
			if repository.EsNoEncontrado(err) {
				return errSinCajaAbierta
			}
			return err
		}
		mov.SesionCajaID = sesion.ID
		return s.repo.CreateMovimiento(ctx, tx, mov)
	})
	if err != nil {
		return nil, err
	}
	resp := toMovimientoCajaResponse(mov)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	if req.MontoDeclarado.IsNegative() {
		return nil, apierror.Validation("monto_declarado", "El monto declarado no puede ser negativo")
	}
	var id uuid.UUID
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.repo.FindAbierta(ctx, tx)
		if err != nil {
			if repository.EsNoEncontrado(err) {
				return errSinCajaAbierta
			}
			return err
		}
		suma, err := s.repo.SumaMovimientos(ctx, tx, sesion.ID)
		if err != nil {
			return err
		}

		esperado := sesion.MontoInicial.Add(suma)
		declarado := req.MontoDeclarado
		diferencia := declarado.Sub(esperado)
		clasificacion := clasificarDiferencia(diferencia, esperado)

		obs := recortar(req.Observaciones)
		if clasificacion == ArqueoCritico && obs == nil {
			return apierror.Validation("observaciones", "Diferencia critica: las observaciones son obligatorias")
		}

		cerrada := ahora()
		sesion.Estado = model.CajaCerrada
		sesion.UsuarioCierreID = &usuarioID
		sesion.MontoEsperado = &esperado
		sesion.MontoDeclarado = &declarado
		sesion.Diferencia = &diferencia
		sesion.Clasificacion = &clasificacion
		sesion.Observaciones = obs
		sesion.CerradaAt = &cerrada
		id = sesion.ID

		log.Info().
			Str("sesion", sesion.ID.String()).
			Str("esperado", esperado.String()).
			Str("declarado", declarado.String()).
			Str("clasificacion", clasificacion).
			Msg("caja cerrada")
		return s.repo.UpdateSesionTx(tx, sesion)
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Sesion de caja no encontrada")
	}
	resp := toSesionCajaResponse(sesion, true)
	return &resp, nil
}

func (s *cajaService) Activa(ctx context.Context) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindAbierta(ctx, nil)
	if err != nil {
		return nil, noEncontrado(err, "No hay una sesion de caja abierta")
	}
	return s.Obtener(ctx, sesion.ID)
}

func (s *cajaService) Historial(ctx context.Context, p dto.Paginacion) (*dto.ListResponse[dto.SesionCajaResponse], error) {
	list, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SesionCajaResponse, 0, len(list))
	for i := range list {
		data = append(data, toSesionCajaResponse(&list[i], false))
	}
	return dto.NewListResponse(data, total, p), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

var (
	unPorciento    = decimal.NewFromInt(1)
	cincoPorciento = decimal.NewFromInt(5)
)

// clasificarDiferencia returns "normal" | "advertencia" | "critico" from
// |diferencia| / esperado: normal <= 1%, advertencia <= 5%, critico > 5%.
// Any difference against an expected amount of zero is critico.
func clasificarDiferencia(diferencia, esperado decimal.Decimal) string {
	if diferencia.IsZero() {
		return ArqueoNormal
	}
	if esperado.IsZero() {
		return ArqueoCritico
	}
	pct := diferencia.Abs().Div(esperado.Abs()).Mul(cien)
	switch {
	case pct.LessThanOrEqual(unPorciento):
		return ArqueoNormal
	case pct.LessThanOrEqual(cincoPorciento):
		return ArqueoAdvertencia
	default:
		return ArqueoCritico
	}
}

var cien = decimal.NewFromInt(100)

func toMovimientoCajaResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	return dto.MovimientoCajaResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		FacturaID:   idString(m.FacturaID),
		UsuarioID:   idString(m.UsuarioID),
		CreatedAt:   fechaHora(m.CreatedAt),
	}
}

func toSesionCajaResponse(s *model.SesionCaja, conMovimientos bool) dto.SesionCajaResponse {
	saldo := s.MontoInicial
	for _, m := range s.Movimientos {
		saldo = saldo.Add(m.Monto)
	}
	if s.MontoEsperado != nil {
		saldo = *s.MontoEsperado
	}
	resp := dto.SesionCajaResponse{
		ID:                s.ID.String(),
		UsuarioAperturaID: s.UsuarioAperturaID.String(),
		UsuarioCierreID:   idString(s.UsuarioCierreID),
		Estado:            s.Estado,
		MontoInicial:      s.MontoInicial,
		SaldoActual:       saldo,
		MontoEsperado:     s.MontoEsperado,
		MontoDeclarado:    s.MontoDeclarado,
		Diferencia:        s.Diferencia,
		Clasificacion:     s.Clasificacion,
		Observaciones:     s.Observaciones,
		AbiertaAt:         fechaHora(s.AbiertaAt),
		CerradaAt:         dto.FormatearFecha(s.CerradaAt),
	}
	if conMovimientos {
		resp.Movimientos = make([]dto.MovimientoCajaResponse, 0, len(s.Movimientos))
		for i := range s.Movimientos {
			resp.Movimientos = append(resp.Movimientos, toMovimientoCajaResponse(&s.Movimientos[i]))
		}
	}
	return resp
}
