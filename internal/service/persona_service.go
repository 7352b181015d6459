package service

import (
	"context"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersonaService manages personas and their empleado/cliente variants.
type PersonaService interface {
	CrearContacto(ctx context.Context, req dto.PersonaRequest) (*dto.PersonaResponse, error)
	CrearEmpleado(ctx context.Context, req dto.EmpleadoRequest) (*dto.PersonaResponse, error)
	CrearCliente(ctx context.Context, req dto.ClienteRequest) (*dto.PersonaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PersonaResponse, error)
	Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.PersonaResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.PersonaRequest) (*dto.PersonaResponse, error)
	ActualizarEmpleado(ctx context.Context, id uuid.UUID, req dto.EmpleadoRequest) (*dto.PersonaResponse, error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.PersonaResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type personaService struct {
	repo repository.PersonaRepository
}

func NewPersonaService(repo repository.PersonaRepository) PersonaService {
	return &personaService{repo: repo}
}

// ── Alta ─────────────────────────────────────────────────────────────────────

func (s *personaService) CrearContacto(ctx context.Context, req dto.PersonaRequest) (*dto.PersonaResponse, error) {
	p := &model.Persona{Tipo: model.TipoContacto, Activo: true}
	aplicarPersona(p, req)
	return s.crear(ctx, p)
}

func (s *personaService) CrearEmpleado(ctx context.Context, req dto.EmpleadoRequest) (*dto.PersonaResponse, error) {
	emp, err := empleadoDesde(req)
	if err != nil {
		return nil, err
	}
	p := &model.Persona{Tipo: model.TipoEmpleado, Activo: true, Empleado: emp}
	aplicarPersona(p, req.PersonaRequest)
	return s.crear(ctx, p)
}

func (s *personaService) CrearCliente(ctx context.Context, req dto.ClienteRequest) (*dto.PersonaResponse, error) {
	cli, err := clienteDesde(req)
	if err != nil {
		return nil, err
	}
	p := &model.Persona{Tipo: model.TipoCliente, Activo: true, Cliente: cli}
	aplicarPersona(p, req.PersonaRequest)
	return s.crear(ctx, p)
}

func (s *personaService) crear(ctx context.Context, p *model.Persona) (*dto.PersonaResponse, error) {
	if err := s.validarUnicos(ctx, p, uuid.Nil); err != nil {
		return nil, err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, p)
	})
	if err != nil {
		return nil, duplicado(err, "documento", "Ya existe una persona con ese documento")
	}
	resp := toPersonaResponse(p)
	return &resp, nil
}

// ── Consulta ─────────────────────────────────────────────────────────────────

func (s *personaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Persona no encontrada")
	}
	resp := toPersonaResponse(p)
	return &resp, nil
}

func (s *personaService) Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.PersonaResponse], error) {
	personas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PersonaResponse, len(personas))
	for i := range personas {
		data[i] = toPersonaResponse(&personas[i])
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

// ── Modificacion ─────────────────────────────────────────────────────────────

func (s *personaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.PersonaRequest) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Persona no encontrada")
	}
	aplicarPersona(p, req)
	return s.guardar(ctx, p)
}

func (s *personaService) ActualizarEmpleado(ctx context.Context, id uuid.UUID, req dto.EmpleadoRequest) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Persona no encontrada")
	}
	if p.Tipo != model.TipoEmpleado {
		return nil, apierror.StateConflict("La persona no es un empleado")
	}
	emp, err := empleadoDesde(req)
	if err != nil {
		return nil, err
	}
	emp.PersonaID = p.ID
	if p.Empleado != nil {
		emp.CreatedAt = p.Empleado.CreatedAt
	}
	p.Empleado = emp
	aplicarPersona(p, req.PersonaRequest)
	return s.guardar(ctx, p)
}

func (s *personaService) ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Persona no encontrada")
	}
	if p.Tipo != model.TipoCliente {
		return nil, apierror.StateConflict("La persona no es un cliente")
	}
	cli, err := clienteDesde(req)
	if err != nil {
		return nil, err
	}
	cli.PersonaID = p.ID
	if p.Cliente != nil {
		cli.CreatedAt = p.Cliente.CreatedAt
	}
	p.Cliente = cli
	aplicarPersona(p, req.PersonaRequest)
	return s.guardar(ctx, p)
}

func (s *personaService) guardar(ctx context.Context, p *model.Persona) (*dto.PersonaResponse, error) {
	if err := s.validarUnicos(ctx, p, p.ID); err != nil {
		return nil, err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, duplicado(err, "documento", "Ya existe una persona con ese documento")
	}
	resp := toPersonaResponse(p)
	return &resp, nil
}

func (s *personaService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Persona no encontrada")
	}
	if err := s.repo.SetActivo(ctx, id, !p.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !p.Activo}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// validarUnicos checks documento, ruc and email before writing so every
// clash is reported as a field error in one response.
func (s *personaService) validarUnicos(ctx context.Context, p *model.Persona, excluir uuid.UUID) error {
	candidatos := map[string]*string{
		"documento": recortar(p.Documento),
		"ruc":       recortar(p.RUC),
		"email":     minusculas(recortar(p.Email)),
	}
	mensajes := map[string]string{
		"documento": "Ya existe una persona con ese documento",
		"ruc":       "Ya existe una persona con ese RUC",
		"email":     "Ya existe una persona con ese email",
	}
	fields := map[string]string{}
	for campo, valor := range candidatos {
		if valor == nil {
			continue
		}
		existe, err := s.repo.Existe(ctx, campo, *valor, excluir)
		if err != nil {
			return err
		}
		if existe {
			fields[campo] = mensajes[campo]
		}
	}
	if len(fields) > 0 {
		return apierror.ValidationFields(fields)
	}
	return nil
}

func aplicarPersona(p *model.Persona, req dto.PersonaRequest) {
	p.Documento = req.Documento
	p.RUC = req.RUC
	p.Nombre = req.Nombre
	p.Apellido = req.Apellido
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	p.Ciudad = req.Ciudad
}

func empleadoDesde(req dto.EmpleadoRequest) (*model.Empleado, error) {
	contratacion, err := parseFecha("fecha_contratacion", req.FechaContratacion)
	if err != nil {
		return nil, err
	}
	nacimiento, err := parseFechaOpcional("fecha_nacimiento", req.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	if nacimiento != nil && !nacimiento.Before(contratacion) {
		return nil, apierror.Validation("fecha_nacimiento", "La fecha de nacimiento debe ser anterior a la contratacion")
	}
	return &model.Empleado{
		FechaContratacion: contratacion,
		Cargo:             strings.TrimSpace(req.Cargo),
		Sucursal:          req.Sucursal,
		Salario:           req.Salario,
		Genero:            req.Genero,
		FechaNacimiento:   nacimiento,
		GrupoSanguineo:    req.GrupoSanguineo,
		Barrio:            req.Barrio,
		Departamento:      req.Departamento,
		Pais:              req.Pais,
		CodigoPostal:      req.CodigoPostal,
	}, nil
}

func clienteDesde(req dto.ClienteRequest) (*model.Cliente, error) {
	if req.CondicionPago == model.CondicionCredito && req.DiasCredito == 0 {
		return nil, apierror.Validation("dias_credito", "Indique los dias de credito")
	}
	dias := req.DiasCredito
	if req.CondicionPago == model.CondicionContado {
		dias = 0
	}
	return &model.Cliente{
		CondicionPago: req.CondicionPago,
		DiasCredito:   dias,
		LimiteCredito: req.LimiteCredito,
	}, nil
}

func recortar(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func minusculas(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}

func toPersonaResumen(p *model.Persona) dto.PersonaResumen {
	return dto.PersonaResumen{
		ID:             p.ID.String(),
		NombreCompleto: p.NombreCompleto(),
		Documento:      p.Documento,
		RUC:            p.RUC,
	}
}

func toPersonaResponse(p *model.Persona) dto.PersonaResponse {
	resp := dto.PersonaResponse{
		ID:             p.ID.String(),
		Tipo:           p.Tipo,
		Documento:      p.Documento,
		RUC:            p.RUC,
		Nombre:         p.Nombre,
		Apellido:       p.Apellido,
		NombreCompleto: p.NombreCompleto(),
		Telefono:       p.Telefono,
		Email:          p.Email,
		Direccion:      p.Direccion,
		Ciudad:         p.Ciudad,
		Activo:         p.Activo,
		CreatedAt:      fechaHora(p.CreatedAt),
	}
	if e := p.Empleado; e != nil {
		contratacion := e.FechaContratacion.Format(dto.FormatoFecha)
		resp.Empleado = &dto.EmpleadoDetalle{
			FechaContratacion: contratacion,
			Cargo:             e.Cargo,
			Sucursal:          e.Sucursal,
			Salario:           e.Salario,
			Genero:            e.Genero,
			FechaNacimiento:   dto.FormatearDia(e.FechaNacimiento),
			GrupoSanguineo:    e.GrupoSanguineo,
			Barrio:            e.Barrio,
			Departamento:      e.Departamento,
			Pais:              e.Pais,
			CodigoPostal:      e.CodigoPostal,
		}
	}
	if c := p.Cliente; c != nil {
		resp.Cliente = &dto.ClienteDetalle{
			CondicionPago: c.CondicionPago,
			DiasCredito:   c.DiasCredito,
			LimiteCredito: c.LimiteCredito,
		}
	}
	return resp
}
