package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsuarioService interface {
	// Crear registers an inactive staff account with a generated temporary
	// password and emails the first-change link.
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context, filter dto.UsuarioFilter) (*dto.ListResponse[dto.UsuarioResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
	AsignarRoles(ctx context.Context, id uuid.UUID, req dto.AsignarRolesRequest) (*dto.UsuarioResponse, error)
	// ReenviarAcceso issues a new temporary password and link. Earlier links
	// stop validating because the password hash changes.
	ReenviarAcceso(ctx context.Context, id uuid.UUID) error
}

type usuarioService struct {
	repo     repository.UsuarioRepository
	roles    repository.RolRepository
	personas repository.PersonaRepository
	auth     AuthService
	acceso   AccesoService
	queue    EmailQueue
	cfg      *config.Config
}

func NewUsuarioService(
	repo repository.UsuarioRepository,
	roles repository.RolRepository,
	personas repository.PersonaRepository,
	auth AuthService,
	acceso AccesoService,
	queue EmailQueue,
	cfg *config.Config,
) UsuarioService {
	return &usuarioService{
		repo:     repo,
		roles:    roles,
		personas: personas,
		auth:     auth,
		acceso:   acceso,
		queue:    queue,
		cfg:      cfg,
	}
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := s.validarUnicos(ctx, req.Username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	empleadoID, err := s.validarEmpleado(ctx, req.EmpleadoID)
	if err != nil {
		return nil, err
	}
	roles, err := s.buscarRoles(ctx, req.RolIDs)
	if err != nil {
		return nil, err
	}

	temporal, err := generarPassword(12)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temporal), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Username:            req.Username,
		Email:               req.Email,
		PasswordHash:        string(hash),
		EsStaff:             req.EsStaff,
		Activo:              false,
		DebeCambiarPassword: true,
		EmpleadoID:          empleadoID,
		Roles:               roles,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, duplicado(err, "username", "El nombre de usuario ya existe")
	}
	if len(roles) > 0 {
		s.acceso.Invalidar(ctx)
	}

	s.enviarAcceso(ctx, user, temporal)
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Usuario no encontrado")
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) Listar(ctx context.Context, filter dto.UsuarioFilter) (*dto.ListResponse[dto.UsuarioResponse], error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		data[i] = toUsuarioResponse(&users[i])
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Usuario no encontrado")
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := s.validarUnicos(ctx, "", *req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.EsStaff != nil {
		user.EsStaff = *req.EsStaff
	}
	if req.EmpleadoID != nil {
		empleadoID, err := s.validarEmpleado(ctx, req.EmpleadoID)
		if err != nil {
			return nil, err
		}
		user.EmpleadoID = empleadoID
		user.Empleado = nil
	}
	if err := s.repo.Update(ctx, nil, user); err != nil {
		return nil, duplicado(err, "email", "El email ya esta registrado")
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Usuario no encontrado")
	}
	if !user.Activo && user.DebeCambiarPassword {
		return nil, apierror.StateConflict("El usuario debe completar el cambio de contraseña inicial")
	}
	if err := s.repo.SetActivo(ctx, id, !user.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !user.Activo}, nil
}

func (s *usuarioService) AsignarRoles(ctx context.Context, id uuid.UUID, req dto.AsignarRolesRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Usuario no encontrado")
	}
	roles, err := s.buscarRoles(ctx, req.RolIDs)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReemplazarRoles(ctx, tx, user, roles)
	})
	if err != nil {
		return nil, err
	}
	s.acceso.Invalidar(ctx)
	user.Roles = roles
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) ReenviarAcceso(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "Usuario no encontrado")
	}
	if !user.DebeCambiarPassword {
		return apierror.StateConflict("El usuario ya establecio su contraseña")
	}
	temporal, err := generarPassword(12)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temporal), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, nil, user); err != nil {
		return err
	}
	s.enviarAcceso(ctx, user, temporal)
	return nil
}

// enviarAcceso queues the welcome email. Failures are logged: the account
// exists and ReenviarAcceso can issue a new link.
func (s *usuarioService) enviarAcceso(ctx context.Context, user *model.Usuario, temporal string) {
	if s.queue == nil {
		log.Warn().Str("usuario", user.Username).Msg("usuarios: cola de correo no configurada, acceso no enviado")
		return
	}
	uid, token, err := s.auth.TokenPrimerCambio(user)
	if err != nil {
		log.Error().Err(err).Str("usuario", user.Username).Msg("usuarios: no se pudo generar el enlace")
		return
	}
	enlace := fmt.Sprintf("%s/primer-cambio?uid=%s&token=%s",
		s.cfg.FrontendURL, url.QueryEscape(uid), url.QueryEscape(token))
	body := fmt.Sprintf(
		"Hola %s,\n\nSe creo su cuenta en %s.\n\nUsuario: %s\nContraseña temporal: %s\n\n"+
			"Para activar su cuenta establezca una nueva contraseña en:\n%s\n\n"+
			"El enlace vence en %d horas y solo puede usarse una vez.\n",
		user.Username, s.cfg.EmpresaNombre, user.Username, temporal, enlace, s.cfg.PasswordTokenHours)

	payload := worker.EmailJobPayload{
		ToEmail: user.Email,
		Subject: "Acceso a " + s.cfg.EmpresaNombre,
		Body:    body,
	}
	if err := s.queue.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("usuario", user.Username).Msg("usuarios: no se pudo encolar el correo de acceso")
	}
}

func (s *usuarioService) validarUnicos(ctx context.Context, username, email string, excluir uuid.UUID) error {
	fields := map[string]string{}
	if username != "" {
		existe, err := s.repo.Existe(ctx, "username", username, excluir)
		if err != nil {
			return err
		}
		if existe {
			fields["username"] = "El nombre de usuario ya existe"
		}
	}
	existe, err := s.repo.Existe(ctx, "email", email, excluir)
	if err != nil {
		return err
	}
	if existe {
		fields["email"] = "El email ya esta registrado"
	}
	if len(fields) > 0 {
		return apierror.ValidationFields(fields)
	}
	return nil
}

func (s *usuarioService) validarEmpleado(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseIDOpcional("empleado_id", raw)
	if err != nil || id == nil {
		return nil, err
	}
	p, err := s.personas.FindByID(ctx, *id)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, apierror.Validation("empleado_id", "Empleado no encontrado")
		}
		return nil, err
	}
	if p.Tipo != model.TipoEmpleado {
		return nil, apierror.Validation("empleado_id", "La persona no es un empleado")
	}
	return id, nil
}

func (s *usuarioService) buscarRoles(ctx context.Context, raw []string) ([]model.Rol, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID("rol_ids", r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	roles, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(uniqueIDs(ids)) {
		return nil, apierror.Validation("rol_ids", "Uno o mas roles no existen")
	}
	return roles, nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

const alfabetoPassword = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generarPassword returns a random password from an alphabet without
// look-alike characters.
func generarPassword(n int) (string, error) {
	out := make([]byte, n)
	limite := big.NewInt(int64(len(alfabetoPassword)))
	for i := range out {
		k, err := rand.Int(rand.Reader, limite)
		if err != nil {
			return "", err
		}
		out[i] = alfabetoPassword[k.Int64()]
	}
	return string(out), nil
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	roles := make([]dto.RolResumen, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = dto.RolResumen{ID: r.ID.String(), Nombre: r.Nombre}
	}
	return dto.UsuarioResponse{
		ID:                  u.ID.String(),
		Username:            u.Username,
		Email:               u.Email,
		EsSuperusuario:      u.EsSuperusuario,
		EsStaff:             u.EsStaff,
		Activo:              u.Activo,
		DebeCambiarPassword: u.DebeCambiarPassword,
		UltimoLogin:         dto.FormatearFecha(u.UltimoLogin),
		EmpleadoID:          idString(u.EmpleadoID),
		Roles:               roles,
	}
}
