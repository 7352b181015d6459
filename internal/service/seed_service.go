package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credenciales del superusuario creado por InicializarSistema.
const (
	AdminUsername = "admin"
	AdminPassword = "admin1234"
	AdminEmail    = "bodegaeirete@gmail.com"
)

// ResultadoSeed counts what InicializarSistema created on this run.
type ResultadoSeed struct {
	PermisosCreados int
	RolesCreados    int
	AdminCreado     bool
}

// SeedService bootstraps an empty database. Running it twice is harmless.
type SeedService interface {
	InicializarSistema(ctx context.Context) (*ResultadoSeed, error)
}

type seedService struct {
	permisos repository.PermisoRepository
	roles    repository.RolRepository
	personas repository.PersonaRepository
	usuarios repository.UsuarioRepository
	acceso   AccesoService
}

func NewSeedService(
	permisos repository.PermisoRepository,
	roles repository.RolRepository,
	personas repository.PersonaRepository,
	usuarios repository.UsuarioRepository,
	acceso AccesoService,
) SeedService {
	return &seedService{permisos: permisos, roles: roles, personas: personas, usuarios: usuarios, acceso: acceso}
}

func (s *seedService) InicializarSistema(ctx context.Context) (*ResultadoSeed, error) {
	res := &ResultadoSeed{}

	porCodigo, err := s.asegurarPermisos(ctx, res)
	if err != nil {
		return res, err
	}

	var admin *model.Rol
	for _, def := range RolesSistema {
		rol, creado, err := s.asegurarRol(ctx, def, porCodigo)
		if err != nil {
			return res, fmt.Errorf("rol %s: %w", def.Nombre, err)
		}
		if creado {
			res.RolesCreados++
		}
		if def.Nombre == "Administrador" {
			admin = rol
		}
	}

	if res.AdminCreado, err = s.asegurarAdmin(ctx, admin); err != nil {
		return res, fmt.Errorf("usuario admin: %w", err)
	}

	s.acceso.Invalidar(ctx)
	log.Info().
		Int("permisos", res.PermisosCreados).
		Int("roles", res.RolesCreados).
		Bool("admin", res.AdminCreado).
		Msg("Sistema inicializado")
	return res, nil
}

// asegurarPermisos creates the missing codes and keeps going on failure so
// one run reports every broken code at once.
func (s *seedService) asegurarPermisos(ctx context.Context, res *ResultadoSeed) (map[string]model.Permiso, error) {
	porCodigo := make(map[string]model.Permiso, len(PermisosSistema))
	var errs error
	for _, def := range PermisosSistema {
		p, err := s.permisos.FindByCodigo(ctx, def.Codigo)
		if err == nil {
			porCodigo[def.Codigo] = *p
			continue
		}
		if !repository.EsNoEncontrado(err) {
			errs = multierr.Append(errs, fmt.Errorf("permiso %s: %w", def.Codigo, err))
			continue
		}
		p = &model.Permiso{Codigo: def.Codigo, Descripcion: def.Descripcion, Activo: true}
		if err := s.permisos.Create(ctx, nil, p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("permiso %s: %w", def.Codigo, err))
			continue
		}
		porCodigo[def.Codigo] = *p
		res.PermisosCreados++
	}
	return porCodigo, errs
}

// asegurarRol creates the role on first run. Administrador always gets the
// full catalog so codes added later reach it.
func (s *seedService) asegurarRol(ctx context.Context, def RolDef, porCodigo map[string]model.Permiso) (*model.Rol, bool, error) {
	rol, err := s.roles.FindByNombre(ctx, def.Nombre)
	creado := false
	switch {
	case err == nil:
	case repository.EsNoEncontrado(err):
		desc := def.Descripcion
		rol = &model.Rol{Nombre: def.Nombre, Descripcion: &desc, Activo: true}
		if err := s.roles.Create(ctx, nil, rol); err != nil {
			return nil, false, err
		}
		creado = true
	default:
		return nil, false, err
	}

	if !creado && def.Nombre != "Administrador" {
		return rol, false, nil
	}
	codigos := def.Codigos()
	permisos := make([]model.Permiso, 0, len(codigos))
	for _, c := range codigos {
		permisos = append(permisos, porCodigo[c])
	}
	if err := s.roles.ReemplazarPermisos(ctx, nil, rol, permisos); err != nil {
		return nil, false, err
	}
	return rol, creado, nil
}

func (s *seedService) asegurarAdmin(ctx context.Context, rol *model.Rol) (bool, error) {
	_, err := s.usuarios.FindByUsername(ctx, AdminUsername)
	if err == nil {
		log.Warn().Str("username", AdminUsername).Msg("El usuario admin ya existia")
		return false, nil
	}
	if !repository.EsNoEncontrado(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcryptCost)
	if err != nil {
		return false, err
	}
	direccion, telefono, email := "Calle Principal", "0981123456", AdminEmail
	persona := &model.Persona{
		Tipo:      model.TipoEmpleado,
		Nombre:    "Admin",
		Apellido:  "Principal",
		Direccion: &direccion,
		Telefono:  &telefono,
		Email:     &email,
		Activo:    true,
		Empleado: &model.Empleado{
			FechaContratacion: ahora().Truncate(24 * time.Hour),
			Cargo:             "Administrador",
			Salario:           decimal.Zero,
		},
	}

	err = runTx(ctx, s.usuarios.DB(), func(tx *gorm.DB) error {
		if err := s.personas.Create(ctx, tx, persona); err != nil {
			return err
		}
		// The seeded password is public, so the first session must replace it.
		user := &model.Usuario{
			Username:            AdminUsername,
			Email:               AdminEmail,
			PasswordHash:        string(hash),
			EsSuperusuario:      true,
			EsStaff:             true,
			Activo:              true,
			DebeCambiarPassword: true,
			EmpleadoID:          &persona.ID,
		}
		if err := s.usuarios.Create(ctx, tx, user); err != nil {
			return err
		}
		if rol == nil {
			return nil
		}
		return s.usuarios.ReemplazarRoles(ctx, tx, user, []model.Rol{*rol})
	})
	if err != nil {
		return false, err
	}
	log.Warn().Str("username", AdminUsername).Msg("usuario admin creado con la contraseña por defecto; debe cambiarla al ingresar")
	return true, nil
}
