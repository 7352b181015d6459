package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *entorno) usuario(t *testing.T, username string, superusuario bool) *model.Usuario {
	t.Helper()
	u := &model.Usuario{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   "x",
		EsSuperusuario: superusuario,
		Activo:         true,
	}
	require.NoError(t, e.usuarios.Create(context.Background(), nil, u))
	return u
}

func (e *entorno) permiso(t *testing.T, codigo string) *model.Permiso {
	t.Helper()
	p := &model.Permiso{Codigo: codigo, Descripcion: codigo, Activo: true}
	require.NoError(t, e.permisos.Create(context.Background(), nil, p))
	return p
}

func TestAccesoService_BootstrapConTablaVacia(t *testing.T) {
	e := nuevoEntorno(t)
	u := e.usuario(t, "vendedor", false)

	ok, err := e.acceso.Autorizar(context.Background(), u.ID, "personas.ver")
	require.NoError(t, err)
	assert.True(t, ok)

	cfg := *e.cfg
	cfg.PermisosBootstrap = false
	estricto := NewAccesoService(e.usuarios, e.permisos, nil, &cfg, nil)
	ok, err = estricto.Autorizar(context.Background(), u.ID, "personas.ver")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccesoService_SinRolesSeDeniega(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	u := e.usuario(t, "vendedor", false)
	e.permiso(t, "personas.ver")

	ok, err := e.acceso.Autorizar(ctx, u.ID, "personas.ver")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccesoService_PermisoPorRol(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	u := e.usuario(t, "vendedor", false)
	ver := e.permiso(t, "personas.ver")
	e.permiso(t, "personas.crear")

	rolResp, err := e.rolSvc.Crear(ctx, dto.RolRequest{Nombre: "Ventas", PermisoIDs: []string{ver.ID.String()}})
	require.NoError(t, err)
	rol, err := e.roles.FindByID(ctx, uuid.MustParse(rolResp.ID))
	require.NoError(t, err)
	require.NoError(t, e.usuarios.ReemplazarRoles(ctx, nil, u, []model.Rol{*rol}))

	ok, err := e.acceso.Autorizar(ctx, u.ID, "personas.ver")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.acceso.Autorizar(ctx, u.ID, "personas.crear")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.rolSvc.AlternarActivo(ctx, rol.ID)
	require.NoError(t, err)
	ok, err = e.acceso.Autorizar(ctx, u.ID, "personas.ver")
	require.NoError(t, err)
	assert.False(t, ok, "un rol inactivo no concede permisos")
}

func TestAccesoService_SuperusuarioSiempre(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	u := e.usuario(t, "root", true)
	e.permiso(t, "caja.cerrar")

	ok, err := e.acceso.Autorizar(ctx, u.ID, "caja.cerrar")
	require.NoError(t, err)
	assert.True(t, ok)

	codigos, err := e.acceso.PermisosEfectivos(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []string{"caja.cerrar"}, codigos)
}

func TestAccesoService_UsuarioInexistenteOInactivo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	ok, err := e.acceso.Autorizar(ctx, uuid.New(), "personas.ver")
	require.NoError(t, err)
	assert.False(t, ok)

	u := e.usuario(t, "baja", true)
	require.NoError(t, e.usuarios.SetActivo(ctx, u.ID, false))
	ok, err = e.acceso.Autorizar(ctx, u.ID, "personas.ver")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRolDef_Codigos(t *testing.T) {
	var vendedor RolDef
	for _, r := range RolesSistema {
		if r.Nombre == "Vendedor" {
			vendedor = r
		}
	}
	codigos := vendedor.Codigos()

	assert.Contains(t, codigos, "pedidos.crear")
	assert.Contains(t, codigos, "productos.ver")
	assert.NotContains(t, codigos, "productos.crear")
	assert.NotContains(t, codigos, "usuarios.ver")
	assert.Len(t, RolesSistema[0].Codigos(), len(PermisosSistema))
}
