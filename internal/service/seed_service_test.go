package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedService_Idempotente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	res, err := e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(PermisosSistema), res.PermisosCreados)
	assert.Equal(t, len(RolesSistema), res.RolesCreados)
	assert.True(t, res.AdminCreado)

	res, err = e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.PermisosCreados)
	assert.Zero(t, res.RolesCreados)
	assert.False(t, res.AdminCreado)

	roles, err := e.rolSvc.Listar(ctx, dto.RolFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, len(RolesSistema), roles.Total)
}

func TestSeedService_AdminConEmpleadoYPermisos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	_, err := e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)

	admin, err := e.usuarios.FindByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	assert.True(t, admin.EsSuperusuario)
	require.NotNil(t, admin.EmpleadoID)

	perfil, err := e.auth.Perfil(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, perfil.Empleado)
	assert.Equal(t, "Admin Principal", perfil.Empleado.NombreCompleto)
	assert.Len(t, perfil.Permisos, len(PermisosSistema))
}

func TestSeedService_AdminDebeCambiarPassword(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	_, err := e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)

	login, err := e.auth.Login(ctx, dto.LoginRequest{Username: AdminUsername, Password: AdminPassword})
	require.NoError(t, err)
	assert.True(t, login.User.DebeCambiarPassword)

	admin, err := e.usuarios.FindByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	require.NoError(t, e.auth.CambiarPassword(ctx, admin.ID, dto.CambiarPasswordRequest{
		PasswordActual: AdminPassword,
		PasswordNueva:  "bodega-segura-2026",
	}))

	login, err = e.auth.Login(ctx, dto.LoginRequest{Username: AdminUsername, Password: "bodega-segura-2026"})
	require.NoError(t, err)
	assert.False(t, login.User.DebeCambiarPassword)
}
