package service

import (
	"context"
	"net/url"
	"regexp"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reTemporal = regexp.MustCompile(`Contraseña temporal: (\S+)`)
	reEnlace   = regexp.MustCompile(`uid=([^&\s]+)&token=(\S+)`)
)

// accesoEnviado extracts the temporary password and the (uid, token) pair
// from the last queued welcome email.
func accesoEnviado(t *testing.T, e *entorno) (temporal, uid, token string) {
	t.Helper()
	body := e.cola.ultimo(t).Body

	m := reTemporal.FindStringSubmatch(body)
	require.Len(t, m, 2)
	l := reEnlace.FindStringSubmatch(body)
	require.Len(t, l, 3)

	uid, err := url.QueryUnescape(l[1])
	require.NoError(t, err)
	token, err = url.QueryUnescape(l[2])
	require.NoError(t, err)
	return m[1], uid, token
}

func TestAuthService_AltaYPrimerCambio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	u, err := e.usuarioSvc.Crear(ctx, dto.CrearUsuarioRequest{Username: "maria", Email: "maria@example.com"})
	require.NoError(t, err)
	assert.False(t, u.Activo)
	temporal, uid, token := accesoEnviado(t, e)

	_, err = e.auth.Login(ctx, dto.LoginRequest{Username: "maria", Password: temporal})
	requireCodigo(t, err, apierror.CodeForbidden)

	cambio := dto.PrimerCambioRequest{UID: uid, Token: token, PasswordTemporal: temporal, PasswordNueva: "nueva-clave-1"}
	require.NoError(t, e.auth.PrimerCambio(ctx, cambio))

	login, err := e.auth.Login(ctx, dto.LoginRequest{Username: "maria", Password: "nueva-clave-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.True(t, login.User.Activo)

	err = e.auth.PrimerCambio(ctx, cambio)
	requireCampo(t, err, "token")
}

func TestAuthService_PrimerCambioConTemporalIncorrecta(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	_, err := e.usuarioSvc.Crear(ctx, dto.CrearUsuarioRequest{Username: "pedro", Email: "pedro@example.com"})
	require.NoError(t, err)
	_, uid, token := accesoEnviado(t, e)

	err = e.auth.PrimerCambio(ctx, dto.PrimerCambioRequest{
		UID: uid, Token: token, PasswordTemporal: "otra-cosa", PasswordNueva: "nueva-clave-1",
	})
	requireCampo(t, err, "password_temporal")
}

func TestAuthService_LoginYRefresh(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	_, err := e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)

	_, err = e.auth.Login(ctx, dto.LoginRequest{Username: AdminUsername, Password: "incorrecta"})
	requireCodigo(t, err, apierror.CodeUnauthorized)

	login, err := e.auth.Login(ctx, dto.LoginRequest{Username: AdminUsername, Password: AdminPassword})
	require.NoError(t, err)
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, 3600, login.ExpiresIn)

	_, err = e.auth.Refresh(ctx, login.AccessToken)
	requireCodigo(t, err, apierror.CodeUnauthorized)

	nuevo, err := e.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, nuevo.AccessToken)
}

func TestAuthService_CambiarPassword(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	_, err := e.seedSvc.InicializarSistema(ctx)
	require.NoError(t, err)
	admin, err := e.usuarios.FindByUsername(ctx, AdminUsername)
	require.NoError(t, err)

	err = e.auth.CambiarPassword(ctx, admin.ID, dto.CambiarPasswordRequest{PasswordActual: "mal", PasswordNueva: "otra-clave-99"})
	requireCampo(t, err, "password_actual")

	err = e.auth.CambiarPassword(ctx, admin.ID, dto.CambiarPasswordRequest{PasswordActual: AdminPassword, PasswordNueva: "otra-clave-99"})
	require.NoError(t, err)
	_, err = e.auth.Login(ctx, dto.LoginRequest{Username: AdminUsername, Password: "otra-clave-99"})
	assert.NoError(t, err)
}
