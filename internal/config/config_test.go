package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 72, cfg.PasswordTokenHours)
	assert.True(t, cfg.PermisosBootstrap)
	assert.Equal(t, 1, cfg.Establecimiento)
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PERMISOS_BOOTSTRAP", "false")
	t.Setenv("TIMBRADO", "12345678")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.PermisosBootstrap)
	assert.Equal(t, "12345678", cfg.Timbrado)
}

func TestValidate_RequiresJWTSecret(t *testing.T) {
	cfg := &Config{Establecimiento: 1, PuntoExpedicion: 1}
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET es obligatorio")
}

func TestValidate_RejectsZeroEstablecimiento(t *testing.T) {
	cfg := &Config{JWTSecret: "x", PuntoExpedicion: 1}
	assert.Error(t, cfg.Validate())
}
