package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNueva  string `json:"password_nueva"  validate:"required,min=8,max=72"`
}

// PrimerCambioRequest completes the first login of a staff account created
// with a temporary password. UID and Token come from the emailed link.
type PrimerCambioRequest struct {
	UID              string `json:"uid"               validate:"required"`
	Token            string `json:"token"             validate:"required"`
	PasswordTemporal string `json:"password_temporal" validate:"required"`
	PasswordNueva    string `json:"password_nueva"    validate:"required,min=8,max=72"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

type PerfilResponse struct {
	Usuario  UsuarioResponse `json:"usuario"`
	Empleado *PersonaResumen `json:"empleado"`
	Permisos []string        `json:"permisos"`
}
