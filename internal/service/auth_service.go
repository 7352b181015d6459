package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token kinds carried in the "tipo" claim.
const (
	TokenAcceso       = "access"
	TokenRefresh      = "refresh"
	TokenPrimerCambio = "primer_cambio"
)

// bcryptCost is lowered by tests.
var bcryptCost = 12

var errEnlaceInvalido = apierror.Validation("token", "El enlace es invalido o ha expirado")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.PerfilResponse, error)
	CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error
	// PrimerCambio consumes the emailed (uid, token) pair, sets the definitive
	// password and activates the account. The pair stops validating afterwards.
	PrimerCambio(ctx context.Context, req dto.PrimerCambioRequest) error
	// TokenPrimerCambio builds the (uid, token) pair for the first password change.
	TokenPrimerCambio(u *model.Usuario) (uid, token string, err error)
}

type authService struct {
	repo   repository.UsuarioRepository
	acceso AccesoService
	cfg    *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, acceso AccesoService, cfg *config.Config) AuthService {
	return &authService{repo: repo, acceso: acceso, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, apierror.Unauthorized("Credenciales invalidas")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized("Credenciales invalidas")
	}
	if !user.Activo {
		if user.DebeCambiarPassword {
			return nil, apierror.Forbidden("Debe establecer su contraseña desde el enlace enviado a su correo")
		}
		return nil, apierror.Unauthorized("Usuario inactivo")
	}

	now := ahora()
	user.UltimoLogin = &now
	if err := s.repo.Update(ctx, nil, user); err != nil {
		return nil, err
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil || claims["tipo"] != TokenRefresh {
		return nil, apierror.Unauthorized("Refresh token invalido o expirado")
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Unauthorized("Token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, apierror.Unauthorized("Usuario no encontrado o inactivo")
	}
	return s.emitirTokens(user)
}

func (s *authService) Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.PerfilResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, noEncontrado(err, "Usuario no encontrado")
	}
	codigos, err := s.acceso.PermisosEfectivos(ctx, user)
	if err != nil {
		return nil, err
	}
	if codigos == nil {
		codigos = []string{}
	}
	resp := &dto.PerfilResponse{Usuario: toUsuarioResponse(user), Permisos: codigos}
	if user.Empleado != nil {
		r := toPersonaResumen(user.Empleado)
		resp.Empleado = &r
	}
	return resp, nil
}

func (s *authService) CambiarPassword(ctx context.Context, usuarioID uuid.UUID, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return noEncontrado(err, "Usuario no encontrado")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)) != nil {
		return apierror.Validation("password_actual", "La contraseña actual es incorrecta")
	}
	if req.PasswordActual == req.PasswordNueva {
		return apierror.Validation("password_nueva", "La nueva contraseña debe ser distinta a la actual")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.DebeCambiarPassword = false
	return s.repo.Update(ctx, nil, user)
}

func (s *authService) PrimerCambio(ctx context.Context, req dto.PrimerCambioRequest) error {
	raw, err := base64.RawURLEncoding.DecodeString(req.UID)
	if err != nil {
		return errEnlaceInvalido
	}
	id, err := uuid.Parse(string(raw))
	if err != nil {
		return errEnlaceInvalido
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return errEnlaceInvalido
		}
		return err
	}

	claims, err := s.parse(req.Token)
	if err != nil || claims["tipo"] != TokenPrimerCambio ||
		claims["user_id"] != user.ID.String() || claims["fp"] != huella(user) {
		return errEnlaceInvalido
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordTemporal)) != nil {
		return apierror.Validation("password_temporal", "La contraseña temporal es incorrecta")
	}
	if req.PasswordTemporal == req.PasswordNueva {
		return apierror.Validation("password_nueva", "La nueva contraseña debe ser distinta a la temporal")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNueva), bcryptCost)
	if err != nil {
		return err
	}
	now := ahora()
	user.PasswordHash = string(hash)
	user.Activo = true
	user.DebeCambiarPassword = false
	user.UltimoLogin = &now
	return s.repo.Update(ctx, nil, user)
}

func (s *authService) TokenPrimerCambio(u *model.Usuario) (string, string, error) {
	now := ahora()
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"tipo":    TokenPrimerCambio,
		"fp":      huella(u),
		"exp":     now.Add(time.Duration(s.cfg.PasswordTokenHours) * time.Hour).Unix(),
		"iat":     now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(u.ID.String())), token, nil
}

// huella fingerprints the account state the first-change token is bound to.
// Any password change, login or activation produces a different value.
func huella(u *model.Usuario) string {
	ultimo := ""
	if u.UltimoLogin != nil {
		ultimo = strconv.FormatInt(u.UltimoLogin.Unix(), 10)
	}
	sum := sha256.Sum256([]byte(u.PasswordHash + "|" + ultimo + "|" + strconv.FormatBool(u.Activo)))
	return hex.EncodeToString(sum[:])
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         toUsuarioResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := ahora()
	claims := jwt.MapClaims{
		"user_id":         user.ID.String(),
		"username":        user.Username,
		"es_superusuario": user.EsSuperusuario,
		"es_staff":        user.EsStaff,
		"tipo":            tipo,
		"exp":             now.Add(duration).Unix(),
		"iat":             now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
