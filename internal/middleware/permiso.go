package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PermisoChecker decides whether a user may run the operation guarded by
// codigo. service.AccesoService satisfies it.
type PermisoChecker interface {
	Autorizar(ctx context.Context, usuarioID uuid.UUID, codigo string) (bool, error)
}

// RequirePermiso gates a route on one permission code. It must run after
// JWTAuth.
func RequirePermiso(checker PermisoChecker, codigo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UsuarioID(c)
		if id == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		ok, err := checker.Autorizar(c.Request.Context(), id, codigo)
		if err != nil {
			log.Error().Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("permiso", codigo).
				Msg("permisos: error al evaluar acceso")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New(fmt.Sprintf("No tiene permiso para realizar esta accion (%s)", codigo)))
			return
		}
		c.Next()
	}
}
