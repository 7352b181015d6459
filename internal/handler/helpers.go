package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// codigoPermiso matches "modulo.accion" codes such as "ordenes_compra.ver".
var codigoPermiso = regexp.MustCompile(`^[a-z][a-z_]*\.[a-z][a-z_]*$`)

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Field errors are keyed by the name the client sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = validate.RegisterValidation("permiso", func(fl validator.FieldLevel) bool {
		return codigoPermiso.MatchString(fl.Field().String())
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery binds and validates query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, filter)
}

func validar(c *gin.Context, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		respondError(c, err)
		return false
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[nombreCampo(fe)] = mensajeValidacion(fe)
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// nombreCampo drops the struct prefix: "CrearFacturaRequest.detalles[0].cantidad"
// becomes "detalles[0].cantidad".
func nombreCampo(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, resto, ok := strings.Cut(ns, "."); ok {
		return resto
	}
	return fe.Field()
}

func mensajeValidacion(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Debe tener al menos %s elementos o caracteres", fe.Param())
		}
		return "Debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Debe tener como maximo %s elementos o caracteres", fe.Param())
		}
		return "Debe ser menor o igual a " + fe.Param()
	case "gt":
		return "Debe ser mayor a " + fe.Param()
	case "gte":
		return "Debe ser mayor o igual a " + fe.Param()
	case "oneof":
		return "Valor no permitido, opciones: " + fe.Param()
	case "email":
		return "Correo electronico invalido"
	case "uuid":
		return "Identificador invalido"
	case "datetime":
		return "Fecha invalida, formato " + fe.Param()
	case "alphanum":
		return "Solo letras y numeros"
	case "permiso":
		return "El codigo debe tener la forma modulo.accion"
	}
	return "Valor invalido (" + fe.Tag() + ")"
}

// respondError writes the envelope for any service error. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status, body := apierror.Response(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

// paramID parses a uuid path parameter, writing a 400 when malformed.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// usuarioActual returns the authenticated user id as the optional audit
// reference services expect.
func usuarioActual(c *gin.Context) *uuid.UUID {
	id := middleware.UsuarioID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// responderTabla renders t as XLSX (default) or CSV depending on ?formato=.
func responderTabla(c *gin.Context, base string, t infra.Tabla) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
		ext         string
	)
	switch c.DefaultQuery("formato", dto.FormatoXLSX) {
	case dto.FormatoCSV:
		err, contentType, ext = infra.EscribirCSV(&buf, t), infra.ContentTypeCSV, "csv"
	case dto.FormatoXLSX:
		err, contentType, ext = infra.EscribirXLSX(&buf, t), infra.ContentTypeXLSX, "xlsx"
	default:
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"formato": "Valor no permitido, opciones: xlsx csv",
		}))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("%s_%s.%s", base, time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
