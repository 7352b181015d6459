package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_ValidationCarriesFields(t *testing.T) {
	status, body := Response(Validation("cantidad", "Stock insuficiente"))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	ve, ok := body.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Stock insuficiente", ve.Fields["cantidad"])
}

func TestResponse_WrappedDomainError(t *testing.T) {
	err := fmt.Errorf("recibir orden: %w", StateConflict("La orden esta cancelada"))

	status, body := Response(err)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "La orden esta cancelada", body.(*APIError).Detail)
	assert.True(t, Is(err, CodeStateConflict))
}

func TestResponse_UnknownErrorHidesInternals(t *testing.T) {
	status, body := Response(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error interno del servidor", body.(*APIError).Detail)
}

func TestWrap_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("smtp down")
	err := Wrap(CodeDependency, cause, "No se pudo enviar el correo")

	assert.ErrorIs(t, err, cause)
	_, body := Response(err)
	assert.Equal(t, "No se pudo enviar el correo", body.(*APIError).Detail)
}
