package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relojFalso struct{ t time.Time }

func (r *relojFalso) ahora() time.Time        { return r.t }
func (r *relojFalso) avanzar(d time.Duration) { r.t = r.t.Add(d) }

var errSMTP = errors.New("smtp caido")

func nuevoBreaker(t *testing.T) (*CircuitBreaker, *relojFalso) {
	t.Helper()
	reloj := &relojFalso{t: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 2, OpenTimeout: time.Minute})
	cb.now = reloj.ahora
	return cb, reloj
}

func fallar() error { return errSMTP }
func exito() error  { return nil }

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb, _ := nuevoBreaker(t)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fallar), errSMTP)
	}
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_ExitoReiniciaContador(t *testing.T) {
	cb, _ := nuevoBreaker(t)

	_ = cb.Execute(fallar)
	_ = cb.Execute(fallar)
	require.NoError(t, cb.Execute(exito))
	_ = cb.Execute(fallar)
	_ = cb.Execute(fallar)

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoSeCierraConExitos(t *testing.T) {
	cb, reloj := nuevoBreaker(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}

	reloj.avanzar(59 * time.Second)
	assert.Equal(t, CBOpen, cb.State())

	reloj.avanzar(time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(exito))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(exito))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FalloEnSemiAbiertoReabre(t *testing.T) {
	cb, reloj := nuevoBreaker(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}
	reloj.avanzar(time.Minute)

	assert.ErrorIs(t, cb.Execute(fallar), errSMTP)
	assert.Equal(t, CBOpen, cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, DefaultCBConfig(), cb.cfg)
	assert.Equal(t, "closed", cb.State().String())
}
