package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_Mensaje(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 1025, SMTPUser: "bodega@example.com"})

	e, err := m.Mensaje("cliente@example.com", "Factura", "Adjuntamos su factura", "")
	require.NoError(t, err)

	assert.Equal(t, "bodega@example.com", e.From)
	assert.Equal(t, []string{"cliente@example.com"}, e.To)
	assert.Equal(t, "Adjuntamos su factura", string(e.Text))
	assert.Empty(t, e.Attachments)
	assert.Equal(t, "localhost:1025", m.addr)
}

func TestMailer_MensajeConAdjunto(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 1025, SMTPFrom: "ventas@example.com"})
	path := filepath.Join(t.TempDir(), "factura_001-001-0000001.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o644))

	e, err := m.Mensaje("cliente@example.com", "Factura", "cuerpo", path)
	require.NoError(t, err)

	assert.Equal(t, "ventas@example.com", e.From)
	require.Len(t, e.Attachments, 1)
	assert.Equal(t, "factura_001-001-0000001.pdf", e.Attachments[0].Filename)
}

func TestMailer_MensajeErrores(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 1025})

	_, err := m.Mensaje("  ", "Asunto", "cuerpo", "")
	assert.Error(t, err)

	_, err = m.Mensaje("cliente@example.com", "Asunto", "cuerpo", filepath.Join(t.TempDir(), "no-existe.pdf"))
	assert.Error(t, err)
}
