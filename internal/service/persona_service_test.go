package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonaService_NormalizaNombres(t *testing.T) {
	e := nuevoEntorno(t)

	p, err := e.personaSvc.CrearContacto(context.Background(), dto.PersonaRequest{
		Nombre:   "  maría   josé ",
		Apellido: "BENÍTEZ",
		Email:    ptr(" Maria@Example.COM "),
	})
	require.NoError(t, err)

	assert.Equal(t, "María José", p.Nombre)
	assert.Equal(t, "Benítez", p.Apellido)
	assert.Equal(t, "maria@example.com", *p.Email)
	assert.Equal(t, model.TipoContacto, p.Tipo)
}

func TestPersonaService_UnicosComoErroresDeCampo(t *testing.T) {
	e := nuevoEntorno(t)
	e.cliente(t, "4444444")

	_, err := e.personaSvc.CrearContacto(context.Background(), dto.PersonaRequest{
		Documento: ptr("4444444"),
		Nombre:    "otro",
		Apellido:  "cliente",
		Email:     ptr("juan.4444444@example.com"),
	})
	requireCampo(t, err, "documento")
	requireCampo(t, err, "email")
}

func TestPersonaService_EmpleadoYCliente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	emp, err := e.personaSvc.CrearEmpleado(ctx, dto.EmpleadoRequest{
		PersonaRequest:    dto.PersonaRequest{Nombre: "carlos", Apellido: "rojas"},
		FechaContratacion: "2025-02-01",
		Cargo:             "Repositor",
		Salario:           dec("2800000"),
	})
	require.NoError(t, err)
	require.NotNil(t, emp.Empleado)
	assert.Equal(t, "2025-02-01", emp.Empleado.FechaContratacion)

	cliID := e.cliente(t, "5555555")
	cli, err := e.personaSvc.ActualizarCliente(ctx, cliID, dto.ClienteRequest{
		PersonaRequest: dto.PersonaRequest{Nombre: "juan", Apellido: "perez", Documento: ptr("5555555")},
		CondicionPago:  "credito",
		DiasCredito:    30,
		LimiteCredito:  dec("1500000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "credito", cli.Cliente.CondicionPago)

	leido, err := e.personaSvc.ObtenerPorID(ctx, cliID)
	require.NoError(t, err)
	assert.Equal(t, 30, leido.Cliente.DiasCredito)

	_, err = e.personaSvc.ActualizarEmpleado(ctx, cliID, dto.EmpleadoRequest{
		PersonaRequest:    dto.PersonaRequest{Nombre: "juan", Apellido: "perez"},
		FechaContratacion: "2025-01-01",
		Cargo:             "Cajero",
	})
	requireCodigo(t, err, apierror.CodeStateConflict)
}

func TestPersonaService_AlternarActivoYFiltro(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	id := e.cliente(t, "6666666")

	tg, err := e.personaSvc.AlternarActivo(ctx, id)
	require.NoError(t, err)
	assert.False(t, tg.Activo)

	activos, err := e.personaSvc.Listar(ctx, dto.PersonaFilter{Activo: "true"})
	require.NoError(t, err)
	assert.Zero(t, activos.Total)

	_, err = e.personaSvc.ObtenerPorID(ctx, uuid.New())
	requireCodigo(t, err, apierror.CodeNotFound)
}
