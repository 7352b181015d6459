package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRunTx_ErrorRevierte(t *testing.T) {
	e := nuevoEntorno(t)
	fallo := errors.New("fallo")

	err := runTx(context.Background(), e.db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&model.Almacen{ID: uuid.New(), Nombre: "Deposito temporal"}).Error)
		return fallo
	})
	assert.ErrorIs(t, err, fallo)

	var n int64
	require.NoError(t, e.db.Model(&model.Almacen{}).Where("nombre = ?", "Deposito temporal").Count(&n).Error)
	assert.Zero(t, n)
}

func TestRunTx_Confirma(t *testing.T) {
	e := nuevoEntorno(t)

	err := runTx(context.Background(), e.db, func(tx *gorm.DB) error {
		return tx.Create(&model.Almacen{ID: uuid.New(), Nombre: "Deposito norte"}).Error
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, e.db.Model(&model.Almacen{}).Where("nombre = ?", "Deposito norte").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
