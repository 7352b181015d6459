package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonaRepository persists personas together with their empleado or
// cliente detail row.
type PersonaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Persona) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error)
	List(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, int64, error)
	// ListarTodos applies the filter without pagination, for exports.
	ListarTodos(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Persona) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	// Existe reports whether another persona already uses valor in columna.
	// columna must be one of documento, ruc or email.
	Existe(ctx context.Context, columna, valor string, excluir uuid.UUID) (bool, error)
	DB() *gorm.DB
}

type personaRepo struct{ db *gorm.DB }

func NewPersonaRepository(db *gorm.DB) PersonaRepository { return &personaRepo{db: db} }

func (r *personaRepo) DB() *gorm.DB { return r.db }

func (r *personaRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Persona) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *personaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error) {
	var p model.Persona
	err := r.db.WithContext(ctx).Preload("Empleado").Preload("Cliente").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personaRepo) filtrar(ctx context.Context, filter dto.PersonaFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Persona{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Q != "" {
		pat := like(filter.Q)
		q = q.Where("LOWER(documento) LIKE ? OR LOWER(ruc) LIKE ? OR LOWER(nombre) LIKE ? OR LOWER(apellido) LIKE ?",
			pat, pat, pat, pat)
	}
	return q
}

func (r *personaRepo) List(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, int64, error) {
	var personas []model.Persona
	var total int64

	q := r.filtrar(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Empleado").Preload("Cliente").
		Order("apellido ASC, nombre ASC").
		Find(&personas).Error
	return personas, total, err
}

func (r *personaRepo) ListarTodos(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, error) {
	var personas []model.Persona
	err := r.filtrar(ctx, filter).
		Preload("Empleado").Preload("Cliente").
		Order("apellido ASC, nombre ASC").
		Find(&personas).Error
	return personas, err
}

// Update saves the persona row and upserts its variant detail row.
func (r *personaRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Persona) error {
	db := conn(ctx, r.db, tx)
	if err := db.Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}
	if p.Empleado != nil {
		p.Empleado.PersonaID = p.ID
		if err := db.Save(p.Empleado).Error; err != nil {
			return err
		}
	}
	if p.Cliente != nil {
		p.Cliente.PersonaID = p.ID
		if err := db.Save(p.Cliente).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *personaRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Persona{}).Where("id = ?", id).Update("activo", activo).Error
}

var columnasUnicasPersona = map[string]bool{"documento": true, "ruc": true, "email": true}

func (r *personaRepo) Existe(ctx context.Context, columna, valor string, excluir uuid.UUID) (bool, error) {
	if !columnasUnicasPersona[columna] {
		return false, gorm.ErrInvalidField
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Persona{}).
		Where(columna+" = ? AND id <> ?", valor, excluir).
		Count(&n).Error
	return n > 0, err
}
