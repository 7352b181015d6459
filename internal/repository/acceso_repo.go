package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ── Roles ────────────────────────────────────────────────────────────────────

type RolRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rol *model.Rol) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Rol, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Rol, error)
	List(ctx context.Context, filter dto.RolFilter) ([]model.Rol, int64, error)
	Update(ctx context.Context, tx *gorm.DB, rol *model.Rol) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	ReemplazarPermisos(ctx context.Context, tx *gorm.DB, rol *model.Rol, permisos []model.Permiso) error
	DB() *gorm.DB
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) DB() *gorm.DB { return r.db }

func (r *rolRepo) Create(ctx context.Context, tx *gorm.DB, rol *model.Rol) error {
	return conn(ctx, r.db, tx).Omit("Permisos.*").Create(rol).Error
}

func (r *rolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).Preload("Permisos", func(db *gorm.DB) *gorm.DB {
		return db.Order("codigo ASC")
	}).First(&rol, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rol, nil
}

func (r *rolRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Rol, error) {
	var roles []model.Rol
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	var rol model.Rol
	if err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&rol).Error; err != nil {
		return nil, err
	}
	return &rol, nil
}

func (r *rolRepo) List(ctx context.Context, filter dto.RolFilter) ([]model.Rol, int64, error) {
	var roles []model.Rol
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Rol{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		q = q.Where("LOWER(nombre) LIKE ?", like(filter.Q))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Preload("Permisos").Order("nombre ASC").Find(&roles).Error
	return roles, total, err
}

func (r *rolRepo) Update(ctx context.Context, tx *gorm.DB, rol *model.Rol) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(rol).Error
}

func (r *rolRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Rol{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *rolRepo) ReemplazarPermisos(ctx context.Context, tx *gorm.DB, rol *model.Rol, permisos []model.Permiso) error {
	return conn(ctx, r.db, tx).Model(rol).Omit("Permisos.*").Association("Permisos").Replace(permisos)
}

// ── Permisos ─────────────────────────────────────────────────────────────────

type PermisoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Permiso) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Permiso, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permiso, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Permiso, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Permiso, int64, error)
	Update(ctx context.Context, p *model.Permiso) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	// Count includes inactive rows: an empty table means bootstrap mode.
	Count(ctx context.Context) (int64, error)
}

type permisoRepo struct{ db *gorm.DB }

func NewPermisoRepository(db *gorm.DB) PermisoRepository { return &permisoRepo{db: db} }

func (r *permisoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Permiso) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *permisoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Permiso, error) {
	var p model.Permiso
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permisoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permiso, error) {
	var permisos []model.Permiso
	if len(ids) == 0 {
		return permisos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&permisos).Error
	return permisos, err
}

func (r *permisoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Permiso, error) {
	var p model.Permiso
	if err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permisoRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Permiso, int64, error) {
	var permisos []model.Permiso
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Permiso{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		pat := like(filter.Q)
		q = q.Where("LOWER(codigo) LIKE ? OR LOWER(descripcion) LIKE ?", pat, pat)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Order("codigo ASC").Find(&permisos).Error
	return permisos, total, err
}

func (r *permisoRepo) Update(ctx context.Context, p *model.Permiso) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *permisoRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Permiso{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *permisoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Permiso{}).Count(&n).Error
	return n, err
}
