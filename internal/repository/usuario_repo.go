package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsuarioRepository interface {
	Create(ctx context.Context, tx *gorm.DB, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error)
	Update(ctx context.Context, tx *gorm.DB, u *model.Usuario) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	ReemplazarRoles(ctx context.Context, tx *gorm.DB, u *model.Usuario, roles []model.Rol) error
	// Existe checks username or email uniqueness, ignoring excluir.
	Existe(ctx context.Context, columna, valor string, excluir uuid.UUID) (bool, error)
	// CodigosPermiso returns the codes granted through active roles holding
	// active permisos.
	CodigosPermiso(ctx context.Context, usuarioID uuid.UUID) ([]string, error)
	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) Create(ctx context.Context, tx *gorm.DB, u *model.Usuario) error {
	return conn(ctx, r.db, tx).Omit("Roles.*", "Empleado").Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Roles").Preload("Empleado").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	var usuarios []model.Usuario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Usuario{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		pat := like(filter.Q)
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pat, pat)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Preload("Roles").Order("username ASC").Find(&usuarios).Error
	return usuarios, total, err
}

func (r *usuarioRepo) Update(ctx context.Context, tx *gorm.DB, u *model.Usuario) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(u).Error
}

func (r *usuarioRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *usuarioRepo) ReemplazarRoles(ctx context.Context, tx *gorm.DB, u *model.Usuario, roles []model.Rol) error {
	return conn(ctx, r.db, tx).Model(u).Omit("Roles.*").Association("Roles").Replace(roles)
}

var columnasUnicasUsuario = map[string]bool{"username": true, "email": true}

func (r *usuarioRepo) Existe(ctx context.Context, columna, valor string, excluir uuid.UUID) (bool, error) {
	if !columnasUnicasUsuario[columna] {
		return false, gorm.ErrInvalidField
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where(columna+" = ? AND id <> ?", valor, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) CodigosPermiso(ctx context.Context, usuarioID uuid.UUID) ([]string, error) {
	var codigos []string
	err := r.db.WithContext(ctx).
		Table("permisos p").
		Distinct("p.codigo").
		Joins("JOIN rol_permisos rp ON rp.permiso_id = p.id").
		Joins("JOIN roles r ON r.id = rp.rol_id").
		Joins("JOIN usuario_roles ur ON ur.rol_id = r.id").
		Where("ur.usuario_id = ? AND r.activo = ? AND p.activo = ?", usuarioID, true, true).
		Order("p.codigo").
		Pluck("p.codigo", &codigos).Error
	return codigos, err
}
