package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.User{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).Limit(pageSize).
		Order("name ASC").
		Find(&users).Error
	return users, total, err
}

// RoleIDsForUser returns the user's active role assignments
func (r *UserRepository) RoleIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("role_id", &ids).Error
	return ids, err
}

// RoleNamesForUser returns the names of the user's active roles
func (r *UserRepository) RoleNamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND user_roles.is_active = ?", userID, true).
		Pluck("roles.name", &names).Error
	return names, err
}

// ActiveUserIDsByRole returns the ids of active users holding the role,
// used when fanning out approval notifications to a level's peers
func (r *UserRepository) ActiveUserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role_id = ? AND user_roles.is_active = ? AND users.is_active = ?", roleID, true, true).
		Pluck("user_roles.user_id", &ids).Error
	return ids, err
}

// SuperAdminIDs returns the ids of all active users holding the Super Admin role
func (r *UserRepository) SuperAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("roles.name = ? AND user_roles.is_active = ? AND users.is_active = ?", domain.RoleNameSuperAdmin, true, true).
		Pluck("user_roles.user_id", &ids).Error
	return ids, err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}
