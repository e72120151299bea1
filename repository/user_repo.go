package repository

import (
	"context"
	"errors"

	"online-canteen-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	// Delete removes the role links, the user's notifications and the user
	// row in one transaction
	Delete(ctx context.Context, id uint) error
	// HasDependents reports whether the user owns a shop or placed an order
	HasDependents(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.RoleName) ([]models.User, error)

	GetRole(ctx context.Context, name models.RoleName) (*models.Role, error)
	AddRole(ctx context.Context, user *models.User, role *models.Role) error
	RemoveRole(ctx context.Context, user *models.User, role *models.Role) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateProfile writes the self-editable columns only
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("email", "first_name", "last_name", "avatar_url").
		Updates(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{ID: id}).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (r *userRepository) HasDependents(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	var shops int64
	if err := db.Model(&models.Shop{}).Where("owner_id = ?", id).Count(&shops).Error; err != nil {
		return false, err
	}
	if shops > 0 {
		return true, nil
	}
	var orders int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
		return false, err
	}
	return orders > 0, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("Roles").Order("id asc").Find(&users).Error
	return users, err
}

func (r *userRepository) ListByRole(ctx context.Context, role models.RoleName) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", role).
		Order("users.id asc").
		Find(&users).Error
	return users, err
}

func (r *userRepository) GetRole(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) AddRole(ctx context.Context, user *models.User, role *models.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Append(role)
}

func (r *userRepository) RemoveRole(ctx context.Context, user *models.User, role *models.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Delete(role)
}
