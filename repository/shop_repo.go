package repository

import (
	"context"
	"errors"

	"online-canteen-api/models"

	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	GetByID(ctx context.Context, id uint) (*models.Shop, error)
	UpdateDetails(ctx context.Context, shop *models.Shop) error
	List(ctx context.Context, filter ShopFilter) ([]models.Shop, error)
	IsOwnedBy(ctx context.Context, shopID, userID uint) (bool, error)

	// UpdateStatusGuard moves a shop to `to` only while its status is one of
	// `from`. It returns the number of rows changed (0 when the guard failed).
	UpdateStatusGuard(ctx context.Context, id uint, from []models.ShopStatus, to models.ShopStatus, closeShop bool) (int64, error)
	// SetOpen flips isOpen only while the shop is ACTIVE
	SetOpen(ctx context.Context, id uint, open bool) (int64, error)
}

type ShopFilter struct {
	Status          models.ShopStatus
	OwnerID         uint
	OperationalOnly bool
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).First(&shop, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// UpdateDetails writes descriptive columns. Owner, status, isOpen and
// createdAt are never part of the update.
func (r *shopRepository) UpdateDetails(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{ID: shop.ID}).
		Select("name", "description", "address", "location", "contact_number", "image_url").
		Updates(shop).Error
}

func (r *shopRepository) List(ctx context.Context, filter ShopFilter) ([]models.Shop, error) {
	query := r.db.WithContext(ctx).Model(&models.Shop{})
	if filter.OperationalOnly {
		query = query.Where("status = ? AND is_open = ?", models.ShopActive, true)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var shops []models.Shop
	err := query.Order("id asc").Find(&shops).Error
	return shops, err
}

func (r *shopRepository) IsOwnedBy(ctx context.Context, shopID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ? AND owner_id = ?", shopID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *shopRepository) UpdateStatusGuard(ctx context.Context, id uint, from []models.ShopStatus, to models.ShopStatus, closeShop bool) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if closeShop {
		updates["is_open"] = false
	}
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *shopRepository) SetOpen(ctx context.Context, id uint, open bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ? AND status = ?", id, models.ShopActive).
		Update("is_open", open)
	return res.RowsAffected, res.Error
}
