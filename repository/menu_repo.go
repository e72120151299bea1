package repository

import (
	"context"
	"errors"
	"strings"

	"online-canteen-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	GetWithOptions(ctx context.Context, id uint) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	UpdateAvailability(ctx context.Context, id uint, available bool) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	CountAvailable(ctx context.Context, shopID uint) (int64, error)
	ExistsInShop(ctx context.Context, itemID, shopID uint) (bool, error)
}

type MenuFilter struct {
	ShopID        uint
	AvailableOnly bool
	// Query is matched case-insensitively against the item name
	Query    string
	MaxPrice *decimal.Decimal
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// Create inserts the item together with its variants, addons and flavors
func (r *menuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) GetWithOptions(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Addons").
		Preload("Flavors").
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update writes the editable columns; the owning shop never changes
func (r *menuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{ID: item.ID}).
		Select("name", "description", "image_url", "price", "is_available").
		Updates(item).Error
}

func (r *menuRepository) UpdateAvailability(ctx context.Context, id uint, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Update("is_available", available).Error
}

// Delete removes the option rows first so it also works without FK cascades
func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.MenuItemVariant{}, &models.MenuItemAddon{}, &models.MenuItemFlavor{}} {
			if err := tx.Where("menu_item_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.MenuItem{}, id).Error
	})
}

func (r *menuRepository) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.ShopID != 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var items []models.MenuItem
	err := query.Order("id asc").Find(&items).Error
	return items, err
}

func (r *menuRepository) CountAvailable(ctx context.Context, shopID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("shop_id = ? AND is_available = ?", shopID, true).
		Count(&count).Error
	return count, err
}

func (r *menuRepository) ExistsInShop(ctx context.Context, itemID, shopID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND shop_id = ?", itemID, shopID).
		Count(&count).Error
	return count > 0, err
}
