package services

import (
	"context"
	"fmt"

	"online-canteen-api/models"
	"online-canteen-api/repository"

	"github.com/shopspring/decimal"
)

// MenuService handles catalog reads and writes. Shop ownership is checked by
// the caller before any mutation reaches it.
type MenuService struct {
	store *repository.Store
}

func NewMenuService(store *repository.Store) *MenuService {
	return &MenuService{store: store}
}

type AddonInput struct {
	Label string
	Price decimal.Decimal
}

type MenuItemInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	IsAvailable bool
	Variants    []string
	Addons      []AddonInput
	Flavors     []string
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return InvalidArgument("Price must not be negative")
	}
	return nil
}

// CreateMenuItem adds an item to an ACTIVE shop
func (s *MenuService) CreateMenuItem(ctx context.Context, shopID uint, in MenuItemInput) (*models.MenuItem, error) {
	shop, err := s.store.Shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if shop.Status != models.ShopActive {
		return nil, ErrShopMenuInactive
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	for _, a := range in.Addons {
		if err := validatePrice(a.Price); err != nil {
			return nil, err
		}
	}

	item := &models.MenuItem{
		ShopID:      shopID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Price:       in.Price.Round(2),
		IsAvailable: in.IsAvailable,
	}
	for _, v := range in.Variants {
		item.Variants = append(item.Variants, models.MenuItemVariant{Name: v})
	}
	for _, a := range in.Addons {
		item.Addons = append(item.Addons, models.MenuItemAddon{Label: a.Label, Price: a.Price.Round(2)})
	}
	for _, f := range in.Flavors {
		item.Flavors = append(item.Flavors, models.MenuItemFlavor{Name: f})
	}
	if err := s.store.Menu.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.store.Menu.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// GetOptions returns the item with variants, addons and flavors loaded
func (s *MenuService) GetOptions(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.store.Menu.GetWithOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// UpdateMenuItem rewrites the editable fields; the owning shop is kept
func (s *MenuService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Description = in.Description
	item.ImageURL = in.ImageURL
	item.Price = in.Price.Round(2)
	item.IsAvailable = in.IsAvailable
	if err := s.store.Menu.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) UpdateAvailability(ctx context.Context, id uint, available bool) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Menu.UpdateAvailability(ctx, id, available); err != nil {
		return nil, fmt.Errorf("update availability: %w", err)
	}
	item.IsAvailable = available
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id uint) error {
	if _, err := s.GetMenuItem(ctx, id); err != nil {
		return err
	}
	if err := s.store.Menu.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

func (s *MenuService) GetByShop(ctx context.Context, shopID uint) ([]models.MenuItem, error) {
	return s.store.Menu.List(ctx, repository.MenuFilter{ShopID: shopID})
}

func (s *MenuService) GetAvailableByShop(ctx context.Context, shopID uint) ([]models.MenuItem, error) {
	return s.store.Menu.List(ctx, repository.MenuFilter{ShopID: shopID, AvailableOnly: true})
}

// Search matches a case-insensitive substring of the item name
func (s *MenuService) Search(ctx context.Context, shopID uint, q string) ([]models.MenuItem, error) {
	return s.store.Menu.List(ctx, repository.MenuFilter{ShopID: shopID, Query: q})
}

func (s *MenuService) ByMaxPrice(ctx context.Context, shopID uint, max decimal.Decimal) ([]models.MenuItem, error) {
	return s.store.Menu.List(ctx, repository.MenuFilter{ShopID: shopID, MaxPrice: &max})
}

func (s *MenuService) CountAvailable(ctx context.Context, shopID uint) (int64, error) {
	return s.store.Menu.CountAvailable(ctx, shopID)
}

func (s *MenuService) IsMenuItemInShop(ctx context.Context, itemID, shopID uint) (bool, error) {
	return s.store.Menu.ExistsInShop(ctx, itemID, shopID)
}
