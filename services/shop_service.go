package services

import (
	"context"
	"fmt"

	"online-canteen-api/logger"
	"online-canteen-api/metrics"
	"online-canteen-api/models"
	"online-canteen-api/repository"
	"online-canteen-api/statemachine"

	"go.uber.org/zap"
)

type ShopService struct {
	store    *repository.Store
	notifier Notifier
}

func NewShopService(store *repository.Store, notifier Notifier) *ShopService {
	return &ShopService{store: store, notifier: notifier}
}

// ShopInput holds the descriptive fields a client may set
type ShopInput struct {
	Name          string
	Description   string
	Address       string
	Location      models.ShopLocation
	ContactNumber string
	ImageURL      string
}

// CreateShop files a shop application. Status is always PENDING and the shop
// starts closed, whatever the caller asked for.
func (s *ShopService) CreateShop(ctx context.Context, ownerID uint, in ShopInput) (*models.Shop, error) {
	owner, err := s.store.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	if in.Location != "" && !in.Location.Valid() {
		return nil, InvalidArgument("Unknown location %q", in.Location)
	}

	shop := &models.Shop{
		OwnerID:       ownerID,
		Name:          in.Name,
		Description:   in.Description,
		Address:       in.Address,
		Location:      in.Location,
		ContactNumber: in.ContactNumber,
		ImageURL:      in.ImageURL,
		Status:        models.ShopPending,
		IsOpen:        false,
	}
	if err := s.store.Shops.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	logger.FromContext(ctx).Info("shop application created",
		zap.Uint("shop_id", shop.ID), zap.Uint("owner_id", ownerID))
	return shop, nil
}

func (s *ShopService) GetShop(ctx context.Context, id uint) (*models.Shop, error) {
	shop, err := s.store.Shops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

func (s *ShopService) IsOwnedBy(ctx context.Context, userID, shopID uint) (bool, error) {
	return s.store.Shops.IsOwnedBy(ctx, shopID, userID)
}

func (s *ShopService) ListOperational(ctx context.Context) ([]models.Shop, error) {
	return s.store.Shops.List(ctx, repository.ShopFilter{OperationalOnly: true})
}

func (s *ShopService) ListAll(ctx context.Context) ([]models.Shop, error) {
	return s.store.Shops.List(ctx, repository.ShopFilter{})
}

func (s *ShopService) ListByStatus(ctx context.Context, status models.ShopStatus) ([]models.Shop, error) {
	if !status.Valid() {
		return nil, InvalidArgument("Unknown shop status %q", status)
	}
	return s.store.Shops.List(ctx, repository.ShopFilter{Status: status})
}

func (s *ShopService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Shop, error) {
	return s.store.Shops.List(ctx, repository.ShopFilter{OwnerID: ownerID})
}

func (s *ShopService) ListActiveByOwner(ctx context.Context, ownerID uint) ([]models.Shop, error) {
	return s.store.Shops.List(ctx, repository.ShopFilter{OwnerID: ownerID, Status: models.ShopActive})
}

// UpdateShop rewrites descriptive fields only. Owner, status, isOpen and
// createdAt always come from the stored record.
func (s *ShopService) UpdateShop(ctx context.Context, shopID uint, in ShopInput) (*models.Shop, error) {
	shop, err := s.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if in.Location != "" && !in.Location.Valid() {
		return nil, InvalidArgument("Unknown location %q", in.Location)
	}
	shop.Name = in.Name
	shop.Description = in.Description
	shop.Address = in.Address
	shop.Location = in.Location
	shop.ContactNumber = in.ContactNumber
	shop.ImageURL = in.ImageURL
	if err := s.store.Shops.UpdateDetails(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return s.GetShop(ctx, shopID)
}

// ApproveShop activates a PENDING (or reinstates a SUSPENDED) shop and grants
// the owner SELLER. Approving an ACTIVE shop fails with InvalidState.
func (s *ShopService) ApproveShop(ctx context.Context, shopID uint) (*models.Shop, error) {
	shop, err := s.transition(ctx, shopID, models.ShopActive, statemachine.ActorAdmin, func(tx *repository.Store, shop *models.Shop) error {
		owner, err := tx.Users.GetByID(ctx, shop.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return ErrUserNotFound
		}
		if owner.HasRole(models.RoleSeller) {
			return nil
		}
		role, err := tx.Users.GetRole(ctx, models.RoleSeller)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}
		if err := tx.Users.AddRole(ctx, owner, role); err != nil {
			return fmt.Errorf("grant seller role: %w", err)
		}
		logger.FromContext(ctx).Info("granted seller role",
			zap.Uint("user_id", owner.ID), zap.Uint("shop_id", shop.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, shop.OwnerID, fmt.Sprintf("Your shop '%s' has been APPROVED!", shop.Name))
	return shop, nil
}

func (s *ShopService) RejectShop(ctx context.Context, shopID uint) (*models.Shop, error) {
	shop, err := s.transition(ctx, shopID, models.ShopRejected, statemachine.ActorAdmin, nil)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, shop.OwnerID, fmt.Sprintf("Your shop '%s' was REJECTED by the admin.", shop.Name))
	return shop, nil
}

// SuspendShop also forces the shop closed
func (s *ShopService) SuspendShop(ctx context.Context, shopID uint) (*models.Shop, error) {
	return s.transition(ctx, shopID, models.ShopSuspended, statemachine.ActorAdmin, nil)
}

// CloseShop is the admin close; it also forces the shop closed
func (s *ShopService) CloseShop(ctx context.Context, shopID uint) (*models.Shop, error) {
	return s.transition(ctx, shopID, models.ShopClosed, statemachine.ActorAdmin, nil)
}

// SoftDelete is the owner-side close
func (s *ShopService) SoftDelete(ctx context.Context, shopID uint) (*models.Shop, error) {
	return s.transition(ctx, shopID, models.ShopClosed, statemachine.ActorOwner, nil)
}

// ToggleOpenStatus flips isOpen; only ACTIVE shops can be opened or closed
func (s *ShopService) ToggleOpenStatus(ctx context.Context, shopID uint) (*models.Shop, error) {
	shop, err := s.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status != models.ShopActive {
		return nil, ErrShopNotActive
	}
	n, err := s.store.Shops.SetOpen(ctx, shopID, !shop.IsOpen)
	if err != nil {
		return nil, fmt.Errorf("toggle shop: %w", err)
	}
	if n == 0 {
		return nil, ErrShopNotActive
	}
	shop.IsOpen = !shop.IsOpen
	logger.FromContext(ctx).Info("shop open flag toggled",
		zap.Uint("shop_id", shopID), zap.Bool("is_open", shop.IsOpen))
	return shop, nil
}

// transition applies a guarded status change and runs after inside the same
// transaction. Anything other than ACTIVE also forces isOpen=false.
func (s *ShopService) transition(ctx context.Context, shopID uint, to models.ShopStatus, actor statemachine.Actor,
	after func(tx *repository.Store, shop *models.Shop) error) (*models.Shop, error) {
	var result *models.Shop
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		shop, err := tx.Shops.GetByID(ctx, shopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return ErrShopNotFound
		}
		if err := statemachine.CanTransitionShop(shop.Status, to, actor); err != nil {
			return InvalidState("Shop is %s and cannot be moved to %s", shop.Status, to)
		}

		closeShop := to != models.ShopActive
		n, err := tx.Shops.UpdateStatusGuard(ctx, shopID, statemachine.ShopSourcesFor(to, actor), to, closeShop)
		if err != nil {
			return fmt.Errorf("update shop status: %w", err)
		}
		if n == 0 {
			return ErrStatusChanged
		}
		from := shop.Status
		shop.Status = to
		if closeShop {
			shop.IsOpen = false
		}
		if after != nil {
			if err := after(tx, shop); err != nil {
				return err
			}
		}
		logger.FromContext(ctx).Info("shop status changed",
			zap.Uint("shop_id", shopID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("actor", string(actor)))
		result = shop
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ShopTransitions.WithLabelValues(string(to)).Inc()
	return result, nil
}
