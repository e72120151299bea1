package services

import (
	"context"
	"testing"

	"online-canteen-api/models"
	"online-canteen-api/services/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateShop_AlwaysPendingAndClosed(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	owner := c.user(t, "owner@canteen.test")

	shop, err := c.shops.CreateShop(ctx, owner.ID, ShopInput{Name: "Coffee Haven", Location: models.LocationMainCanteen})
	require.NoError(t, err)
	assert.Equal(t, models.ShopPending, shop.Status)
	assert.False(t, shop.IsOpen)

	_, err = c.shops.CreateShop(ctx, owner.ID, ShopInput{Name: "Nowhere", Location: "ROOFTOP"})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = c.shops.CreateShop(ctx, 999, ShopInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	mine, err := c.shops.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	active, err := c.shops.ListActiveByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestApproveShop_GrantsSellerAndNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	c := newCanteen(t, notifier)
	ctx := context.Background()
	owner := c.user(t, "owner@canteen.test")
	assert.False(t, owner.HasRole(models.RoleSeller))

	shop, err := c.shops.CreateShop(ctx, owner.ID, ShopInput{Name: "Coffee Haven"})
	require.NoError(t, err)

	notifier.EXPECT().Notify(gomock.Any(), owner.ID, "Your shop 'Coffee Haven' has been APPROVED!").Times(1)
	approved, err := c.shops.ApproveShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopActive, approved.Status)
	assert.False(t, approved.IsOpen)

	reloaded, err := c.users.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.HasRole(models.RoleSeller))
	assert.Equal(t, models.RoleSeller, reloaded.PrimaryRole())

	// approving an ACTIVE shop is an invalid state, and nobody is notified
	_, err = c.shops.ApproveShop(ctx, shop.ID)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestRejectShop_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	c := newCanteen(t, notifier)
	ctx := context.Background()
	owner := c.user(t, "owner@canteen.test")
	shop, err := c.shops.CreateShop(ctx, owner.ID, ShopInput{Name: "Coffee Haven"})
	require.NoError(t, err)

	notifier.EXPECT().Notify(gomock.Any(), owner.ID, "Your shop 'Coffee Haven' was REJECTED by the admin.")
	rejected, err := c.shops.RejectShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopRejected, rejected.Status)

	// REJECTED is terminal for approval
	_, err = c.shops.ApproveShop(ctx, shop.ID)
	assert.Equal(t, KindInvalidState, KindOf(err))

	reloaded, err := c.users.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.HasRole(models.RoleSeller))
}

func TestSuspendAndReinstate(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	shop := c.openShop(t, c.user(t, "owner@canteen.test"), "Coffee Haven")

	suspended, err := c.shops.SuspendShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopSuspended, suspended.Status)
	assert.False(t, suspended.IsOpen)

	_, err = c.shops.ToggleOpenStatus(ctx, shop.ID)
	assert.ErrorIs(t, err, ErrShopNotActive)

	reinstated, err := c.shops.ApproveShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopActive, reinstated.Status)
	assert.False(t, reinstated.IsOpen)

	operational, err := c.shops.ListOperational(ctx)
	require.NoError(t, err)
	assert.Empty(t, operational)
}

func TestCloseShop(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	owner := c.user(t, "owner@canteen.test")
	shop := c.openShop(t, owner, "Coffee Haven")

	closed, err := c.shops.SoftDelete(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopClosed, closed.Status)
	assert.False(t, closed.IsOpen)

	_, err = c.shops.CloseShop(ctx, shop.ID)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = c.shops.SuspendShop(ctx, 999)
	assert.ErrorIs(t, err, ErrShopNotFound)

	byStatus, err := c.shops.ListByStatus(ctx, models.ShopClosed)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)
	_, err = c.shops.ListByStatus(ctx, "GONE")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestToggleOpenStatus_PendingShop(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	shop, err := c.shops.CreateShop(ctx, c.user(t, "owner@canteen.test").ID, ShopInput{Name: "Coffee Haven"})
	require.NoError(t, err)

	_, err = c.shops.ToggleOpenStatus(ctx, shop.ID)
	assert.ErrorIs(t, err, ErrShopNotActive)
}

func TestUpdateShop_KeepsLifecycleFields(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	owner := c.user(t, "owner@canteen.test")
	shop := c.openShop(t, owner, "Coffee Haven")

	updated, err := c.shops.UpdateShop(ctx, shop.ID, ShopInput{
		Name:          "Coffee Haven Express",
		Description:   "Now with pastries",
		Location:      models.LocationFrontgate,
		ContactNumber: "09171234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee Haven Express", updated.Name)
	assert.Equal(t, models.LocationFrontgate, updated.Location)
	assert.Equal(t, models.ShopActive, updated.Status)
	assert.True(t, updated.IsOpen)
	assert.Equal(t, owner.ID, updated.OwnerID)

	owned, err := c.shops.IsOwnedBy(ctx, owner.ID, shop.ID)
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestCreateMenuItem_RequiresActiveShop(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	shop, err := c.shops.CreateShop(ctx, c.user(t, "owner@canteen.test").ID, ShopInput{Name: "Coffee Haven"})
	require.NoError(t, err)

	_, err = c.menu.CreateMenuItem(ctx, shop.ID, MenuItemInput{Name: "Latte", Price: decimal.NewFromInt(120), IsAvailable: true})
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.ErrorIs(t, err, ErrShopMenuInactive)

	_, err = c.menu.CreateMenuItem(ctx, 999, MenuItemInput{Name: "Latte", Price: decimal.NewFromInt(120)})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestMenuCatalog(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	shop := c.openShop(t, c.user(t, "owner@canteen.test"), "Coffee Haven")

	latte, err := c.menu.CreateMenuItem(ctx, shop.ID, MenuItemInput{
		Name:        "Iced Latte",
		Price:       decimal.RequireFromString("120.00"),
		IsAvailable: true,
		Variants:    []string{"Tall", "Grande"},
		Addons:      []AddonInput{{Label: "Extra shot", Price: decimal.RequireFromString("25")}},
		Flavors:     []string{"Vanilla"},
	})
	require.NoError(t, err)
	c.item(t, shop.ID, "Espresso", "80.00")

	_, err = c.menu.CreateMenuItem(ctx, shop.ID, MenuItemInput{Name: "Refund", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	opts, err := c.menu.GetOptions(ctx, latte.ID)
	require.NoError(t, err)
	assert.Len(t, opts.Variants, 2)
	assert.Len(t, opts.Addons, 1)
	assert.Len(t, opts.Flavors, 1)

	found, err := c.menu.Search(ctx, shop.ID, "LATTE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Iced Latte", found[0].Name)

	cheap, err := c.menu.ByMaxPrice(ctx, shop.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "Espresso", cheap[0].Name)

	_, err = c.menu.UpdateAvailability(ctx, latte.ID, false)
	require.NoError(t, err)
	count, err := c.menu.CountAvailable(ctx, shop.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	available, err := c.menu.GetAvailableByShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Len(t, available, 1)
	all, err := c.menu.GetByShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	in, err := c.menu.IsMenuItemInShop(ctx, latte.ID, shop.ID)
	require.NoError(t, err)
	assert.True(t, in)

	require.NoError(t, c.menu.DeleteMenuItem(ctx, latte.ID))
	_, err = c.menu.GetMenuItem(ctx, latte.ID)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
	assert.ErrorIs(t, c.menu.DeleteMenuItem(ctx, latte.ID), ErrMenuItemNotFound)
}
