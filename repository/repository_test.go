package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"online-canteen-api/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	for _, name := range models.AllRoles {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}
	return db
}

func seedShop(t *testing.T, store *Store) (*models.User, *models.Shop) {
	ctx := context.Background()
	owner := &models.User{Email: "owner@canteen.test", PasswordHash: "x"}
	require.NoError(t, store.Users.Create(ctx, owner))
	shop := &models.Shop{OwnerID: owner.ID, Name: "Coffee Haven", Status: models.ShopActive, IsOpen: true}
	require.NoError(t, store.Shops.Create(ctx, shop))
	return owner, shop
}

func TestUserRepo_Roles(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()

	u := &models.User{Email: "a@canteen.test", PasswordHash: "x"}
	require.NoError(t, store.Users.Create(ctx, u))

	seller, err := store.Users.GetRole(ctx, models.RoleSeller)
	require.NoError(t, err)
	require.NotNil(t, seller)
	require.NoError(t, store.Users.AddRole(ctx, u, seller))

	got, err := store.Users.GetByEmail(ctx, "a@canteen.test")
	require.NoError(t, err)
	assert.True(t, got.HasRole(models.RoleSeller))

	sellers, err := store.Users.ListByRole(ctx, models.RoleSeller)
	require.NoError(t, err)
	assert.Len(t, sellers, 1)

	require.NoError(t, store.Users.RemoveRole(ctx, got, seller))
	got, _ = store.Users.GetByID(ctx, u.ID)
	assert.False(t, got.HasRole(models.RoleSeller))

	missing, err := store.Users.GetByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	role, err := store.Users.GetRole(ctx, "GUEST")
	assert.NoError(t, err)
	assert.Nil(t, role)
}

func TestShopRepo_StatusGuard(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	_, shop := seedShop(t, store)

	n, err := store.Shops.UpdateStatusGuard(ctx, shop.ID, []models.ShopStatus{models.ShopPending}, models.ShopRejected, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Shops.UpdateStatusGuard(ctx, shop.ID, []models.ShopStatus{models.ShopActive}, models.ShopSuspended, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _ := store.Shops.GetByID(ctx, shop.ID)
	assert.Equal(t, models.ShopSuspended, got.Status)
	assert.False(t, got.IsOpen)

	n, err = store.Shops.SetOpen(ctx, shop.ID, true)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMenuRepo_Filters(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	_, shop := seedShop(t, store)

	items := []models.MenuItem{
		{ShopID: shop.ID, Name: "Iced Latte", Price: decimal.RequireFromString("120.00"), IsAvailable: true},
		{ShopID: shop.ID, Name: "Hot latte", Price: decimal.RequireFromString("95.50"), IsAvailable: true},
		{ShopID: shop.ID, Name: "Cheesecake", Price: decimal.RequireFromString("150.00"), IsAvailable: false,
			Addons: []models.MenuItemAddon{{Label: "Berry sauce", Price: decimal.RequireFromString("15.00")}}},
	}
	for i := range items {
		require.NoError(t, store.Menu.Create(ctx, &items[i]))
	}

	found, err := store.Menu.List(ctx, MenuFilter{ShopID: shop.ID, Query: "LATTE"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	max := decimal.RequireFromString("100")
	cheap, err := store.Menu.List(ctx, MenuFilter{ShopID: shop.ID, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "Hot latte", cheap[0].Name)
	assert.True(t, cheap[0].Price.Equal(decimal.RequireFromString("95.5")))

	count, err := store.Menu.CountAvailable(ctx, shop.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	withOpts, err := store.Menu.GetWithOptions(ctx, items[2].ID)
	require.NoError(t, err)
	require.Len(t, withOpts.Addons, 1)

	require.NoError(t, store.Menu.Delete(ctx, items[2].ID))
	gone, err := store.Menu.GetByID(ctx, items[2].ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	in, err := store.Menu.ExistsInShop(ctx, items[0].ID, shop.ID+1)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestOrderRepo_NextQueueNumber_Sequential(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	_, shop := seedShop(t, store)

	for want := 1; want <= 3; want++ {
		var got int
		err := store.Transaction(ctx, func(tx *Store) error {
			var err error
			got, err = tx.Orders.NextQueueNumber(ctx, shop.ID, "2026-10-16")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// a new day starts over
	n, err := store.Orders.NextQueueNumber(ctx, shop.ID, "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	purged, err := store.Orders.PurgeQueueCounters(ctx, "2026-10-17")
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestOrderRepo_NextQueueNumber_SeedsFromExistingOrders(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	owner, shop := seedShop(t, store)

	require.NoError(t, store.Orders.Create(ctx, &models.Order{
		CustomerID: owner.ID, ShopID: shop.ID, Status: models.StatusPending,
		TotalAmount: decimal.Zero, QueueDay: "2026-10-16", QueueNumber: 7, OrderDateTime: time.Now(),
	}))

	n, err := store.Orders.NextQueueNumber(ctx, shop.ID, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestOrderRepo_NextQueueNumber_Concurrent(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	_, shop := seedShop(t, store)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			err := store.Transaction(ctx, func(tx *Store) error {
				var err error
				n, err = tx.Orders.NextQueueNumber(ctx, shop.ID, "2026-10-16")
				return err
			})
			assert.NoError(t, err)
			mu.Lock()
			numbers[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, numbers[i], "missing queue number %d", i)
	}
}

func TestNotificationRepo(t *testing.T) {
	store := NewStore(setupRepoTestDB(t))
	ctx := context.Background()
	owner, _ := seedShop(t, store)

	first := &models.Notification{UserID: owner.ID, Message: "first"}
	second := &models.Notification{UserID: owner.ID, Message: "second"}
	require.NoError(t, store.Notifications.Create(ctx, first))
	require.NoError(t, store.Notifications.Create(ctx, second))

	list, err := store.Notifications.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	n, err := store.Notifications.MarkRead(ctx, first.ID, owner.ID+1)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Notifications.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := store.Notifications.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
