package services

import (
	"context"
	"testing"
	"time"

	"online-canteen-api/models"
	"online-canteen-api/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func setupTestStore(t *testing.T) *repository.Store {
	return setupTestStoreDSN(t, ":memory:")
}

// foreignKeysDSN turns on constraint enforcement the way postgres would
const foreignKeysDSN = ":memory:?_pragma=foreign_keys(1)"

func setupTestStoreDSN(t *testing.T, dsn string) *repository.Store {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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
	return repository.NewStore(db)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, uint, string) {}

// canteen bundles the services over one store
type canteen struct {
	store  *repository.Store
	users  *UserService
	shops  *ShopService
	menu   *MenuService
	orders *OrderService
}

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newCanteen(t *testing.T, notifier Notifier) *canteen {
	return newCanteenOn(t, setupTestStore(t), notifier)
}

func newCanteenOn(t *testing.T, store *repository.Store, notifier Notifier) *canteen {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &canteen{
		store:  store,
		users:  NewUserService(store),
		shops:  NewShopService(store, notifier),
		menu:   NewMenuService(store),
		orders: NewOrderService(store, time.UTC).WithClock(func() time.Time { return fixedNow }),
	}
}

func (c *canteen) user(t *testing.T, email string) *models.User {
	u, err := c.users.CreateUser(context.Background(), CreateUserInput{
		Email: email, Password: "secret123", FirstName: "Test", LastName: "User",
	})
	require.NoError(t, err)
	return u
}

// openShop creates, approves and opens a shop for owner
func (c *canteen) openShop(t *testing.T, owner *models.User, name string) *models.Shop {
	ctx := context.Background()
	shop, err := c.shops.CreateShop(ctx, owner.ID, ShopInput{Name: name, Location: models.LocationJHSCanteen})
	require.NoError(t, err)
	_, err = c.shops.ApproveShop(ctx, shop.ID)
	require.NoError(t, err)
	shop, err = c.shops.ToggleOpenStatus(ctx, shop.ID)
	require.NoError(t, err)
	require.True(t, shop.IsOperational())
	return shop
}

func (c *canteen) item(t *testing.T, shopID uint, name, price string) *models.MenuItem {
	item, err := c.menu.CreateMenuItem(context.Background(), shopID, MenuItemInput{
		Name: name, Price: decimal.RequireFromString(price), IsAvailable: true,
	})
	require.NoError(t, err)
	return item
}
