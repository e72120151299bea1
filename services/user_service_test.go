package services

import (
	"context"
	"errors"
	"testing"

	"online-canteen-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_DefaultsToCustomer(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()

	u := c.user(t, "jane@canteen.test")
	assert.Equal(t, []models.RoleName{models.RoleCustomer}, u.RoleNames())
	assert.NotEqual(t, "secret123", u.PasswordHash)

	_, err := c.users.CreateUser(ctx, CreateUserInput{Email: "jane@canteen.test", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = c.users.CreateUser(ctx, CreateUserInput{Email: "bob@canteen.test", Password: "x", Roles: []models.RoleName{"GUEST"}})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestAuthenticate(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	c.user(t, "jane@canteen.test")

	u, err := c.users.Authenticate(ctx, "jane@canteen.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane@canteen.test", u.Email)

	_, err = c.users.Authenticate(ctx, "jane@canteen.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = c.users.Authenticate(ctx, "nobody@canteen.test", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRoles_AddAndRemove(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	u := c.user(t, "jane@canteen.test")

	u, err := c.users.AddRole(ctx, u.ID, models.RoleSeller)
	require.NoError(t, err)
	assert.True(t, u.HasRole(models.RoleSeller))
	assert.Equal(t, models.RoleSeller, u.PrimaryRole())

	// adding twice is harmless
	u, err = c.users.AddRole(ctx, u.ID, models.RoleSeller)
	require.NoError(t, err)
	assert.Len(t, u.Roles, 2)

	sellers, err := c.users.ListByRole(ctx, models.RoleSeller)
	require.NoError(t, err)
	assert.Len(t, sellers, 1)

	u, err = c.users.RemoveRole(ctx, u.ID, models.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, u.PrimaryRole())

	_, err = c.users.AddRole(ctx, 999, models.RoleSeller)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = c.users.AddRole(ctx, u.ID, "GUEST")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUpdateProfile(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	jane := c.user(t, "jane@canteen.test")
	c.user(t, "bob@canteen.test")

	first := "Janet"
	u, err := c.users.UpdateProfile(ctx, jane.ID, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Janet User", u.FullName())

	taken := "bob@canteen.test"
	_, err = c.users.UpdateProfile(ctx, jane.ID, UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailInUse)

	same := "jane@canteen.test"
	_, err = c.users.UpdateProfile(ctx, jane.ID, UpdateProfileInput{Email: &same})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	u := c.user(t, "jane@canteen.test")

	ok, err := c.users.ChangePassword(ctx, u.ID, "wrong", "newpass123")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.users.ChangePassword(ctx, u.ID, "secret123", "newpass123")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.users.Authenticate(ctx, "jane@canteen.test", "newpass123")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	u := c.user(t, "jane@canteen.test")
	admin, err := c.users.CreateUser(ctx, CreateUserInput{
		Email: "admin@canteen.test", Password: "secret123",
		Roles: []models.RoleName{models.RoleAdmin, models.RoleCustomer},
	})
	require.NoError(t, err)

	_, err = c.users.DeleteAccount(ctx, admin.ID, "secret123")
	assert.ErrorIs(t, err, ErrCannotDeleteAdmin)

	ok, err := c.users.DeleteAccount(ctx, u.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.users.DeleteAccount(ctx, u.ID, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = c.users.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_ByAdmin(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	u := c.user(t, "jane@canteen.test")
	admin, err := c.users.CreateUser(ctx, CreateUserInput{
		Email: "admin@canteen.test", Password: "secret123", Roles: []models.RoleName{models.RoleAdmin},
	})
	require.NoError(t, err)

	assert.Equal(t, KindForbidden, KindOf(c.users.DeleteUser(ctx, admin.ID, admin.ID)))
	assert.ErrorIs(t, c.users.DeleteUser(ctx, admin.ID, 999), ErrUserNotFound)
	require.NoError(t, c.users.DeleteUser(ctx, admin.ID, u.ID))

	users, err := c.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteUser_RefusesShopOwnersAndCustomersWithOrders(t *testing.T) {
	c := newCanteenOn(t, setupTestStoreDSN(t, foreignKeysDSN), nil)
	ctx := context.Background()
	admin, err := c.users.CreateUser(ctx, CreateUserInput{
		Email: "admin@canteen.test", Password: "secret123", Roles: []models.RoleName{models.RoleAdmin},
	})
	require.NoError(t, err)

	owner := c.user(t, "owner@canteen.test")
	shop := c.openShop(t, owner, "Coffee Haven")
	latte := c.item(t, shop.ID, "Latte", "120.00")
	jane := c.user(t, "jane@canteen.test")
	_, err = c.orders.CreateOrder(ctx, jane.ID, shop.ID, []OrderLine{{MenuItemID: latte.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	err = c.users.DeleteUser(ctx, admin.ID, owner.ID)
	assert.ErrorIs(t, err, ErrUserHasHistory)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = c.users.DeleteAccount(ctx, jane.ID, "secret123")
	assert.ErrorIs(t, err, ErrUserHasHistory)

	// nothing was stripped on the way
	reloaded, err := c.users.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.RoleName{models.RoleCustomer, models.RoleSeller}, reloaded.RoleNames())
	reloaded, err = c.users.GetUser(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.RoleName{models.RoleCustomer}, reloaded.RoleNames())
}

func TestDeleteUser_RemovesRolesAndNotifications(t *testing.T) {
	c := newCanteenOn(t, setupTestStoreDSN(t, foreignKeysDSN), nil)
	ctx := context.Background()
	admin, err := c.users.CreateUser(ctx, CreateUserInput{
		Email: "admin@canteen.test", Password: "secret123", Roles: []models.RoleName{models.RoleAdmin},
	})
	require.NoError(t, err)
	jane := c.user(t, "jane@canteen.test")
	notes := NewNotificationService(c.store)
	notes.Notify(ctx, jane.ID, "welcome")

	require.NoError(t, c.users.DeleteUser(ctx, admin.ID, jane.ID))

	_, err = c.users.GetUser(ctx, jane.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	left, err := notes.GetUserNotifications(ctx, jane.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	customers, err := c.users.ListByRole(ctx, models.RoleCustomer)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(*models.User) (string, error) { return s.token, s.err }

func TestAuthService(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	auth := NewAuthService(c.users, stubIssuer{token: "signed"})

	res, err := auth.Register(ctx, CreateUserInput{
		Email: "jane@canteen.test", Password: "secret123",
		Roles: []models.RoleName{models.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, "signed", res.Token)
	// registration never grants elevated roles
	assert.Equal(t, []models.RoleName{models.RoleCustomer}, res.User.RoleNames())

	_, err = auth.Register(ctx, CreateUserInput{Email: "jane@canteen.test", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailExists)

	res, err = auth.Login(ctx, "jane@canteen.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "signed", res.Token)

	_, err = auth.Login(ctx, "jane@canteen.test", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = c.users.AddRole(ctx, res.User.ID, models.RoleSeller)
	require.NoError(t, err)
	res, err = auth.Refresh(ctx, res.User.ID)
	require.NoError(t, err)
	assert.True(t, res.User.HasRole(models.RoleSeller))

	failing := NewAuthService(c.users, stubIssuer{err: errors.New("boom")})
	_, err = failing.Login(ctx, "jane@canteen.test", "secret123")
	assert.EqualError(t, err, "boom")
}

func TestNotificationService(t *testing.T) {
	c := newCanteen(t, nil)
	ctx := context.Background()
	notes := NewNotificationService(c.store)
	u := c.user(t, "jane@canteen.test")

	n, err := notes.CreateNotification(ctx, 999, "hello")
	require.NoError(t, err)
	assert.Nil(t, n)

	notes.Notify(ctx, u.ID, "first")
	notes.Notify(ctx, u.ID, "second")
	notes.Notify(ctx, 999, "lost")

	list, err := notes.GetUserNotifications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	unread, err := notes.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, notes.MarkRead(ctx, list[0].ID, u.ID))
	// marking someone else's notification is a no-op
	require.NoError(t, notes.MarkRead(ctx, list[1].ID, 999))
	unread, _ = notes.UnreadCount(ctx, u.ID)
	assert.EqualValues(t, 1, unread)

	marked, err := notes.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrOrderNotFound))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("disk on fire")))
	assert.Equal(t, "invalid_state", KindInvalidState.String())
	assert.True(t, errors.Is(InvalidState("Shop is not currently accepting orders"), ErrShopNotOperational))
}
