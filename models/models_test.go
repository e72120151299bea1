package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []RoleName
		want  RoleName
	}{
		{"empty", nil, ""},
		{"customer only", []RoleName{RoleCustomer}, RoleCustomer},
		{"seller beats customer", []RoleName{RoleCustomer, RoleSeller}, RoleSeller},
		{"admin beats all", []RoleName{RoleCustomer, RoleSeller, RoleAdmin}, RoleAdmin},
		{"unknown falls back to first", []RoleName{"GUEST", "STAFF"}, "GUEST"},
		{"known wins over unknown", []RoleName{"GUEST", RoleCustomer}, RoleCustomer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryRole(tt.roles))
		})
	}
}

func TestParseRoleName(t *testing.T) {
	r, err := ParseRoleName(" seller ")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParseRoleName("driver")
	assert.Error(t, err)
}

func TestUserRoleHelpers(t *testing.T) {
	u := User{FirstName: "Ana", LastName: "Cruz", Roles: []Role{{Name: RoleCustomer}, {Name: RoleSeller}}}
	assert.True(t, u.HasRole(RoleSeller))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.Equal(t, RoleSeller, u.PrimaryRole())
	assert.Equal(t, "Ana Cruz", u.FullName())
}

func TestShopIsOperational(t *testing.T) {
	tests := []struct {
		status ShopStatus
		open   bool
		want   bool
	}{
		{ShopActive, true, true},
		{ShopActive, false, false},
		{ShopPending, true, false},
		{ShopSuspended, true, false},
		{ShopClosed, false, false},
	}
	for _, tt := range tests {
		s := Shop{Status: tt.status, IsOpen: tt.open}
		assert.Equal(t, tt.want, s.IsOperational(), "%s open=%v", tt.status, tt.open)
	}
}

func TestShopLocation(t *testing.T) {
	assert.True(t, LocationMainCanteen.Valid())
	assert.Equal(t, "Main Canteen", LocationMainCanteen.DisplayName())
	assert.False(t, ShopLocation("ROOFTOP").Valid())
	assert.Len(t, Locations(), 5)
}

func TestOrderItemsTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Quantity: 2, PriceAtPurchase: decimal.RequireFromString("120.00")},
		{Quantity: 3, PriceAtPurchase: decimal.RequireFromString("0.10")},
	}}
	assert.True(t, o.ItemsTotal().Equal(decimal.RequireFromString("240.30")))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
	assert.False(t, OrderStatus("SHIPPED").Valid())
}
